// Package content はサイトに表示するコンテンツのデータモデルと、
// デフォルト値とのマージ・画像正規化・フォールバック解決などの純粋関数をまとめる。
package content

import (
	"errors"
	"strings"
	"time"
)

// Section identifies one top-level part of the site content.
type Section string

const (
	SectionCompany    Section = "company"
	SectionBranding   Section = "branding"
	SectionHero       Section = "hero"
	SectionHeroPhotos Section = "heroPhotos"
	SectionCategories Section = "categories"
	SectionProjects   Section = "projects"
	SectionReviews    Section = "reviews"
)

// ErrUnknownSection is returned when a section name does not match any known section.
var ErrUnknownSection = errors.New("unknown content section")

// Sections lists every section in render order.
func Sections() []Section {
	return []Section{
		SectionCompany,
		SectionBranding,
		SectionHero,
		SectionHeroPhotos,
		SectionCategories,
		SectionProjects,
		SectionReviews,
	}
}

// ParseSection はパスパラメータなどの文字列を Section に変換する。
func ParseSection(value string) (Section, error) {
	trimmed := strings.TrimSpace(value)
	for _, s := range Sections() {
		if strings.EqualFold(string(s), trimmed) {
			return s, nil
		}
	}
	return "", ErrUnknownSection
}

// Social holds official profile links.
type Social struct {
	Facebook  string `json:"facebook,omitempty" yaml:"facebook,omitempty"`
	Instagram string `json:"instagram,omitempty" yaml:"instagram,omitempty"`
	LinkedIn  string `json:"linkedin,omitempty" yaml:"linkedin,omitempty"`
	X         string `json:"x,omitempty" yaml:"x,omitempty"`
}

// Company は siteContent/company のシングルトンドキュメント。
type Company struct {
	Name      string   `json:"name" yaml:"name"`
	Tagline   string   `json:"tagline" yaml:"tagline"`
	Intro     string   `json:"intro" yaml:"intro"`
	Email     string   `json:"email" yaml:"email"`
	WhatsApp  string   `json:"whatsapp" yaml:"whatsapp"`
	Phones    []string `json:"phones" yaml:"phones"`
	Locations []string `json:"locations" yaml:"locations"`
	Social    Social   `json:"social" yaml:"social"`
}

// Branding は siteContent/branding のシングルトンドキュメント。すべて画像 URL。
type Branding struct {
	LogoLight string `json:"logoLight" yaml:"logoLight"`
	LogoDark  string `json:"logoDark" yaml:"logoDark"`
	Favicon   string `json:"favicon" yaml:"favicon"`
	OGImage   string `json:"ogImage" yaml:"ogImage"`
}

// Hero は siteContent/hero のシングルトンドキュメント。
type Hero struct {
	Badge            string `json:"badge" yaml:"badge"`
	Title            string `json:"title" yaml:"title"`
	Accent           string `json:"accent" yaml:"accent"`
	Lead             string `json:"lead" yaml:"lead"`
	PrimaryCtaText   string `json:"primaryCtaText" yaml:"primaryCtaText"`
	PrimaryCtaURL    string `json:"primaryCtaUrl" yaml:"primaryCtaUrl"`
	SecondaryCtaText string `json:"secondaryCtaText" yaml:"secondaryCtaText"`
	SecondaryCtaURL  string `json:"secondaryCtaUrl" yaml:"secondaryCtaUrl"`
}

// HeroPhoto is one slide of the hero carousel.
type HeroPhoto struct {
	ID      string  `json:"id,omitempty" yaml:"id,omitempty"`
	URL     string  `json:"url" yaml:"url"`
	Alt     string  `json:"alt,omitempty" yaml:"alt,omitempty"`
	Title   string  `json:"title,omitempty" yaml:"title,omitempty"`
	Caption string  `json:"caption,omitempty" yaml:"caption,omitempty"`
	Order   float64 `json:"order" yaml:"order"`
}

// Category is a service category with its photo gallery.
type Category struct {
	ID          string  `json:"id,omitempty" yaml:"id,omitempty"`
	Name        string  `json:"name" yaml:"name"`
	Slug        string  `json:"slug,omitempty" yaml:"slug,omitempty"`
	Description string  `json:"description,omitempty" yaml:"description,omitempty"`
	Images      []Image `json:"images,omitempty" yaml:"images,omitempty"`
}

// CTA is a call-to-action link attached to a project.
type CTA struct {
	Text string `json:"text,omitempty" yaml:"text,omitempty"`
	URL  string `json:"url,omitempty" yaml:"url,omitempty"`
}

// Project は実績紹介。画像は image / images / gallery のいずれの表記でも保存されうる。
type Project struct {
	ID              string   `json:"id,omitempty" yaml:"id,omitempty"`
	Slug            string   `json:"slug,omitempty" yaml:"slug,omitempty"`
	Key             string   `json:"key,omitempty" yaml:"key,omitempty"`
	Title           string   `json:"title" yaml:"title"`
	Description     string   `json:"description,omitempty" yaml:"description,omitempty"`
	Image           *Image   `json:"image,omitempty" yaml:"image,omitempty"`
	Images          []Image  `json:"images,omitempty" yaml:"images,omitempty"`
	Gallery         []Image  `json:"gallery,omitempty" yaml:"gallery,omitempty"`
	Order           float64  `json:"order" yaml:"order"`
	LongDescription string   `json:"longDescription,omitempty" yaml:"longDescription,omitempty"`
	Sector          string   `json:"sector,omitempty" yaml:"sector,omitempty"`
	Location        string   `json:"location,omitempty" yaml:"location,omitempty"`
	CompletedOn     string   `json:"completedOn,omitempty" yaml:"completedOn,omitempty"`
	Capacity        string   `json:"capacity,omitempty" yaml:"capacity,omitempty"`
	Scope           string   `json:"scope,omitempty" yaml:"scope,omitempty"`
	Status          string   `json:"status,omitempty" yaml:"status,omitempty"`
	Client          string   `json:"client,omitempty" yaml:"client,omitempty"`
	Duration        string   `json:"duration,omitempty" yaml:"duration,omitempty"`
	Highlights      []string `json:"highlights,omitempty" yaml:"highlights,omitempty"`
	CTA             *CTA     `json:"cta,omitempty" yaml:"cta,omitempty"`
}

// GallerySource returns the project's image aliases for normalisation.
func (p Project) GallerySource() GallerySource {
	return GallerySource{Image: p.Image, Images: p.Images, Gallery: p.Gallery}
}

// Review は顧客レビュー。承認フラグは is_approved を正とする。
type Review struct {
	ID        string     `json:"id,omitempty" yaml:"id,omitempty"`
	Name      string     `json:"name" yaml:"name"`
	Category  string     `json:"category,omitempty" yaml:"category,omitempty"`
	Comment   string     `json:"comment,omitempty" yaml:"comment,omitempty"`
	Rating    *float64   `json:"rating,omitempty" yaml:"rating,omitempty"`
	Approved  *bool      `json:"is_approved,omitempty" yaml:"is_approved,omitempty"`
	CreatedAt *time.Time `json:"createdAt,omitempty" yaml:"createdAt,omitempty"`
}

// IsApproved reports whether the review may be shown publicly.
func (r Review) IsApproved() bool {
	return r.Approved != nil && *r.Approved
}

// ApprovedReviews は公開可能なレビューだけを元の順序のまま返す。
func ApprovedReviews(reviews []Review) []Review {
	if reviews == nil {
		return nil
	}
	result := make([]Review, 0, len(reviews))
	for _, review := range reviews {
		if review.IsApproved() {
			result = append(result, review)
		}
	}
	return result
}

// Public returns a copy of c that only carries approved reviews.
func (c Content) Public() Content {
	c.Reviews = ApprovedReviews(c.Reviews)
	return c
}

// Content is the fully resolved content object handed to the renderer.
type Content struct {
	Company    Company     `json:"company" yaml:"company"`
	Branding   Branding    `json:"branding" yaml:"branding"`
	Hero       Hero        `json:"hero" yaml:"hero"`
	HeroPhotos []HeroPhoto `json:"heroPhotos" yaml:"heroPhotos"`
	Categories []Category  `json:"categories" yaml:"categories"`
	Projects   []Project   `json:"projects" yaml:"projects"`
	Reviews    []Review    `json:"reviews" yaml:"reviews"`
}

// Partial はリモート取得結果や事前注入コンテンツ。nil のセクションは「取得できなかった」を表す。
// 空スライス (非 nil) は「存在するが 0 件」を表し、デフォルトで上書きしない。
type Partial struct {
	Company    *Company    `json:"company,omitempty" yaml:"company,omitempty"`
	Branding   *Branding   `json:"branding,omitempty" yaml:"branding,omitempty"`
	Hero       *Hero       `json:"hero,omitempty" yaml:"hero,omitempty"`
	HeroPhotos []HeroPhoto `json:"heroPhotos" yaml:"heroPhotos"`
	Categories []Category  `json:"categories" yaml:"categories"`
	Projects   []Project   `json:"projects" yaml:"projects"`
	Reviews    []Review    `json:"reviews" yaml:"reviews"`
}

// Has reports whether the given section is present (non-null).
func (p *Partial) Has(section Section) bool {
	if p == nil {
		return false
	}
	switch section {
	case SectionCompany:
		return p.Company != nil
	case SectionBranding:
		return p.Branding != nil
	case SectionHero:
		return p.Hero != nil
	case SectionHeroPhotos:
		return p.HeroPhotos != nil
	case SectionCategories:
		return p.Categories != nil
	case SectionProjects:
		return p.Projects != nil
	case SectionReviews:
		return p.Reviews != nil
	}
	return false
}

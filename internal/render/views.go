package render

import (
	"fmt"
	"html/template"
	"sort"
	"strings"

	"github.com/sngm3741/nasam-site/internal/content"
)

const (
	maxTestimonials = 5
	maxShoutouts    = 3

	defaultCategoryDescription = "Learn more about this solution."
	defaultProjectDescription  = "Project description coming soon."
	defaultReviewer            = "Client"
	defaultReviewComment       = "Great service!"
)

// HeadView は <head> とロゴ要素に書き込む値。
type HeadView struct {
	Title     string
	Favicon   string
	OGImage   string
	LogoLight string
	LogoDark  string
}

// CompanyView carries company text and derived links.
type CompanyView struct {
	Name         string
	Tagline      string
	Intro        string
	Email        string
	EmailHref    string
	PhoneHref    template.URL
	PhoneText    string
	PhonesText   string
	WhatsAppHref string
	Locations    []string
	Social       []content.SocialLink
}

// HeroView は hero セクションの表示値。ReactiveBackground はページ全体の --hero-bg に使う。
type HeroView struct {
	Badge              string
	Title              string
	Accent             string
	Lead               string
	Primary            content.CTA
	Secondary          content.CTA
	ReactiveURL        string
	ReactiveBackground template.CSS
	Fallback           string
}

type slideView struct {
	Index   int
	Number  int
	Active  bool
	URL     string
	Alt     string
	Title   string
	Caption string
}

type heroCarouselView struct {
	Slides   []slideView
	Fallback string
}

type categoryView struct {
	Key         string
	CarouselID  string
	Name        string
	Description string
	Images      []slideView
}

// ProjectDetail is the registry entry served for a project modal.
type ProjectDetail struct {
	ID                  string              `json:"id"`
	Title               string              `json:"title"`
	Description         string              `json:"description"`
	Gallery             []content.Image     `json:"gallery"`
	Meta                []content.MetaField `json:"meta"`
	Highlights          []string            `json:"highlights"`
	CTA                 *content.CTA        `json:"cta,omitempty"`
	LongDescriptionHTML template.HTML       `json:"longDescriptionHtml,omitempty"`
}

// Cover returns the first gallery image.
func (p ProjectDetail) Cover() content.Image {
	return p.Gallery[0]
}

type reviewView struct {
	Active   bool
	Name     string
	Category string
	Comment  string
	Stars    int
	Slots    []bool
}

func buildHead(c content.Content) HeadView {
	return HeadView{
		Title:     strings.TrimSpace(c.Company.Name),
		Favicon:   content.ResolveFavicon(c.Branding),
		OGImage:   content.ResolveOGImage(c.Branding),
		LogoLight: content.ResolveLogoLight(c.Branding),
		LogoDark:  content.ResolveLogoDark(c.Branding),
	}
}

func buildCompany(c content.Company) CompanyView {
	return CompanyView{
		Name:         c.Name,
		Tagline:      c.Tagline,
		Intro:        c.Intro,
		Email:        c.Email,
		EmailHref:    c.EmailHref(),
		PhoneHref:    template.URL(c.PhoneHref()),
		PhoneText:    c.PhoneText(),
		PhonesText:   c.PhonesText(),
		WhatsAppHref: c.WhatsAppHref(),
		Locations:    nonEmpty(c.Locations),
		Social:       c.SocialLinks(),
	}
}

func buildHero(h content.Hero, photos []content.HeroPhoto) (HeroView, []slideView) {
	view := HeroView{
		Badge:     h.Badge,
		Title:     h.Title,
		Accent:    h.Accent,
		Lead:      h.Lead,
		Primary:   content.ResolvePrimaryCTA(h),
		Secondary: content.ResolveSecondaryCTA(h),
		Fallback:  content.FallbackHeroBackground,
	}

	slides := make([]slideView, 0, len(photos))
	for _, photo := range photos {
		url := strings.TrimSpace(photo.URL)
		if url == "" {
			continue
		}
		n := len(slides)
		slides = append(slides, slideView{
			Index:   n,
			Number:  n + 1,
			Active:  n == 0,
			URL:     url,
			Alt:     firstNonEmpty(photo.Alt, photo.Title, "Hero image"),
			Title:   strings.TrimSpace(photo.Title),
			Caption: strings.TrimSpace(photo.Caption),
		})
	}
	if len(slides) > 0 {
		view.ReactiveURL = slides[0].URL
		view.ReactiveBackground = template.CSS(fmt.Sprintf("url('%s')", cssURL(slides[0].URL)))
	}
	return view, slides
}

// claimKey returns base, or base-2, base-3... when base is already in one of
// the taken sets, and records the result in the first set.
func claimKey(base string, taken ...map[string]struct{}) string {
	key := base
	for n := 2; inAny(key, taken); n++ {
		key = fmt.Sprintf("%s-%d", base, n)
	}
	taken[0][key] = struct{}{}
	return key
}

func inAny(key string, sets []map[string]struct{}) bool {
	for _, set := range sets {
		if _, ok := set[key]; ok {
			return true
		}
	}
	return false
}

func buildCategories(categories []content.Category, registry *Registry) []categoryView {
	views := make([]categoryView, 0, len(categories))
	// 位置ベースの代替キーは実在の ID と衝突させない
	explicit := make(map[string]struct{}, len(categories))
	for _, category := range categories {
		if id := strings.TrimSpace(category.ID); id != "" {
			explicit[id] = struct{}{}
		}
	}
	seen := make(map[string]struct{}, len(categories))
	for i, category := range categories {
		var key string
		if id := strings.TrimSpace(category.ID); id != "" {
			key = claimKey(id, seen)
		} else {
			key = claimKey(fmt.Sprintf("category-%d", i+1), seen, explicit)
		}
		gallery := content.NormalizeGallery(content.GallerySource{Images: category.Images}, content.DefaultImage())
		registry.galleries[key] = gallery

		name := strings.TrimSpace(category.Name)
		images := make([]slideView, 0, len(gallery))
		for idx, img := range gallery {
			images = append(images, slideView{
				Index:  idx,
				Number: idx + 1,
				Active: idx == 0,
				URL:    img.URL,
				Alt:    firstNonEmpty(img.Alt, name),
			})
		}
		views = append(views, categoryView{
			Key:         key,
			CarouselID:  "cat-" + key,
			Name:        name,
			Description: firstNonEmpty(category.Description, defaultCategoryDescription),
			Images:      images,
		})
	}
	return views
}

func (r *Renderer) buildProjects(projects []content.Project, registry *Registry) []ProjectDetail {
	details := make([]ProjectDetail, 0, len(projects))
	seen := make(map[string]struct{}, len(projects))
	for i, project := range projects {
		// 重複した ID は 2 件目以降に連番を付け、ページ内の要素 ID を一意に保つ
		id := claimKey(content.ResolveProjectID(project, i), seen)
		detail := ProjectDetail{
			ID:          id,
			Title:       strings.TrimSpace(project.Title),
			Description: firstNonEmpty(project.Description, defaultProjectDescription),
			Gallery:     content.NormalizeGallery(project.GallerySource(), content.DefaultImage()),
			Meta:        content.ProjectMeta(project),
			Highlights:  nonEmpty(project.Highlights),
		}
		if project.CTA != nil && strings.TrimSpace(project.CTA.URL) != "" {
			detail.CTA = &content.CTA{
				Text: firstNonEmpty(project.CTA.Text, "Learn more"),
				URL:  strings.TrimSpace(project.CTA.URL),
			}
		}
		if long := strings.TrimSpace(project.LongDescription); long != "" {
			detail.LongDescriptionHTML = r.markdownHTML(long)
		}
		registry.projects[id] = detail
		details = append(details, detail)
	}
	return details
}

func buildReviewViews(reviews []content.Review) []reviewView {
	views := make([]reviewView, 0, len(reviews))
	for i, review := range reviews {
		stars := content.StarCount(review.Rating)
		slots := make([]bool, content.MaxStars)
		for s := range slots {
			slots[s] = s < stars
		}
		views = append(views, reviewView{
			Active:   i == 0,
			Name:     firstNonEmpty(review.Name, defaultReviewer),
			Category: firstNonEmpty(review.Category, defaultReviewer),
			Comment:  firstNonEmpty(review.Comment, defaultReviewComment),
			Stars:    stars,
			Slots:    slots,
		})
	}
	return views
}

// latestReviews は createdAt の新しい順に n 件を返す。createdAt の無いレビューは末尾に回す。
func latestReviews(reviews []content.Review, n int) []content.Review {
	sorted := append([]content.Review(nil), reviews...)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i].CreatedAt, sorted[j].CreatedAt
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return a.After(*b)
		}
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

func nonEmpty(values []string) []string {
	result := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			result = append(result, v)
		}
	}
	return result
}

// cssURL escapes characters that would terminate a url('...') token.
func cssURL(u string) string {
	replacer := strings.NewReplacer(
		"'", "%27",
		`"`, "%22",
		"(", "%28",
		")", "%29",
		`\`, "%5C",
		"\n", "",
		"\r", "",
	)
	return replacer.Replace(u)
}

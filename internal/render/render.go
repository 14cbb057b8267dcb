// Package render はマージ済みコンテンツを HTML の各リージョンへ決定的に投影する。
// 同じ入力に対しては常にバイト単位で同じ出力を返し、差分更新は行わない。
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"

	"github.com/sngm3741/nasam-site/internal/content"
)

// Region identifiers. Each one names a container on the page.
const (
	RegionHeroCarousel     = "heroCarousel"
	RegionCompanyLocations = "companyLocations"
	RegionCategoriesGrid   = "categoriesGrid"
	RegionProjectsGrid     = "projectsGrid"
	RegionProjectDetails   = "projectDetails"
	RegionTestimonials     = "testimonials"
	RegionReviewsGrid      = "reviewsGrid"
	RegionShoutouts        = "shoutouts"
)

// AllRegions lists every region the full page layout contains.
func AllRegions() []string {
	return []string{
		RegionHeroCarousel,
		RegionCompanyLocations,
		RegionCategoriesGrid,
		RegionProjectsGrid,
		RegionProjectDetails,
		RegionTestimonials,
		RegionReviewsGrid,
		RegionShoutouts,
	}
}

//go:embed templates/*.tmpl
var templateFS embed.FS

var templateFuncs = template.FuncMap{
	"stars": func() []int { return []int{5, 4, 3, 2, 1} },
}

// Options configures a Renderer.
type Options struct {
	// Regions はページに存在するコンテナ。nil なら全リージョンを描画する。
	Regions []string
}

// Region is the rendered inner HTML of one container.
type Region struct {
	HTML  template.HTML
	Empty bool
}

// Result は 1 回の描画結果。Registry はモーダル表示用の参照表として呼び出し側へ渡す。
type Result struct {
	Head     HeadView
	Company  CompanyView
	Hero     HeroView
	Regions  map[string]*Region
	Registry *Registry
}

// Renderer projects content into HTML regions.
type Renderer struct {
	templates *template.Template
	regions   map[string]struct{}
	markdown  goldmark.Markdown
	policy    *bluemonday.Policy
}

// New はテンプレートを一度だけパースした Renderer を返す。
func New(opts Options) *Renderer {
	regions := opts.Regions
	if regions == nil {
		regions = AllRegions()
	}
	return &Renderer{
		templates: template.Must(template.New("").Funcs(templateFuncs).ParseFS(templateFS, "templates/*.tmpl")),
		regions:   toSet(regions),
		markdown:  goldmark.New(),
		policy:    bluemonday.UGCPolicy(),
	}
}

// Render rebuilds every configured region from c.
func (r *Renderer) Render(c content.Content) (*Result, error) {
	return r.render(c, r.regions)
}

// Page はすべてのリージョンを含むページ全体を描画する。
func (r *Renderer) Page(c content.Content) ([]byte, error) {
	result, err := r.render(c, toSet(AllRegions()))
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := r.templates.ExecuteTemplate(&buf, "page", result); err != nil {
		return nil, fmt.Errorf("ページの描画に失敗: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) render(c content.Content, regions map[string]struct{}) (*Result, error) {
	registry := newRegistry()
	hero, slides := buildHero(c.Hero, c.HeroPhotos)
	company := buildCompany(c.Company)
	categories := buildCategories(c.Categories, registry)
	projects := r.buildProjects(c.Projects, registry)

	approved := content.ApprovedReviews(c.Reviews)
	carousel := approved
	if len(carousel) > maxTestimonials {
		carousel = carousel[:maxTestimonials]
	}

	result := &Result{
		Head:     buildHead(c),
		Company:  company,
		Hero:     hero,
		Regions:  make(map[string]*Region, len(regions)),
		Registry: registry,
	}

	steps := []struct {
		name  string
		data  any
		empty bool
	}{
		{RegionHeroCarousel, heroCarouselView{Slides: slides, Fallback: hero.Fallback}, len(slides) == 0},
		{RegionCompanyLocations, company.Locations, len(company.Locations) == 0},
		{RegionCategoriesGrid, categories, len(categories) == 0},
		{RegionProjectsGrid, projects, len(projects) == 0},
		{RegionProjectDetails, projects, len(projects) == 0},
		{RegionTestimonials, buildReviewViews(carousel), len(carousel) == 0},
		{RegionReviewsGrid, buildReviewViews(approved), len(approved) == 0},
		{RegionShoutouts, buildReviewViews(latestReviews(approved, maxShoutouts)), len(approved) == 0},
	}

	for _, step := range steps {
		if _, ok := regions[step.name]; !ok {
			continue
		}
		var buf bytes.Buffer
		if err := r.templates.ExecuteTemplate(&buf, step.name, step.data); err != nil {
			return nil, fmt.Errorf("リージョン %s の描画に失敗: %w", step.name, err)
		}
		result.Regions[step.name] = &Region{
			HTML:  template.HTML(buf.String()),
			Empty: step.empty,
		}
	}

	return result, nil
}

// markdownHTML は Markdown を HTML に変換し、UGC ポリシーで無害化する。変換に失敗した場合はエスケープ済みテキストを返す。
func (r *Renderer) markdownHTML(src string) template.HTML {
	var buf bytes.Buffer
	if err := r.markdown.Convert([]byte(src), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(src))
	}
	return template.HTML(r.policy.SanitizeBytes(buf.Bytes()))
}

func toSet(items []string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, item := range items {
		set[item] = struct{}{}
	}
	return set
}

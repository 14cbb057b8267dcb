package application

import (
	"math"
	"strings"

	"github.com/sngm3741/nasam-site/internal/admin/domain"
	"github.com/sngm3741/nasam-site/internal/content"
)

func normalizeHeroPhoto(p content.HeroPhoto) (content.HeroPhoto, error) {
	url, err := domain.NewPhotoURL(p.URL)
	if err != nil {
		return content.HeroPhoto{}, err
	}
	return content.HeroPhoto{
		URL:     url.String(),
		Alt:     strings.TrimSpace(p.Alt),
		Title:   strings.TrimSpace(p.Title),
		Caption: strings.TrimSpace(p.Caption),
		Order:   p.Order,
	}, nil
}

// normalizeCategory は名前を必須とし、スラッグが空なら名前から生成する。
func normalizeCategory(c content.Category) (content.Category, error) {
	name, err := domain.NewRequiredText("name", c.Name)
	if err != nil {
		return content.Category{}, err
	}
	images, err := cleanImages(c.Images)
	if err != nil {
		return content.Category{}, err
	}
	return content.Category{
		Name:        name.String(),
		Slug:        domain.NewSlug(c.Slug, name.String()).String(),
		Description: strings.TrimSpace(c.Description),
		Images:      images,
	}, nil
}

func normalizeProject(p content.Project) (content.Project, error) {
	title, err := domain.NewRequiredText("title", p.Title)
	if err != nil {
		return content.Project{}, err
	}
	images, err := cleanImages(p.Images)
	if err != nil {
		return content.Project{}, err
	}
	gallery, err := cleanImages(p.Gallery)
	if err != nil {
		return content.Project{}, err
	}
	var cover *content.Image
	if p.Image != nil && strings.TrimSpace(p.Image.URL) != "" {
		cleaned, err := cleanImages([]content.Image{*p.Image})
		if err != nil {
			return content.Project{}, err
		}
		cover = &cleaned[0]
	}
	var cta *content.CTA
	if p.CTA != nil {
		url, err := domain.NewURL(p.CTA.URL)
		if err != nil {
			return content.Project{}, err
		}
		text := strings.TrimSpace(p.CTA.Text)
		if text != "" || url != "" {
			cta = &content.CTA{Text: text, URL: url.String()}
		}
	}
	return content.Project{
		Slug:            strings.TrimSpace(p.Slug),
		Key:             strings.TrimSpace(p.Key),
		Title:           title.String(),
		Description:     strings.TrimSpace(p.Description),
		Image:           cover,
		Images:          images,
		Gallery:         gallery,
		Order:           p.Order,
		LongDescription: strings.TrimSpace(p.LongDescription),
		Sector:          strings.TrimSpace(p.Sector),
		Location:        strings.TrimSpace(p.Location),
		CompletedOn:     strings.TrimSpace(p.CompletedOn),
		Capacity:        strings.TrimSpace(p.Capacity),
		Scope:           strings.TrimSpace(p.Scope),
		Status:          strings.TrimSpace(p.Status),
		Client:          strings.TrimSpace(p.Client),
		Duration:        strings.TrimSpace(p.Duration),
		Highlights:      domain.TrimLines(p.Highlights),
		CTA:             cta,
	}, nil
}

func normalizeReview(r content.Review) (content.Review, error) {
	name, err := domain.NewRequiredText("name", r.Name)
	if err != nil {
		return content.Review{}, err
	}
	var rating *float64
	if r.Rating != nil && !math.IsNaN(*r.Rating) && !math.IsInf(*r.Rating, 0) {
		v := math.Min(math.Max(*r.Rating, 0), content.MaxStars)
		rating = &v
	}
	return content.Review{
		Name:      name.String(),
		Category:  strings.TrimSpace(r.Category),
		Comment:   strings.TrimSpace(r.Comment),
		Rating:    rating,
		Approved:  r.Approved,
		CreatedAt: r.CreatedAt,
	}, nil
}

// cleanImages trims URLs, drops blanks and duplicate URLs.
func cleanImages(images []content.Image) ([]content.Image, error) {
	result := make([]content.Image, 0, len(images))
	seen := make(map[string]struct{}, len(images))
	for _, img := range images {
		url, err := domain.NewURL(img.URL)
		if err != nil {
			return nil, err
		}
		if url == "" {
			continue
		}
		if _, ok := seen[url.String()]; ok {
			continue
		}
		seen[url.String()] = struct{}{}
		result = append(result, content.Image{
			URL:     url.String(),
			Alt:     strings.TrimSpace(img.Alt),
			Caption: strings.TrimSpace(img.Caption),
		})
	}
	return result, nil
}

package application

import (
	"context"
	"strings"

	"github.com/sngm3741/nasam-site/internal/admin/domain"
	"github.com/sngm3741/nasam-site/internal/content"
)

// Sections implements reading and saving the singleton documents.
type Sections struct {
	repo        SectionRepository
	invalidator Invalidator
}

func NewSections(repo SectionRepository, invalidator Invalidator) *Sections {
	return &Sections{repo: repo, invalidator: invalidator}
}

// Get は保存済みのセクションを返す。未保存の場合は nil を返す。
func (s *Sections) Get(ctx context.Context, section content.Section) (any, error) {
	switch section {
	case content.SectionCompany:
		v, err := s.repo.Company(ctx)
		if err != nil || v == nil {
			return nil, err
		}
		return v, nil
	case content.SectionBranding:
		v, err := s.repo.Branding(ctx)
		if err != nil || v == nil {
			return nil, err
		}
		return v, nil
	case content.SectionHero:
		v, err := s.repo.Hero(ctx)
		if err != nil || v == nil {
			return nil, err
		}
		return v, nil
	}
	return nil, content.ErrUnknownSection
}

// SaveCompany trims every field and keeps only non-empty phones, locations and social links.
func (s *Sections) SaveCompany(ctx context.Context, company content.Company) (content.Company, error) {
	email, err := domain.NewEmail(company.Email)
	if err != nil {
		return content.Company{}, err
	}
	social := content.Social{}
	for _, link := range []struct {
		dst *string
		src string
	}{
		{&social.Facebook, company.Social.Facebook},
		{&social.Instagram, company.Social.Instagram},
		{&social.LinkedIn, company.Social.LinkedIn},
		{&social.X, company.Social.X},
	} {
		u, err := domain.NewURL(link.src)
		if err != nil {
			return content.Company{}, err
		}
		*link.dst = u.String()
	}
	normalized := content.Company{
		Name:      strings.TrimSpace(company.Name),
		Tagline:   strings.TrimSpace(company.Tagline),
		Intro:     strings.TrimSpace(company.Intro),
		Email:     email.String(),
		WhatsApp:  strings.TrimSpace(company.WhatsApp),
		Phones:    domain.TrimLines(company.Phones),
		Locations: domain.TrimLines(company.Locations),
		Social:    social,
	}
	if err := s.repo.SaveCompany(ctx, normalized); err != nil {
		return content.Company{}, err
	}
	s.invalidate(ctx)
	return normalized, nil
}

func (s *Sections) SaveBranding(ctx context.Context, branding content.Branding) (content.Branding, error) {
	fields := []*string{&branding.LogoLight, &branding.LogoDark, &branding.Favicon, &branding.OGImage}
	for _, field := range fields {
		u, err := domain.NewURL(*field)
		if err != nil {
			return content.Branding{}, err
		}
		*field = u.String()
	}
	if err := s.repo.SaveBranding(ctx, branding); err != nil {
		return content.Branding{}, err
	}
	s.invalidate(ctx)
	return branding, nil
}

func (s *Sections) SaveHero(ctx context.Context, hero content.Hero) (content.Hero, error) {
	primary, err := domain.NewURL(hero.PrimaryCtaURL)
	if err != nil {
		return content.Hero{}, err
	}
	secondary, err := domain.NewURL(hero.SecondaryCtaURL)
	if err != nil {
		return content.Hero{}, err
	}
	normalized := content.Hero{
		Badge:            strings.TrimSpace(hero.Badge),
		Title:            strings.TrimSpace(hero.Title),
		Accent:           strings.TrimSpace(hero.Accent),
		Lead:             strings.TrimSpace(hero.Lead),
		PrimaryCtaText:   strings.TrimSpace(hero.PrimaryCtaText),
		PrimaryCtaURL:    primary.String(),
		SecondaryCtaText: strings.TrimSpace(hero.SecondaryCtaText),
		SecondaryCtaURL:  secondary.String(),
	}
	if err := s.repo.SaveHero(ctx, normalized); err != nil {
		return content.Hero{}, err
	}
	s.invalidate(ctx)
	return normalized, nil
}

func (s *Sections) invalidate(ctx context.Context) {
	if s.invalidator != nil {
		s.invalidator.Invalidate(ctx)
	}
}

package application

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sngm3741/nasam-site/internal/admin/domain"
	"github.com/sngm3741/nasam-site/internal/content"
)

func TestSaveCompanyNormalizes(t *testing.T) {
	repo := &memSections{}
	inv := &countingInvalidator{}
	svc := NewSections(repo, inv)

	saved, err := svc.SaveCompany(context.Background(), content.Company{
		Name:      " NASAM ",
		Email:     " Info@NASAM.co.ke ",
		Phones:    []string{" +254 700 000000 ", ""},
		Locations: content.ParseLines("Nairobi\n\nMombasa"),
		Social:    content.Social{Facebook: " https://facebook.com/nasam ", X: " "},
	})
	require.NoError(t, err)

	assert.Equal(t, "NASAM", saved.Name)
	assert.Equal(t, "info@nasam.co.ke", saved.Email)
	assert.Equal(t, []string{"+254 700 000000"}, saved.Phones)
	assert.Equal(t, []string{"Nairobi", "Mombasa"}, saved.Locations)
	assert.Equal(t, content.Social{Facebook: "https://facebook.com/nasam"}, saved.Social)
	assert.Equal(t, &saved, repo.company)
	assert.Equal(t, 1, inv.calls)
}

func TestSaveSectionStoreFailureAppliesNothing(t *testing.T) {
	repo := &memSections{err: errors.New("PERMISSION_DENIED")}
	inv := &countingInvalidator{}
	svc := NewSections(repo, inv)

	_, err := svc.SaveHero(context.Background(), content.Hero{Title: "x"})
	require.EqualError(t, err, "PERMISSION_DENIED")
	assert.Zero(t, inv.calls)
}

func TestSaveBrandingRejectsBadURL(t *testing.T) {
	svc := NewSections(&memSections{}, nil)
	_, err := svc.SaveBranding(context.Background(), content.Branding{LogoLight: "javascript:alert(1)"})
	assert.ErrorIs(t, err, domain.ErrInvalid)
}

func TestGetSection(t *testing.T) {
	repo := &memSections{hero: &content.Hero{Title: "Stored"}}
	svc := NewSections(repo, nil)
	ctx := context.Background()

	v, err := svc.Get(ctx, content.SectionHero)
	require.NoError(t, err)
	assert.Equal(t, &content.Hero{Title: "Stored"}, v)

	v, err = svc.Get(ctx, content.SectionCompany)
	require.NoError(t, err)
	assert.Nil(t, v)

	_, err = svc.Get(ctx, content.SectionProjects)
	assert.ErrorIs(t, err, content.ErrUnknownSection)
}

package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	adminapp "github.com/sngm3741/nasam-site/internal/admin/application"
	"github.com/sngm3741/nasam-site/internal/admin/domain"
	"github.com/sngm3741/nasam-site/internal/content"
)

type memRepo[T any] struct {
	items []T
}

func (m *memRepo[T]) List(context.Context, adminapp.ListOptions) ([]T, error) {
	return append([]T(nil), m.items...), nil
}

func (m *memRepo[T]) Get(context.Context, string) (*T, error) { return nil, adminapp.ErrNotFound }

func (m *memRepo[T]) Create(_ context.Context, item T) (string, error) {
	m.items = append(m.items, item)
	return fmt.Sprintf("id-%d", len(m.items)), nil
}

func (m *memRepo[T]) Update(context.Context, string, T) error { return nil }
func (m *memRepo[T]) Delete(context.Context, string) error    { return nil }

type reviewRepo struct {
	memRepo[content.Review]
}

func (r *reviewRepo) SetApproval(context.Context, string, bool) error { return nil }

type sectionRepo struct {
	company  *content.Company
	branding *content.Branding
	hero     *content.Hero
}

func (s *sectionRepo) Company(context.Context) (*content.Company, error)   { return s.company, nil }
func (s *sectionRepo) Branding(context.Context) (*content.Branding, error) { return s.branding, nil }
func (s *sectionRepo) Hero(context.Context) (*content.Hero, error)         { return s.hero, nil }

func (s *sectionRepo) SaveCompany(_ context.Context, c content.Company) error {
	s.company = &c
	return nil
}

func (s *sectionRepo) SaveBranding(_ context.Context, b content.Branding) error {
	s.branding = &b
	return nil
}

func (s *sectionRepo) SaveHero(_ context.Context, h content.Hero) error {
	s.hero = &h
	return nil
}

type fixture struct {
	seeder     seeder
	sections   *sectionRepo
	categories *memRepo[content.Category]
	projects   *memRepo[content.Project]
	reviews    *reviewRepo
}

func newFixture() fixture {
	f := fixture{
		sections:   &sectionRepo{},
		categories: &memRepo[content.Category]{},
		projects:   &memRepo[content.Project]{},
		reviews:    &reviewRepo{},
	}
	f.seeder = seeder{
		editor: adminapp.NewEditor(adminapp.EditorConfig{
			HeroPhotos: &memRepo[content.HeroPhoto]{},
			Categories: f.categories,
			Projects:   f.projects,
			Reviews:    f.reviews,
		}),
		sections: adminapp.NewSections(f.sections, nil),
		reviews:  f.reviews,
	}
	return f
}

const seedYAML = `
company:
  name: "  NASAM Electrical  "
  email: Info@NASAM.example
  phones: ["+254 700 000 000", " "]
categories:
  - name: Solar Installations
projects:
  - title: Hospital Solar Upgrade
    order: 1
reviews:
  - name: Amina
    rating: 9
    comment: Great work
`

func TestSeedNormalisesThroughAdminServices(t *testing.T) {
	partial, err := content.DecodePartial("seed.yaml", []byte(seedYAML))
	require.NoError(t, err)

	f := newFixture()
	summary, err := f.seeder.seed(context.Background(), partial)
	require.NoError(t, err)

	want := seedSummary{Sections: 1, Categories: 1, Projects: 1, Reviews: 1}
	if diff := cmp.Diff(want, summary); diff != "" {
		t.Fatalf("summary mismatch (-want +got):\n%s", diff)
	}

	require.NotNil(t, f.sections.company)
	assert.Equal(t, "NASAM Electrical", f.sections.company.Name)
	assert.Equal(t, "info@nasam.example", f.sections.company.Email)
	assert.Equal(t, []string{"+254 700 000 000"}, f.sections.company.Phones)

	require.Len(t, f.categories.items, 1)
	assert.Equal(t, "solar-installations", f.categories.items[0].Slug)

	require.Len(t, f.reviews.items, 1)
	assert.NotNil(t, f.reviews.items[0].CreatedAt)
}

func TestSeedStopsOnInvalidItem(t *testing.T) {
	f := newFixture()
	partial := &content.Partial{Categories: []content.Category{{Name: "Solar"}, {Name: "  "}}}

	summary, err := f.seeder.seed(context.Background(), partial)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalid)
	assert.Contains(t, err.Error(), "categories[1]")
	assert.Equal(t, 1, summary.Categories)
}

func TestRenderCommandWritesPage(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "content.json")
	require.NoError(t, os.WriteFile(src, []byte(`{"company":{"name":"Rendered Co"}}`), 0o600))

	var stdout bytes.Buffer
	cmd := newRenderCmd()
	cmd.SetOut(&stdout)
	cmd.SetArgs([]string{src})
	require.NoError(t, cmd.Execute())

	page := stdout.String()
	assert.True(t, strings.HasPrefix(page, "<!DOCTYPE html>"))
	assert.Contains(t, page, "Rendered Co")

	out := filepath.Join(dir, "index.html")
	cmd = newRenderCmd()
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--out", out, src})
	require.NoError(t, cmd.Execute())

	written, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, page, string(written))
}

func TestRenderCommandRejectsMissingFile(t *testing.T) {
	cmd := newRenderCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{filepath.Join(t.TempDir(), "nope.yaml")})
	assert.Error(t, cmd.Execute())
}

func TestPromptsCommandRunsDispatcher(t *testing.T) {
	tests := []struct {
		name      string
		args      []string
		planLines []string
		fired     string
	}{
		{
			name:      "fresh visitor sees only the first prompt",
			args:      nil,
			planLines: []string{"rate20", "contact45", "contact90"},
			fired:     "fired: rate20\n",
		},
		{
			name:      "review already submitted",
			args:      []string{"--review-submitted"},
			planLines: []string{"contact45", "contact90"},
			fired:     "fired: contact45\n",
		},
		{
			name:  "modal open suppresses everything",
			args:  []string{"--modal-open"},
			fired: "fired: \n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout bytes.Buffer
			cmd := newPromptsCmd()
			cmd.SetOut(&stdout)
			cmd.SetArgs(append([]string{"--speed", "1000"}, tt.args...))
			require.NoError(t, cmd.ExecuteContext(context.Background()))

			out := stdout.String()
			assert.Contains(t, out, fmt.Sprintf("plan (%d):", len(tt.planLines)))
			for _, key := range tt.planLines {
				assert.Contains(t, out, "  "+key)
			}
			assert.True(t, strings.HasSuffix(out, tt.fired), out)
		})
	}
}

func TestPromptsCommandRejectsBadSpeed(t *testing.T) {
	cmd := newPromptsCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--speed", "0"})
	assert.Error(t, cmd.Execute())
}

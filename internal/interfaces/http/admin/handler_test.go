package admin

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	adminapp "github.com/sngm3741/nasam-site/internal/admin/application"
	admindomain "github.com/sngm3741/nasam-site/internal/admin/domain"
	"github.com/sngm3741/nasam-site/internal/content"
	"github.com/sngm3741/nasam-site/internal/infrastructure/cache"
	"github.com/sngm3741/nasam-site/internal/infrastructure/cloudinary"
)

const (
	ownerEmail    = "owner@nasam.example"
	strangerEmail = "someone@example.com"
)

type headerIdentity struct{}

func (headerIdentity) Resolve(r *http.Request) (string, bool) {
	email := r.Header.Get("X-Test-Email")
	return email, email != ""
}

type memRepo[T any] struct {
	items     map[string]T
	order     []string
	next      int
	deleted   []string
	updateErr error
}

func newMemRepo[T any]() *memRepo[T] {
	return &memRepo[T]{items: map[string]T{}}
}

func (r *memRepo[T]) put(id string, item T) {
	r.items[id] = item
	r.order = append(r.order, id)
}

func (r *memRepo[T]) List(context.Context, adminapp.ListOptions) ([]T, error) {
	out := make([]T, 0, len(r.order))
	for _, id := range r.order {
		if item, ok := r.items[id]; ok {
			out = append(out, item)
		}
	}
	return out, nil
}

func (r *memRepo[T]) Get(_ context.Context, id string) (*T, error) {
	item, ok := r.items[id]
	if !ok {
		return nil, adminapp.ErrNotFound
	}
	return &item, nil
}

func (r *memRepo[T]) Create(_ context.Context, item T) (string, error) {
	r.next++
	id := fmt.Sprintf("id-%d", r.next)
	r.put(id, item)
	return id, nil
}

func (r *memRepo[T]) Update(_ context.Context, id string, item T) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	if _, ok := r.items[id]; !ok {
		return adminapp.ErrNotFound
	}
	r.items[id] = item
	return nil
}

func (r *memRepo[T]) Delete(_ context.Context, id string) error {
	if _, ok := r.items[id]; !ok {
		return adminapp.ErrNotFound
	}
	delete(r.items, id)
	r.deleted = append(r.deleted, id)
	return nil
}

type memReviews struct {
	*memRepo[content.Review]
}

func (r memReviews) SetApproval(_ context.Context, id string, approved bool) error {
	item, ok := r.items[id]
	if !ok {
		return adminapp.ErrNotFound
	}
	item.Approved = &approved
	r.items[id] = item
	return nil
}

type memSections struct {
	company *content.Company
	err     error
}

func (m *memSections) Company(context.Context) (*content.Company, error) { return m.company, m.err }
func (m *memSections) Branding(context.Context) (*content.Branding, error) {
	return nil, m.err
}
func (m *memSections) Hero(context.Context) (*content.Hero, error) { return nil, m.err }
func (m *memSections) SaveCompany(_ context.Context, c content.Company) error {
	m.company = &c
	return m.err
}
func (m *memSections) SaveBranding(context.Context, content.Branding) error { return m.err }
func (m *memSections) SaveHero(context.Context, content.Hero) error         { return m.err }

type countingInvalidator struct{ calls int }

func (c *countingInvalidator) Invalidate(context.Context) { c.calls++ }

type fakeUploader struct {
	err      error
	filename string
	data     string
}

func (f *fakeUploader) Upload(_ context.Context, filename string, r io.Reader) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	data, _ := io.ReadAll(r)
	f.filename, f.data = filename, string(data)
	return "https://res.example/" + filename, nil
}

type fixture struct {
	router      http.Handler
	projects    *memRepo[content.Project]
	categories  *memRepo[content.Category]
	reviews     memReviews
	sections    *memSections
	invalidator *countingInvalidator
	uploader    *fakeUploader
}

func newFixture(t *testing.T, setupIssues ...string) *fixture {
	t.Helper()
	f := &fixture{
		projects:    newMemRepo[content.Project](),
		categories:  newMemRepo[content.Category](),
		reviews:     memReviews{newMemRepo[content.Review]()},
		sections:    &memSections{},
		invalidator: &countingInvalidator{},
		uploader:    &fakeUploader{},
	}
	editor := adminapp.NewEditor(adminapp.EditorConfig{
		HeroPhotos:    newMemRepo[content.HeroPhoto](),
		Categories:    f.categories,
		Projects:      f.projects,
		Reviews:       f.reviews,
		Confirmations: adminapp.NewConfirmations(cache.NewMemoryCache(0), 0),
		Invalidator:   f.invalidator,
	})
	h := NewHandler(Config{
		Editor:      editor,
		Sections:    adminapp.NewSections(f.sections, f.invalidator),
		Uploader:    f.uploader,
		AllowList:   admindomain.NewAllowList([]string{" Owner@NASAM.example "}),
		Identity:    headerIdentity{},
		SetupIssues: setupIssues,
	})
	r := chi.NewRouter()
	r.Route("/admin", h.Register)
	f.router = r
	return f
}

func (f *fixture) do(method, path, email, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if email != "" {
		req.Header.Set("X-Test-Email", email)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestSetupGateBlocksEveryStoreRoute(t *testing.T) {
	f := newFixture(t, "ADMIN_EMAILS", "AUTH_JWT_SECRET")

	rec := f.do(http.MethodPost, "/admin/collections/projects", ownerEmail, `{"title":"x"}`)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Empty(t, f.projects.items)

	status := f.do(http.MethodGet, "/admin/setup", "", "")
	require.Equal(t, http.StatusOK, status.Code)
	assert.JSONEq(t, `{"ready":false,"missing":["ADMIN_EMAILS","AUTH_JWT_SECRET"]}`, status.Body.String())
}

func TestNonAllowListedUserIsUnauthenticated(t *testing.T) {
	f := newFixture(t)

	assert.Equal(t, http.StatusUnauthorized, f.do(http.MethodGet, "/admin/reviews", "", "").Code)
	assert.Equal(t, http.StatusUnauthorized, f.do(http.MethodGet, "/admin/reviews", strangerEmail, "").Code)
	assert.Equal(t, http.StatusOK, f.do(http.MethodGet, "/admin/reviews", ownerEmail, "").Code)
}

func TestSessionCheck(t *testing.T) {
	f := newFixture(t)

	assert.Equal(t, http.StatusUnauthorized, f.do(http.MethodPost, "/admin/session", "", "").Code)

	denied := f.do(http.MethodPost, "/admin/session", strangerEmail, "")
	assert.Equal(t, http.StatusForbidden, denied.Code)
	assert.JSONEq(t, `{"error":"You are not authorized for admin access."}`, denied.Body.String())

	ok := f.do(http.MethodPost, "/admin/session", ownerEmail, "")
	assert.Equal(t, http.StatusOK, ok.Code)
	assert.JSONEq(t, `{"status":"ok","operator":{"email":"owner@nasam.example"}}`, ok.Body.String())
}

func TestSectionGet(t *testing.T) {
	f := newFixture(t)

	empty := f.do(http.MethodGet, "/admin/sections/company", ownerEmail, "")
	require.Equal(t, http.StatusOK, empty.Code)
	assert.JSONEq(t, `{"section":"company","data":{}}`, empty.Body.String())

	assert.Equal(t, http.StatusNotFound, f.do(http.MethodGet, "/admin/sections/projects", ownerEmail, "").Code)

	f.sections.err = errors.New("server selection timeout")
	failed := f.do(http.MethodGet, "/admin/sections/company", ownerEmail, "")
	assert.Equal(t, http.StatusInternalServerError, failed.Code)
	assert.JSONEq(t, `{"error":"server selection timeout","data":{}}`, failed.Body.String())
}

func TestSectionSaveCompanyAcceptsLines(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodPut, "/admin/sections/company", ownerEmail,
		`{"name":" Acme ","phones":"+254 700 000 001\n\n+254 700 000 002","locations":["Nairobi"," "],"social":{"x":"https://x.com/acme"}}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	require.NotNil(t, f.sections.company)
	assert.Equal(t, "Acme", f.sections.company.Name)
	assert.Equal(t, []string{"+254 700 000 001", "+254 700 000 002"}, f.sections.company.Phones)
	assert.Equal(t, []string{"Nairobi"}, f.sections.company.Locations)
	assert.Equal(t, 1, f.invalidator.calls)
}

func TestCreateCategoryDefaultsSlug(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodPost, "/admin/collections/categories", ownerEmail, `{"name":"Solar Water Pumps"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "id-1", decode(t, rec)["id"])
	assert.Equal(t, "solar-water-pumps", f.categories.items["id-1"].Slug)
	assert.Equal(t, 1, f.invalidator.calls)

	missing := f.do(http.MethodPost, "/admin/collections/projects", ownerEmail, `{"description":"no title"}`)
	assert.Equal(t, http.StatusBadRequest, missing.Code)
	assert.Equal(t, 1, f.invalidator.calls)

	unknown := f.do(http.MethodGet, "/admin/collections/widgets", ownerEmail, "")
	assert.Equal(t, http.StatusNotFound, unknown.Code)
}

func TestDeleteRequiresConfirmation(t *testing.T) {
	f := newFixture(t)
	f.projects.put("p1", content.Project{Title: "Clinic"})

	first := f.do(http.MethodDelete, "/admin/collections/projects/p1", ownerEmail, "")
	require.Equal(t, http.StatusConflict, first.Code)
	body := decode(t, first)
	token, _ := body["confirmToken"].(string)
	require.NotEmpty(t, token)
	assert.EqualValues(t, 120, body["expiresIn"])
	assert.Empty(t, f.projects.deleted)

	wrong := f.do(http.MethodDelete, "/admin/collections/projects/p1?confirmToken=not-a-token", ownerEmail, "")
	assert.Equal(t, http.StatusConflict, wrong.Code)
	assert.Contains(t, decode(t, wrong), "reason")

	confirmed := f.do(http.MethodDelete, "/admin/collections/projects/p1?confirmToken="+token, ownerEmail, "")
	require.Equal(t, http.StatusOK, confirmed.Code, confirmed.Body.String())
	assert.JSONEq(t, `{"collection":"projects","id":"p1","deleted":true}`, confirmed.Body.String())
	assert.Equal(t, []string{"p1"}, f.projects.deleted)

	reused := f.do(http.MethodDelete, "/admin/collections/projects/p1?confirmToken="+token, ownerEmail, "")
	assert.Equal(t, http.StatusConflict, reused.Code)
}

func TestCommandsEndpoint(t *testing.T) {
	f := newFixture(t)
	f.projects.put("p1", content.Project{Title: "Clinic"})

	edit := f.do(http.MethodPost, "/admin/collections/projects/commands", ownerEmail, `{"type":"edit","id":"p1","item":{"title":"Clinic Phase 2"}}`)
	require.Equal(t, http.StatusOK, edit.Code, edit.Body.String())
	assert.Equal(t, "Clinic Phase 2", f.projects.items["p1"].Title)

	bad := f.do(http.MethodPost, "/admin/collections/projects/commands", ownerEmail, `{"type":"archive","id":"p1"}`)
	assert.Equal(t, http.StatusBadRequest, bad.Code)

	toggle := f.do(http.MethodPost, "/admin/collections/projects/commands", ownerEmail, `{"type":"toggleApproval","id":"p1"}`)
	assert.Equal(t, http.StatusBadRequest, toggle.Code)

	missing := f.do(http.MethodPut, "/admin/collections/projects/nope", ownerEmail, `{"title":"x"}`)
	assert.Equal(t, http.StatusNotFound, missing.Code)
}

func TestWriteFailureSurfacesStoreError(t *testing.T) {
	f := newFixture(t)
	f.projects.put("p1", content.Project{Title: "Clinic"})
	f.projects.updateErr = errors.New("E11000 duplicate key error")

	rec := f.do(http.MethodPut, "/admin/collections/projects/p1", ownerEmail, `{"title":"Clinic"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"E11000 duplicate key error"}`, rec.Body.String())
	assert.Zero(t, f.invalidator.calls)
}

func TestReviewApprovalToggles(t *testing.T) {
	f := newFixture(t)
	f.reviews.put("r1", content.Review{Name: "Amina"})

	rec := f.do(http.MethodPost, "/admin/reviews/r1/approval", ownerEmail, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"collection":"reviews","id":"r1","approved":true}`, rec.Body.String())
	assert.True(t, f.reviews.items["r1"].IsApproved())

	list := f.do(http.MethodGet, "/admin/reviews", ownerEmail, "")
	require.Equal(t, http.StatusOK, list.Code)
	assert.Len(t, decode(t, list)["items"], 1)
}

func multipartUpload(t *testing.T, filename, data string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write([]byte(data))
	require.NoError(t, err)
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func TestUpload(t *testing.T) {
	f := newFixture(t)

	body, contentType := multipartUpload(t, "roof.jpg", "jpeg-bytes")
	req := httptest.NewRequest(http.MethodPost, "/admin/uploads", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("X-Test-Email", ownerEmail)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"url":"https://res.example/roof.jpg"}`, rec.Body.String())
	assert.Equal(t, "jpeg-bytes", f.uploader.data)
}

func TestUploadNotConfigured(t *testing.T) {
	f := newFixture(t)
	f.uploader.err = cloudinary.ErrNotConfigured

	body, contentType := multipartUpload(t, "roof.jpg", "jpeg-bytes")
	req := httptest.NewRequest(http.MethodPost, "/admin/uploads", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("X-Test-Email", ownerEmail)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestPreviewRendersInjectedContent(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodPost, "/admin/preview", ownerEmail, `{"company":{"name":"Preview Electricals"},"projects":[]}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Preview Electricals")
	assert.Contains(t, rec.Body.String(), `<p id="projectsEmpty" class="text-muted">Projects coming soon.</p>`)
}

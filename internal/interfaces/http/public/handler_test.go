package public

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sngm3741/nasam-site/internal/content"
	"github.com/sngm3741/nasam-site/internal/interfaces/http/common"
	"github.com/sngm3741/nasam-site/internal/prompt"
	publicapp "github.com/sngm3741/nasam-site/internal/public/application"
	"github.com/sngm3741/nasam-site/internal/public/domain"
)

type staticContent struct {
	content content.Content
	err     error
}

func (s staticContent) Content(context.Context) (content.Content, error) {
	return s.content, s.err
}

type fakeSubmissions struct {
	reviews  []publicapp.SubmitReviewCommand
	contacts []publicapp.SubmitContactCommand
	err      error
}

func (f *fakeSubmissions) SubmitReview(_ context.Context, cmd publicapp.SubmitReviewCommand) (*domain.ReviewSubmission, error) {
	f.reviews = append(f.reviews, cmd)
	if f.err != nil {
		return nil, f.err
	}
	return &domain.ReviewSubmission{ID: "r1", Name: cmd.Name, Rating: cmd.Rating}, nil
}

func (f *fakeSubmissions) SubmitContact(_ context.Context, cmd publicapp.SubmitContactCommand) (*domain.ContactMessage, error) {
	f.contacts = append(f.contacts, cmd)
	if f.err != nil {
		return nil, f.err
	}
	return &domain.ContactMessage{ID: "c1", Name: cmd.Name, Email: cmd.Email}, nil
}

var fixedNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func newRouter(t *testing.T, cfg Config) http.Handler {
	t.Helper()
	if cfg.Content == nil {
		cfg.Content = staticContent{content: content.Defaults()}
	}
	cfg.Now = func() time.Time { return fixedNow }
	r := chi.NewRouter()
	NewHandler(cfg).Register(r)
	return r
}

func do(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestPageRendersDefaults(t *testing.T) {
	h := newRouter(t, Config{})
	rec := do(h, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), `data-project-id="hospital-solar-upgrade"`)
}

func TestPageUnavailable(t *testing.T) {
	h := newRouter(t, Config{Content: staticContent{err: context.DeadlineExceeded}})
	rec := do(h, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestContentJSON(t *testing.T) {
	h := newRouter(t, Config{})
	rec := do(h, httptest.NewRequest(http.MethodGet, "/api/content", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var got content.Content
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "NASAM HI-TECH ELECTRICALS", got.Company.Name)
	assert.Len(t, got.Projects, 3)
}

func TestProjectDetail(t *testing.T) {
	h := newRouter(t, Config{})

	rec := do(h, httptest.NewRequest(http.MethodGet, "/api/projects/hospital-solar-upgrade", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var detail map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &detail))
	assert.Equal(t, "Hospital Solar Upgrade", detail["title"])

	missing := do(h, httptest.NewRequest(http.MethodGet, "/api/projects/nope", nil))
	assert.Equal(t, http.StatusNotFound, missing.Code)
	assert.JSONEq(t, `{"error":"project not found"}`, missing.Body.String())
}

func TestCategoryGallery(t *testing.T) {
	h := newRouter(t, Config{})

	rec := do(h, httptest.NewRequest(http.MethodGet, "/api/categories/solar/gallery", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		ID     string          `json:"id"`
		Images []content.Image `json:"images"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "solar", body.ID)
	assert.NotEmpty(t, body.Images)

	missing := do(h, httptest.NewRequest(http.MethodGet, "/api/categories/unknown/gallery", nil))
	assert.Equal(t, http.StatusNotFound, missing.Code)
}

func TestReviewSubmitJSON(t *testing.T) {
	subs := &fakeSubmissions{}
	h := newRouter(t, Config{Submissions: subs})

	req := httptest.NewRequest(http.MethodPost, "/api/reviews", strings.NewReader(`{"name":"Amina","rating":"5","comment":"Great","captchaToken":"tok"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := do(h, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	require.Len(t, subs.reviews, 1)
	assert.Equal(t, 5, subs.reviews[0].Rating)
	assert.Equal(t, "tok", subs.reviews[0].CaptchaToken)
	assert.Equal(t, "192.0.2.1", subs.reviews[0].RemoteIP)
}

func TestContactSubmitForm(t *testing.T) {
	subs := &fakeSubmissions{}
	h := newRouter(t, Config{Submissions: subs})

	form := url.Values{
		"name":                 {"Otieno"},
		"email":                {"otieno@example.com"},
		"message":              {"Quote please"},
		"g-recaptcha-response": {"widget-token"},
	}
	req := httptest.NewRequest(http.MethodPost, "/api/contact", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := do(h, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	require.Len(t, subs.contacts, 1)
	assert.Equal(t, "widget-token", subs.contacts[0].CaptchaToken)
	assert.Contains(t, rec.Body.String(), "Thank you! Your message has been sent.")
}

func TestSubmissionErrors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		body   string
	}{
		{"spam", publicapp.ErrSpam, http.StatusBadRequest, `{"error":"Spam detected."}`},
		{"captcha", publicapp.ErrCaptchaFailed, http.StatusBadRequest, `{"error":"reCAPTCHA verification failed. Please try again."}`},
		{"validation", &domain.ValidationError{Field: "name", Message: "Please enter your name."}, http.StatusBadRequest, `{"error":"Please enter your name.","field":"name"}`},
		{"store", errors.New("connection refused"), http.StatusInternalServerError, `{"error":"We could not save your submission right now. Please try again in a moment."}`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := newRouter(t, Config{Submissions: &fakeSubmissions{err: tc.err}})
			req := httptest.NewRequest(http.MethodPost, "/api/reviews", strings.NewReader(`{"name":"x"}`))
			req.Header.Set("Content-Type", "application/json")
			rec := do(h, req)
			assert.Equal(t, tc.status, rec.Code)
			assert.JSONEq(t, tc.body, rec.Body.String())
		})
	}
}

func TestSubmissionsAreRateLimited(t *testing.T) {
	subs := &fakeSubmissions{}
	h := newRouter(t, Config{Submissions: subs, RateLimiter: common.NewRateLimiter(1, 1, nil)})

	send := func() int {
		req := httptest.NewRequest(http.MethodPost, "/api/contact", strings.NewReader(`{"name":"x"}`))
		req.Header.Set("Content-Type", "application/json")
		return do(h, req).Code
	}
	assert.Equal(t, http.StatusCreated, send())
	assert.Equal(t, http.StatusTooManyRequests, send())
	assert.Len(t, subs.contacts, 1)
}

func TestPromptPlanAndShown(t *testing.T) {
	h := newRouter(t, Config{PromptPolicy: prompt.DefaultPolicy()})

	rec := do(h, httptest.NewRequest(http.MethodGet, "/api/prompts", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var plan promptPlanResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &plan))
	assert.Nil(t, plan.SuppressedUntil)
	require.Len(t, plan.Prompts, 3)
	assert.Equal(t, "rate20", plan.Prompts[0].Key)

	shown := do(h, httptest.NewRequest(http.MethodPost, "/api/prompts/shown", strings.NewReader(`{"key":"rate20"}`)))
	require.Equal(t, http.StatusOK, shown.Code)
	cookies := shown.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, prompt.CookieName, cookies[0].Name)
	until := prompt.ParseSuppressedUntil(cookies[0].Value)
	assert.True(t, until.Equal(fixedNow.Add(24*time.Hour)))

	req := httptest.NewRequest(http.MethodGet, "/api/prompts", nil)
	req.AddCookie(cookies[0])
	suppressed := do(h, req)
	var suppressedPlan promptPlanResponse
	require.NoError(t, json.Unmarshal(suppressed.Body.Bytes(), &suppressedPlan))
	assert.Empty(t, suppressedPlan.Prompts)
	require.NotNil(t, suppressedPlan.SuppressedUntil)
	assert.Equal(t, until.UnixMilli(), *suppressedPlan.SuppressedUntil)
}

func TestPromptShownDeclinedUsesShortWindow(t *testing.T) {
	h := newRouter(t, Config{PromptPolicy: prompt.DefaultPolicy()})

	rec := do(h, httptest.NewRequest(http.MethodPost, "/api/prompts/shown", strings.NewReader(`{"key":"contact45","consentDeclined":true}`)))
	require.Equal(t, http.StatusOK, rec.Code)
	cookie := rec.Result().Cookies()[0]
	assert.True(t, prompt.ParseSuppressedUntil(cookie.Value).Equal(fixedNow.Add(5*time.Minute)))
	assert.Zero(t, cookie.MaxAge)
}

func TestContentHidesPendingReviews(t *testing.T) {
	pending := false
	svc := publicapp.NewSiteService(publicapp.SiteServiceConfig{
		Preloaded: &content.Partial{Reviews: []content.Review{
			{Name: "Pending Person", Comment: "not yet moderated", Approved: &pending},
			{Name: "Legacy Person", Comment: "no moderation flag"},
		}},
	})
	h := newRouter(t, Config{Content: svc})

	rec := do(h, httptest.NewRequest(http.MethodGet, "/api/content", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "Pending Person")
	assert.NotContains(t, rec.Body.String(), "Legacy Person")

	var got content.Content
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Empty(t, got.Reviews)

	page := do(h, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, page.Code)
	assert.NotContains(t, page.Body.String(), "Pending Person")
}

func TestRenderedGalleryKeysResolve(t *testing.T) {
	c := content.Defaults()
	c.Categories = []content.Category{
		{ID: "solar", Name: "Solar"},
		{Name: "No id"},
		{ID: "1", Name: "Numeric id"},
	}
	h := newRouter(t, Config{Content: staticContent{content: c}})

	page := do(h, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, page.Code)

	matches := regexp.MustCompile(`data-category-gallery="([^"]+)"`).FindAllStringSubmatch(page.Body.String(), -1)
	require.Len(t, matches, 3)
	for _, m := range matches {
		rec := do(h, httptest.NewRequest(http.MethodGet, "/api/categories/"+url.PathEscape(m[1])+"/gallery", nil))
		assert.Equal(t, http.StatusOK, rec.Code, m[1])
	}
}

func TestPromptPlanUsesVisitorState(t *testing.T) {
	h := newRouter(t, Config{PromptPolicy: prompt.DefaultPolicy()})

	plan := func(query string) []string {
		rec := do(h, httptest.NewRequest(http.MethodGet, "/api/prompts?"+query, nil))
		require.Equal(t, http.StatusOK, rec.Code)
		var res promptPlanResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
		keys := make([]string, 0, len(res.Prompts))
		for _, item := range res.Prompts {
			keys = append(keys, item.Key)
		}
		return keys
	}

	assert.Equal(t, []string{"contact45", "contact90"}, plan("reviewSubmitted=true"))
	assert.Equal(t, []string{"rate20"}, plan("contactSubmitted=1"))
	assert.Empty(t, plan("modalOpen=true"))
	assert.Len(t, plan("reviewSubmitted=maybe"), 3)
}

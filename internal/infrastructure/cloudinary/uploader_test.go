package cloudinary

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, width, height int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, width, height))))
	return buf.Bytes()
}

func TestUploadRequiresConfiguration(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { called = true }))
	defer srv.Close()

	u := NewUploader(Config{CloudName: "demo", BaseURL: srv.URL})
	_, err := u.Upload(context.Background(), "a.png", strings.NewReader("x"))
	assert.True(t, errors.Is(err, ErrNotConfigured))
	assert.False(t, called)
}

func TestUploadSendsMultipartAndPrefersSecureURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1_1/demo/auto/upload", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "unsigned", r.FormValue("upload_preset"))

		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "notes.txt", header.Filename)
		data, _ := io.ReadAll(file)
		assert.Equal(t, "hello", string(data))

		_, _ = w.Write([]byte(`{"secure_url":"https://res.example/notes.txt","url":"http://res.example/notes.txt"}`))
	}))
	defer srv.Close()

	u := NewUploader(Config{CloudName: "demo", UploadPreset: "unsigned", BaseURL: srv.URL + "/"})
	got, err := u.Upload(context.Background(), "notes.txt", strings.NewReader("hello"))
	require.NoError(t, err)
	assert.Equal(t, "https://res.example/notes.txt", got)
}

func TestUploadFallsBackToURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"url":"http://res.example/a.png"}`))
	}))
	defer srv.Close()

	u := NewUploader(Config{CloudName: "demo", UploadPreset: "p", BaseURL: srv.URL})
	got, err := u.Upload(context.Background(), "a.png", bytes.NewReader(pngBytes(t, 4, 4)))
	require.NoError(t, err)
	assert.Equal(t, "http://res.example/a.png", got)
}

func TestUploadReportsStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"message":"Upload preset not found"}}`))
	}))
	defer srv.Close()

	u := NewUploader(Config{CloudName: "demo", UploadPreset: "missing", BaseURL: srv.URL})
	_, err := u.Upload(context.Background(), "a.txt", strings.NewReader("x"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status=400")
	assert.Contains(t, err.Error(), "Upload preset not found")
}

func TestUploadDownscalesWideImages(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		file, _, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()

		cfg, format, err := image.DecodeConfig(file)
		require.NoError(t, err)
		assert.Equal(t, "png", format)
		assert.Equal(t, 50, cfg.Width)
		assert.Equal(t, 25, cfg.Height)

		_, _ = w.Write([]byte(`{"secure_url":"https://res.example/wide.png"}`))
	}))
	defer srv.Close()

	u := NewUploader(Config{CloudName: "demo", UploadPreset: "p", BaseURL: srv.URL, MaxWidth: 50})
	_, err := u.Upload(context.Background(), "wide.png", bytes.NewReader(pngBytes(t, 200, 100)))
	require.NoError(t, err)
}

func TestDownscaleKeepsNarrowAndUnknownData(t *testing.T) {
	u := NewUploader(Config{MaxWidth: 50})
	narrow := pngBytes(t, 10, 10)
	assert.Equal(t, narrow, u.downscale("narrow.png", narrow))
	assert.Equal(t, []byte("%PDF"), u.downscale("doc.pdf", []byte("%PDF")))
}

package captcha

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func siteverify(t *testing.T, success bool) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "secret", r.PostForm.Get("secret"))
		assert.Equal(t, "token", r.PostForm.Get("response"))
		assert.Equal(t, "203.0.113.9", r.PostForm.Get("remoteip"))
		if success {
			_, _ = w.Write([]byte(`{"success":true}`))
			return
		}
		_, _ = w.Write([]byte(`{"success":false,"error-codes":["invalid-input-response"]}`))
	}))
}

func TestVerifyAccepts(t *testing.T) {
	srv := siteverify(t, true)
	defer srv.Close()

	v := NewVerifier(Config{Secret: "secret", VerifyURL: srv.URL})
	assert.True(t, v.Enabled())
	assert.NoError(t, v.Verify(context.Background(), "token", "203.0.113.9"))
}

func TestVerifyRejects(t *testing.T) {
	srv := siteverify(t, false)
	defer srv.Close()

	v := NewVerifier(Config{Secret: "secret", VerifyURL: srv.URL})
	err := v.Verify(context.Background(), "token", "203.0.113.9")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrVerificationFailed))
	assert.Contains(t, err.Error(), "invalid-input-response")
}

func TestVerifyRequiresToken(t *testing.T) {
	v := NewVerifier(Config{Secret: "secret", VerifyURL: "http://127.0.0.1:0"})
	assert.True(t, errors.Is(v.Verify(context.Background(), " ", ""), ErrVerificationFailed))
}

func TestDisabledVerifierAcceptsEverything(t *testing.T) {
	v := NewVerifier(Config{})
	assert.False(t, v.Enabled())
	assert.NoError(t, v.Verify(context.Background(), "", ""))
}

func TestVerifyServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	v := NewVerifier(Config{Secret: "secret", VerifyURL: srv.URL})
	err := v.Verify(context.Background(), "token", "")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrVerificationFailed))
}

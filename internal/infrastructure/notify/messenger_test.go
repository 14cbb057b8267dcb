package notify

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sngm3741/nasam-site/internal/public/domain"
)

type gatewayMessage struct {
	UserID      string `json:"userId"`
	Text        string `json:"text"`
	Destination string `json:"destination"`
}

type gateway struct {
	mu       sync.Mutex
	received []gatewayMessage
	fail     map[string]bool
}

func (g *gateway) handler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/messages", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var msg gatewayMessage
		require.NoError(t, json.NewDecoder(r.Body).Decode(&msg))
		g.mu.Lock()
		g.received = append(g.received, msg)
		fail := g.fail[msg.Destination]
		g.mu.Unlock()
		if fail {
			http.Error(w, "down", http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusAccepted)
	}
}

func (g *gateway) destinations() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]string, 0, len(g.received))
	for _, m := range g.received {
		out = append(out, m.Destination)
	}
	return out
}

type recordedFailure struct {
	target   string
	attempts int
	cause    error
}

type failureRecorder struct {
	records []recordedFailure
}

func (f *failureRecorder) Record(_ context.Context, target string, _ map[string]any, cause error, attempts int) error {
	f.records = append(f.records, recordedFailure{target: target, attempts: attempts, cause: cause})
	return nil
}

var contact = domain.ContactMessage{ID: "c1", Name: "Otieno", Email: "otieno@example.com", Message: "Quote please"}

func TestNotifyContactSendsAdminAndSender(t *testing.T) {
	gw := &gateway{}
	srv := httptest.NewServer(gw.handler(t))
	defer srv.Close()

	m := New(Config{Endpoint: srv.URL + "/", AdminDestination: "discord", SenderDestination: "email"})
	require.NoError(t, m.NotifyContact(context.Background(), contact))

	assert.Equal(t, []string{"discord", "email"}, gw.destinations())
	assert.Equal(t, "admin", gw.received[0].UserID)
	assert.Contains(t, gw.received[0].Text, "New enquiry from **Otieno**")
	assert.Equal(t, "otieno@example.com", gw.received[1].UserID)
}

func TestNotifyAdminFallsBackAndPersistsFailure(t *testing.T) {
	gw := &gateway{fail: map[string]bool{"discord": true, "slack": true}}
	srv := httptest.NewServer(gw.handler(t))
	defer srv.Close()

	failures := &failureRecorder{}
	m := New(Config{
		Endpoint:            srv.URL,
		AdminDestination:    "discord",
		FallbackDestination: "slack",
		Attempts:            2,
		RetryDelay:          time.Millisecond,
		Failures:            failures,
	})

	err := m.NotifyReview(context.Background(), domain.ReviewSubmission{ID: "r1", Name: "Amina", Rating: 5})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status=502")

	assert.Equal(t, []string{"discord", "discord", "slack"}, gw.destinations())
	require.Len(t, failures.records, 1)
	assert.Equal(t, TargetAdmin, failures.records[0].target)
	assert.Equal(t, 3, failures.records[0].attempts)
}

func TestNotifyFallbackSuccessIsNotPersisted(t *testing.T) {
	gw := &gateway{fail: map[string]bool{"discord": true}}
	srv := httptest.NewServer(gw.handler(t))
	defer srv.Close()

	failures := &failureRecorder{}
	m := New(Config{Endpoint: srv.URL, AdminDestination: "discord", FallbackDestination: "slack", Attempts: 1, Failures: failures})

	require.NoError(t, m.NotifyReview(context.Background(), domain.ReviewSubmission{ID: "r1", Name: "Amina", Rating: 4}))
	assert.Empty(t, failures.records)
}

func TestNotifySenderFailureIsPersisted(t *testing.T) {
	gw := &gateway{fail: map[string]bool{"email": true}}
	srv := httptest.NewServer(gw.handler(t))
	defer srv.Close()

	failures := &failureRecorder{}
	m := New(Config{Endpoint: srv.URL, AdminDestination: "discord", SenderDestination: "email", Attempts: 1, Failures: failures})

	err := m.NotifyContact(context.Background(), contact)
	require.Error(t, err)
	require.Len(t, failures.records, 1)
	assert.Equal(t, TargetSender, failures.records[0].target)
}

func TestDisabledMessengerSendsNothing(t *testing.T) {
	m := New(Config{AdminDestination: "discord"})
	assert.False(t, m.Enabled())
	assert.NoError(t, m.NotifyContact(context.Background(), contact))
}

func TestSendWithRetryStopsOnCancel(t *testing.T) {
	gw := &gateway{fail: map[string]bool{"discord": true}}
	srv := httptest.NewServer(gw.handler(t))
	defer srv.Close()

	m := New(Config{Endpoint: srv.URL})
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	err := m.sendWithRetry(ctx, "discord", "admin", "hi", 5, time.Hour)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Len(t, gw.destinations(), 1)
}

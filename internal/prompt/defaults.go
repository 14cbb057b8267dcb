package prompt

import (
	"strconv"
	"strings"
	"time"
)

// Kind identifies which modal a prompt opens.
type Kind string

const (
	KindRate    Kind = "rate"
	KindContact Kind = "contact"
)

const (
	// CookieName は抑止期限 (Unix ミリ秒) を保存する Cookie。
	CookieName = "nasam-prompt-suppress-until"

	DefaultWindow  = 24 * time.Hour
	DeclinedWindow = 5 * time.Minute
)

// Policy decides how long a shown prompt suppresses the others.
type Policy struct {
	Window         time.Duration
	DeclinedWindow time.Duration
}

// DefaultPolicy returns the 24h / 5min policy.
func DefaultPolicy() Policy {
	return Policy{Window: DefaultWindow, DeclinedWindow: DeclinedWindow}
}

// WindowFor は保存への同意を拒否した訪問者には短い抑止期間を返す。
func (p Policy) WindowFor(consentDeclined bool) time.Duration {
	if consentDeclined {
		if p.DeclinedWindow > 0 {
			return p.DeclinedWindow
		}
		return DeclinedWindow
	}
	if p.Window > 0 {
		return p.Window
	}
	return DefaultWindow
}

// DefaultEntries returns the rate prompt at 20s and contact prompts at 45s and 90s.
func DefaultEntries() []Entry {
	rate := func(s State) bool { return !s.ModalOpen && !s.ReviewSubmitted }
	contact := func(s State) bool { return !s.ModalOpen && !s.ContactSubmitted }
	return []Entry{
		{Key: "rate20", Kind: KindRate, Delay: 20 * time.Second, Condition: rate},
		{Key: "contact45", Kind: KindContact, Delay: 45 * time.Second, Condition: contact},
		{Key: "contact90", Kind: KindContact, Delay: 90 * time.Second, Condition: contact},
	}
}

// PlanItem is the client-facing description of one entry.
type PlanItem struct {
	Key     string `json:"key"`
	Kind    Kind   `json:"kind"`
	DelayMS int64  `json:"delayMs"`
}

// Plan は訪問者の状態 state と抑止期限から、これから表示し得るプロンプトを遅延順に返す。
// 抑止期間中や条件を満たさないエントリは含めない。
func Plan(entries []Entry, state State, suppressedUntil, now time.Time) []PlanItem {
	sched := NewScheduler(entries, Options{SuppressedUntil: suppressedUntil})
	sched.UpdateState(func(s *State) { *s = state })

	pending := sched.Pending(now)
	items := make([]PlanItem, 0, len(pending))
	for _, entry := range pending {
		items = append(items, PlanItem{
			Key:     entry.Key,
			Kind:    entry.Kind,
			DelayMS: entry.Delay.Milliseconds(),
		})
	}
	return items
}

// ParseSuppressedUntil decodes the cookie value. Invalid values mean "not suppressed".
func ParseSuppressedUntil(value string) time.Time {
	ms, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil || ms <= 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms)
}

// FormatSuppressedUntil encodes t for the cookie.
func FormatSuppressedUntil(t time.Time) string {
	return strconv.FormatInt(t.UnixMilli(), 10)
}

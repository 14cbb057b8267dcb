// Package prompt は一定時間経過後に表示する案内 (レビュー依頼・問い合わせ誘導) のスケジューラ。
// すべてのエントリを 1 本のタイマーで遅延順に評価し、抑止期間中は何も発火させない。
package prompt

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"
)

// State is the visitor state a condition inspects.
type State struct {
	ModalOpen        bool
	ReviewSubmitted  bool
	ContactSubmitted bool
}

// Entry is one delayed prompt.
type Entry struct {
	Key       string
	Kind      Kind
	Delay     time.Duration
	Condition func(State) bool
	Action    func(context.Context)
}

// Options configures a Scheduler.
type Options struct {
	// Window は最初の発火から他のプロンプトを抑止する期間。
	Window time.Duration
	// SuppressedUntil は Cookie などから復元した既存の抑止期限。
	SuppressedUntil time.Time
	Now             func() time.Time
	Logger          *zap.Logger
}

// Scheduler evaluates entries once each, in delay order.
type Scheduler struct {
	entries []Entry
	window  time.Duration
	now     func() time.Time
	logger  *zap.Logger

	mu              sync.Mutex
	state           State
	suppressedUntil time.Time
	evaluated       map[string]bool
	fired           []string
}

// NewScheduler は遅延の昇順 (同値は登録順) に並べたスケジューラを返す。
func NewScheduler(entries []Entry, opts Options) *Scheduler {
	sorted := append([]Entry(nil), entries...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Delay < sorted[j].Delay
	})
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{
		entries:         sorted,
		window:          opts.Window,
		now:             now,
		logger:          logger,
		suppressedUntil: opts.SuppressedUntil,
		evaluated:       make(map[string]bool, len(sorted)),
	}
}

// Entries returns the scheduled entries in firing order.
func (s *Scheduler) Entries() []Entry {
	return append([]Entry(nil), s.entries...)
}

// UpdateState applies fn to the visitor state under the scheduler lock.
func (s *Scheduler) UpdateState(fn func(*State)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.state)
}

// SuppressedUntil returns the end of the current suppression window.
func (s *Scheduler) SuppressedUntil() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.suppressedUntil
}

// Fired returns the keys of prompts that fired, in order.
func (s *Scheduler) Fired() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.fired...)
}

// Due は経過時間 elapsed・時刻 now において次に発火するエントリを返す。スケジューラの状態は変更しない。
// 抑止期間中、またはすべての対象エントリの条件が偽なら false。
func (s *Scheduler) Due(elapsed time.Duration, now time.Time) (Entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if now.Before(s.suppressedUntil) {
		return Entry{}, false
	}
	for _, entry := range s.entries {
		if entry.Delay > elapsed {
			break
		}
		if s.eligible(entry) {
			return entry, true
		}
	}
	return Entry{}, false
}

// Pending は時刻 now でまだ発火し得るエントリを遅延順に返す。抑止期間中は空。
func (s *Scheduler) Pending(now time.Time) []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	pending := make([]Entry, 0, len(s.entries))
	if now.Before(s.suppressedUntil) {
		return pending
	}
	for _, entry := range s.entries {
		if s.eligible(entry) {
			pending = append(pending, entry)
		}
	}
	return pending
}

// eligible must be called with s.mu held.
func (s *Scheduler) eligible(entry Entry) bool {
	if s.evaluated[entry.Key] {
		return false
	}
	return entry.Condition == nil || entry.Condition(s.state)
}

// Run drives every entry with a single timer until all were evaluated or ctx ends.
func (s *Scheduler) Run(ctx context.Context) error {
	start := s.now()
	timer := time.NewTimer(time.Hour)
	defer timer.Stop()

	for _, entry := range s.entries {
		if wait := entry.Delay - s.now().Sub(start); wait > 0 {
			timer.Reset(wait)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-timer.C:
			}
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if s.evaluate(entry, s.now()) {
			s.logger.Debug("プロンプトを表示", zap.String("key", entry.Key))
			if entry.Action != nil {
				entry.Action(ctx)
			}
		}
	}
	return nil
}

// evaluate は 1 エントリを一度だけ評価し、発火する場合は抑止期間を開始する。
func (s *Scheduler) evaluate(entry Entry, now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.evaluated[entry.Key] = true
	if now.Before(s.suppressedUntil) {
		return false
	}
	if entry.Condition != nil && !entry.Condition(s.state) {
		return false
	}
	s.suppressedUntil = now.Add(s.window)
	s.fired = append(s.fired, entry.Key)
	return true
}

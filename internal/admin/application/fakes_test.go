package application

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sngm3741/nasam-site/internal/content"
)

var errNoToken = errors.New("no token")

type memRepo[T any] struct {
	items   map[string]T
	order   []string
	listErr map[string]error
	writes  int
	deletes []string
	lists   []ListOptions
	next    int
}

func newMemRepo[T any]() *memRepo[T] {
	return &memRepo[T]{items: map[string]T{}, listErr: map[string]error{}}
}

func (r *memRepo[T]) List(_ context.Context, opts ListOptions) ([]T, error) {
	r.lists = append(r.lists, opts)
	if err := r.listErr[opts.SortField]; err != nil {
		return nil, err
	}
	out := make([]T, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.items[id])
	}
	return out, nil
}

func (r *memRepo[T]) Get(_ context.Context, id string) (*T, error) {
	item, ok := r.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &item, nil
}

func (r *memRepo[T]) Create(_ context.Context, item T) (string, error) {
	r.next++
	id := fmt.Sprintf("id-%d", r.next)
	r.items[id] = item
	r.order = append(r.order, id)
	r.writes++
	return id, nil
}

func (r *memRepo[T]) Update(_ context.Context, id string, item T) error {
	if _, ok := r.items[id]; !ok {
		return ErrNotFound
	}
	r.items[id] = item
	r.writes++
	return nil
}

func (r *memRepo[T]) Delete(_ context.Context, id string) error {
	if _, ok := r.items[id]; !ok {
		return ErrNotFound
	}
	delete(r.items, id)
	r.deletes = append(r.deletes, id)
	return nil
}

type memReviews struct {
	*memRepo[content.Review]
}

func (r memReviews) SetApproval(_ context.Context, id string, approved bool) error {
	item, ok := r.items[id]
	if !ok {
		return ErrNotFound
	}
	item.Approved = &approved
	r.items[id] = item
	return nil
}

type memTokens struct {
	mu      sync.Mutex
	entries map[string][]byte
	ttls    map[string]time.Duration
}

func newMemTokens() *memTokens {
	return &memTokens{entries: map[string][]byte{}, ttls: map[string]time.Duration{}}
}

func (m *memTokens) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = value
	m.ttls[key] = ttl
	return nil
}

func (m *memTokens) Take(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.entries[key]
	if !ok {
		return nil, errNoToken
	}
	delete(m.entries, key)
	return v, nil
}

type countingInvalidator struct {
	calls int
}

func (c *countingInvalidator) Invalidate(context.Context) {
	c.calls++
}

type memSections struct {
	company  *content.Company
	branding *content.Branding
	hero     *content.Hero
	err      error
}

func (m *memSections) Company(context.Context) (*content.Company, error)   { return m.company, m.err }
func (m *memSections) Branding(context.Context) (*content.Branding, error) { return m.branding, m.err }
func (m *memSections) Hero(context.Context) (*content.Hero, error)         { return m.hero, m.err }

func (m *memSections) SaveCompany(_ context.Context, c content.Company) error {
	if m.err != nil {
		return m.err
	}
	m.company = &c
	return nil
}

func (m *memSections) SaveBranding(_ context.Context, b content.Branding) error {
	if m.err != nil {
		return m.err
	}
	m.branding = &b
	return nil
}

func (m *memSections) SaveHero(_ context.Context, h content.Hero) error {
	if m.err != nil {
		return m.err
	}
	m.hero = &h
	return nil
}

package render

import "github.com/sngm3741/nasam-site/internal/content"

// Registry holds the rendered-content lookups used by detail views.
// It is built once per Render call and never mutated afterwards.
type Registry struct {
	galleries map[string][]content.Image
	projects  map[string]ProjectDetail
}

func newRegistry() *Registry {
	return &Registry{
		galleries: make(map[string][]content.Image),
		projects:  make(map[string]ProjectDetail),
	}
}

// Gallery はカテゴリ ID に対応する正規化済みギャラリーを返す。
func (r *Registry) Gallery(categoryID string) ([]content.Image, bool) {
	if r == nil {
		return nil, false
	}
	gallery, ok := r.galleries[categoryID]
	if !ok {
		return nil, false
	}
	return append([]content.Image(nil), gallery...), true
}

// Project は表示用 ID に対応するプロジェクト詳細を返す。
func (r *Registry) Project(displayID string) (ProjectDetail, bool) {
	if r == nil {
		return ProjectDetail{}, false
	}
	detail, ok := r.projects[displayID]
	return detail, ok
}

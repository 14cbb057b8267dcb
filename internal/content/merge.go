package content

// Merge はセクション単位の浅い上書きを行う。remote の非 nil セクションはそのまま採用し、
// フィールド単位の補完はしない。remote が nil ならデフォルトをそのまま返す。
func Merge(defaults Content, remote *Partial) Content {
	merged := defaults
	if remote == nil {
		return merged
	}
	if remote.Company != nil {
		merged.Company = *remote.Company
	}
	if remote.Branding != nil {
		merged.Branding = *remote.Branding
	}
	if remote.Hero != nil {
		merged.Hero = *remote.Hero
	}
	if remote.HeroPhotos != nil {
		merged.HeroPhotos = remote.HeroPhotos
	}
	if remote.Categories != nil {
		merged.Categories = remote.Categories
	}
	if remote.Projects != nil {
		merged.Projects = remote.Projects
	}
	if remote.Reviews != nil {
		merged.Reviews = remote.Reviews
	}
	return merged
}

// AsPartial wraps a fully resolved Content so every section counts as present.
func AsPartial(c Content) *Partial {
	company := c.Company
	branding := c.Branding
	hero := c.Hero
	return &Partial{
		Company:    &company,
		Branding:   &branding,
		Hero:       &hero,
		HeroPhotos: nonNil(c.HeroPhotos),
		Categories: nonNil(c.Categories),
		Projects:   nonNil(c.Projects),
		Reviews:    nonNil(c.Reviews),
	}
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}

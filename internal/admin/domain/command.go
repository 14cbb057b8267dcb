package domain

import (
	"errors"
	"strings"
)

// Collection は管理画面から編集できるコレクション。
type Collection string

const (
	CollectionHeroPhotos Collection = "hero-photos"
	CollectionCategories Collection = "categories"
	CollectionProjects   Collection = "projects"
	CollectionReviews    Collection = "reviews"
)

var ErrUnknownCollection = errors.New("unknown collection")

// Collections lists the editable collections.
func Collections() []Collection {
	return []Collection{CollectionHeroPhotos, CollectionCategories, CollectionProjects, CollectionReviews}
}

// ParseCollection accepts the URL form ("hero-photos") and the store form ("heroPhotos").
func ParseCollection(value string) (Collection, error) {
	trimmed := strings.TrimSpace(value)
	for _, c := range Collections() {
		if strings.EqualFold(trimmed, string(c)) || strings.EqualFold(trimmed, c.StoreName()) {
			return c, nil
		}
	}
	return "", ErrUnknownCollection
}

// StoreName returns the document store collection name.
func (c Collection) StoreName() string {
	switch c {
	case CollectionHeroPhotos:
		return "heroPhotos"
	case CollectionCategories:
		return "serviceCategories"
	default:
		return string(c)
	}
}

// Target identifies one document of a collection.
type Target struct {
	Collection Collection `json:"collection"`
	ID         string     `json:"id"`
}

// Command is one of Edit, Delete or ToggleApproval.
type Command interface {
	CommandTarget() Target
	isCommand()
}

// Edit replaces the fields of an existing item. Item holds the decoded content value.
type Edit struct {
	Target
	Item any
}

// Delete removes an item once the operator confirmed it.
type Delete struct {
	Target
	ConfirmToken string
}

// ToggleApproval flips is_approved of a review.
type ToggleApproval struct {
	Target
}

func (c Edit) CommandTarget() Target           { return c.Target }
func (c Delete) CommandTarget() Target         { return c.Target }
func (c ToggleApproval) CommandTarget() Target { return c.Target }

func (Edit) isCommand()           {}
func (Delete) isCommand()         {}
func (ToggleApproval) isCommand() {}

package domain

import "strings"

// AllowList は管理画面にアクセスできるメールアドレスの集合。大文字小文字と前後の空白は無視する。
type AllowList struct {
	emails map[string]struct{}
}

// NewAllowList builds an AllowList, skipping blank entries.
func NewAllowList(emails []string) AllowList {
	set := make(map[string]struct{}, len(emails))
	for _, raw := range emails {
		if key := normalizeEmailKey(raw); key != "" {
			set[key] = struct{}{}
		}
	}
	return AllowList{emails: set}
}

// Allows reports whether email is on the list.
func (l AllowList) Allows(email string) bool {
	key := normalizeEmailKey(email)
	if key == "" {
		return false
	}
	_, ok := l.emails[key]
	return ok
}

func (l AllowList) Empty() bool {
	return len(l.emails) == 0
}

func (l AllowList) Len() int {
	return len(l.emails)
}

func normalizeEmailKey(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

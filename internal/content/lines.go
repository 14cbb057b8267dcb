package content

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Lines は管理画面の textarea 入力 (改行・カンマ区切り) と JSON 配列の両方を受け付けるリスト。
type Lines []string

// UnmarshalJSON accepts a JSON array of strings or a single free-text string.
func (l *Lines) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		*l = nil
		return nil
	}
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var text string
		if err := json.Unmarshal(trimmed, &text); err != nil {
			return err
		}
		*l = ParseLines(text)
		return nil
	}
	var items []string
	if err := json.Unmarshal(trimmed, &items); err != nil {
		return err
	}
	cleaned := make(Lines, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			cleaned = append(cleaned, item)
		}
	}
	*l = cleaned
	return nil
}

// ParseLines splits on newlines or commas, trims each entry and drops empty ones.
func ParseLines(text string) Lines {
	parts := strings.FieldsFunc(text, func(r rune) bool {
		return r == '\n' || r == '\r' || r == ','
	})
	result := make(Lines, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}

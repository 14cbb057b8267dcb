package content

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// UnmarshalJSON は is_approved を優先し、旧フィールド approved は is_approved が無い場合のみ読む。
// rating は数値・数値文字列のどちらも受け付け、解釈できない値は未設定として扱う。
func (r *Review) UnmarshalJSON(data []byte) error {
	type reviewAlias Review
	var raw struct {
		reviewAlias
		Rating         json.RawMessage `json:"rating"`
		LegacyApproved *bool           `json:"approved"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*r = Review(raw.reviewAlias)
	r.Rating = parseLooseNumber(raw.Rating)
	if r.Approved == nil && raw.LegacyApproved != nil {
		approved := *raw.LegacyApproved
		r.Approved = &approved
	}
	return nil
}

func parseLooseNumber(raw json.RawMessage) *float64 {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}
	text := string(trimmed)
	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return nil
		}
		text = strings.TrimSpace(s)
	}
	value, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return nil
	}
	return &value
}

package content

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// DecodePartial decodes a pre-injected content document. Files ending in .yaml/.yml are YAML, everything else JSON.
func DecodePartial(name string, data []byte) (*Partial, error) {
	var partial Partial
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &partial); err != nil {
			return nil, fmt.Errorf("YAML の解析に失敗: %w", err)
		}
	default:
		decoder := json.NewDecoder(bytes.NewReader(data))
		if err := decoder.Decode(&partial); err != nil {
			return nil, fmt.Errorf("JSON の解析に失敗: %w", err)
		}
	}
	return &partial, nil
}

// LoadPartialFile はファイルから事前注入コンテンツを読み込む。
func LoadPartialFile(path string) (*Partial, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("コンテンツファイルの読み込みに失敗: %w", err)
	}
	return DecodePartial(path, data)
}

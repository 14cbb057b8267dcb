package content

import (
	"bytes"
	"encoding/json"
	"strings"

	"gopkg.in/yaml.v3"
)

// Image is the canonical image record used by every gallery.
type Image struct {
	URL     string `json:"url" yaml:"url"`
	Alt     string `json:"alt,omitempty" yaml:"alt,omitempty"`
	Caption string `json:"caption,omitempty" yaml:"caption,omitempty"`
}

// UnmarshalJSON accepts either a bare URL string or an {url, alt, caption} object.
func (i *Image) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		return nil
	}
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var url string
		if err := json.Unmarshal(trimmed, &url); err != nil {
			return err
		}
		*i = Image{URL: url}
		return nil
	}
	type imageAlias Image
	var alias imageAlias
	if err := json.Unmarshal(trimmed, &alias); err != nil {
		return err
	}
	*i = Image(alias)
	return nil
}

// UnmarshalYAML accepts either a scalar URL or a mapping.
func (i *Image) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		*i = Image{URL: node.Value}
		return nil
	}
	type imageAlias Image
	var alias imageAlias
	if err := node.Decode(&alias); err != nil {
		return err
	}
	*i = Image(alias)
	return nil
}

// GallerySource はレガシー表記を含む画像指定の集合。image → images → gallery の順に評価する。
type GallerySource struct {
	Image   *Image
	Images  []Image
	Gallery []Image
}

// NormalizeGallery collapses every image alias into an ordered, URL-deduplicated list.
// The result is never empty: fallback is returned when nothing usable remains.
// Normalising an already-normalised list returns an equal list.
func NormalizeGallery(src GallerySource, fallback Image) []Image {
	candidates := make([]Image, 0, 1+len(src.Images)+len(src.Gallery))
	if src.Image != nil {
		candidates = append(candidates, *src.Image)
	}
	candidates = append(candidates, src.Images...)
	candidates = append(candidates, src.Gallery...)

	result := make([]Image, 0, len(candidates))
	seen := make(map[string]struct{}, len(candidates))
	for _, candidate := range candidates {
		url := strings.TrimSpace(candidate.URL)
		if url == "" {
			continue
		}
		if _, ok := seen[url]; ok {
			continue
		}
		seen[url] = struct{}{}
		result = append(result, Image{
			URL:     url,
			Alt:     strings.TrimSpace(candidate.Alt),
			Caption: strings.TrimSpace(candidate.Caption),
		})
	}

	if len(result) == 0 {
		return []Image{fallback}
	}
	return result
}

// ImageURLs は画像リストから URL だけを取り出す。
func ImageURLs(images []Image) []string {
	urls := make([]string, 0, len(images))
	for _, img := range images {
		urls = append(urls, img.URL)
	}
	return urls
}

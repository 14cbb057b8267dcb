// Package cloudinary は Cloudinary 互換の unsigned upload API へ管理画面の画像を送る。
package cloudinary

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/disintegration/imaging"
)

// ErrNotConfigured is returned when the cloud name or upload preset is missing.
var ErrNotConfigured = errors.New("cloudinary upload is not configured")

const (
	DefaultBaseURL  = "https://api.cloudinary.com"
	DefaultMaxWidth = 2400

	maxUploadBytes = 20 << 20
)

type Config struct {
	CloudName    string
	UploadPreset string
	BaseURL      string
	// MaxWidth より横幅の大きいラスター画像はアップロード前に縮小する。0 以下なら既定値。
	MaxWidth   int
	HTTPClient *http.Client
}

type Uploader struct {
	cloudName    string
	uploadPreset string
	baseURL      string
	maxWidth     int
	httpClient   *http.Client
}

func NewUploader(cfg Config) *Uploader {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	maxWidth := cfg.MaxWidth
	if maxWidth <= 0 {
		maxWidth = DefaultMaxWidth
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &Uploader{
		cloudName:    strings.TrimSpace(cfg.CloudName),
		uploadPreset: strings.TrimSpace(cfg.UploadPreset),
		baseURL:      baseURL,
		maxWidth:     maxWidth,
		httpClient:   client,
	}
}

// Configured reports whether uploads can be attempted.
func (u *Uploader) Configured() bool {
	return u.cloudName != "" && u.uploadPreset != ""
}

type uploadResponse struct {
	SecureURL string `json:"secure_url"`
	URL       string `json:"url"`
	Error     *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Upload sends the file and returns its public URL.
func (u *Uploader) Upload(ctx context.Context, filename string, r io.Reader) (string, error) {
	if !u.Configured() {
		return "", ErrNotConfigured
	}

	data, err := io.ReadAll(io.LimitReader(r, maxUploadBytes+1))
	if err != nil {
		return "", fmt.Errorf("アップロードファイルの読み込みに失敗: %w", err)
	}
	if len(data) > maxUploadBytes {
		return "", fmt.Errorf("file exceeds %d bytes", maxUploadBytes)
	}
	data = u.downscale(filename, data)

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", filepath.Base(filename))
	if err != nil {
		return "", fmt.Errorf("multipart の作成に失敗: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return "", fmt.Errorf("multipart の書き込みに失敗: %w", err)
	}
	if err := writer.WriteField("upload_preset", u.uploadPreset); err != nil {
		return "", fmt.Errorf("multipart の書き込みに失敗: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("multipart の作成に失敗: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v1_1/%s/auto/upload", u.baseURL, u.cloudName)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, body)
	if err != nil {
		return "", fmt.Errorf("アップロードリクエストの作成に失敗: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	res, err := u.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("アップロードリクエストに失敗: %w", err)
	}
	defer res.Body.Close()

	var payload uploadResponse
	decodeErr := json.NewDecoder(io.LimitReader(res.Body, 1<<20)).Decode(&payload)

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		if decodeErr == nil && payload.Error != nil && payload.Error.Message != "" {
			return "", fmt.Errorf("upload failed: status=%d: %s", res.StatusCode, payload.Error.Message)
		}
		return "", fmt.Errorf("upload failed: status=%d", res.StatusCode)
	}
	if decodeErr != nil {
		return "", fmt.Errorf("アップロード結果の解析に失敗: %w", decodeErr)
	}
	if payload.SecureURL != "" {
		return payload.SecureURL, nil
	}
	if payload.URL != "" {
		return payload.URL, nil
	}
	return "", errors.New("upload response did not include a url")
}

// downscale は MaxWidth を超えるラスター画像を縮小する。デコードできない形式はそのまま返す。
func (u *Uploader) downscale(filename string, data []byte) []byte {
	format, err := imaging.FormatFromFilename(filename)
	if err != nil {
		return data
	}
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return data
	}
	if img.Bounds().Dx() <= u.maxWidth {
		return data
	}

	resized := imaging.Resize(img, u.maxWidth, 0, imaging.Lanczos)
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, resized, format, imaging.JPEGQuality(90)); err != nil {
		return data
	}
	return buf.Bytes()
}

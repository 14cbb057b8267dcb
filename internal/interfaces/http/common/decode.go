package common

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
)

// DecodeBody は JSON もしくはフォーム送信のボディを dst へデコードする。
// フォームの場合は各キーの先頭の値を JSON オブジェクトに詰め直してからデコードする。
func DecodeBody(r *http.Request, dst any) error {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "application/x-www-form-urlencoded", "multipart/form-data":
		r.Body = http.MaxBytesReader(nil, r.Body, MaxRequestBody)
		if mediaType == "multipart/form-data" {
			if err := r.ParseMultipartForm(MaxRequestBody); err != nil {
				return fmt.Errorf("フォームの解析に失敗: %w", err)
			}
		} else if err := r.ParseForm(); err != nil {
			return fmt.Errorf("フォームの解析に失敗: %w", err)
		}
		values := make(map[string]string, len(r.PostForm))
		for key, v := range r.PostForm {
			if len(v) > 0 {
				values[key] = v[0]
			}
		}
		data, err := json.Marshal(values)
		if err != nil {
			return err
		}
		return json.Unmarshal(data, dst)
	default:
		if err := json.NewDecoder(io.LimitReader(r.Body, MaxRequestBody)).Decode(dst); err != nil {
			if errors.Is(err, io.EOF) {
				return errors.New("request body is empty")
			}
			return fmt.Errorf("JSON の解析に失敗: %w", err)
		}
		return nil
	}
}

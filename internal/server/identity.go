package server

import (
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AdminTokenCookie は Authorization ヘッダーが無い場合に参照する Cookie 名。
const AdminTokenCookie = "nasam_admin_token"

var errInvalidToken = errors.New("アクセストークンが無効です")

type authClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email,omitempty"`
}

// jwtIdentity は HS256 で署名された ID トークンから管理者のメールアドレスを取り出す。
type jwtIdentity struct {
	secret   []byte
	issuer   string
	audience string
	now      func() time.Time
}

func newJWTIdentity(secret, issuer, audience string) *jwtIdentity {
	return &jwtIdentity{
		secret:   []byte(strings.TrimSpace(secret)),
		issuer:   strings.TrimSpace(issuer),
		audience: strings.TrimSpace(audience),
		now:      time.Now,
	}
}

// Resolve implements admin.IdentityResolver.
func (i *jwtIdentity) Resolve(r *http.Request) (string, bool) {
	token := bearerToken(r)
	if token == "" {
		return "", false
	}
	claims, err := i.parseAuthToken(token)
	if err != nil {
		return "", false
	}
	return claims.Email, true
}

func bearerToken(r *http.Request) string {
	const bearerPrefix = "Bearer "
	if header := strings.TrimSpace(r.Header.Get("Authorization")); header != "" {
		if !strings.HasPrefix(header, bearerPrefix) {
			return ""
		}
		return strings.TrimSpace(strings.TrimPrefix(header, bearerPrefix))
	}
	if cookie, err := r.Cookie(AdminTokenCookie); err == nil {
		return strings.TrimSpace(cookie.Value)
	}
	return ""
}

// parseAuthToken は署名と Issuer/Audience/有効期限を検証し、メールアドレスを持つクレームだけを受け付ける。
func (i *jwtIdentity) parseAuthToken(tokenString string) (*authClaims, error) {
	if len(i.secret) == 0 {
		return nil, fmt.Errorf("認証設定が構成されていません")
	}

	claims := &authClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %s", token.Method.Alg())
		}
		return i.secret, nil
	}, jwt.WithLeeway(30*time.Second), jwt.WithTimeFunc(i.now))
	if err != nil || !token.Valid {
		return nil, errInvalidToken
	}

	if i.issuer != "" && claims.Issuer != i.issuer {
		return nil, errInvalidToken
	}
	if i.audience != "" && !slices.Contains(claims.Audience, i.audience) {
		return nil, errInvalidToken
	}
	claims.Email = strings.TrimSpace(claims.Email)
	if claims.Email == "" {
		return nil, errInvalidToken
	}
	return claims, nil
}

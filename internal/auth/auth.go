// Пакет auth превращает токен сессии от провайдера входа
// в личность автора комментария.
package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/kovalyov-valentin/trendwise/internal/model"
)

var (
	ErrMissingToken = errors.New("missing session token")
	ErrInvalidToken = errors.New("invalid session token")
	ErrNoSecret     = errors.New("auth secret is not configured")
)

type Claims struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Picture string `json:"picture,omitempty"`
	jwt.RegisteredClaims
}

// Verifier проверяет HS256 токены сессий, подписанные общим секретом.
// Если задан audience, токен должен быть выписан для него (client id OAuth приложения).
type Verifier struct {
	secret   []byte
	audience string
	now      func() time.Time
}

func NewVerifier(secret, audience string) *Verifier {
	return &Verifier{secret: []byte(secret), audience: audience, now: time.Now}
}

// Verify возвращает личность из валидного токена, subject это id пользователя
func (v *Verifier) Verify(token string) (model.Identity, error) {
	if token == "" {
		return model.Identity{}, ErrMissingToken
	}
	if len(v.secret) == 0 {
		return model.Identity{}, ErrNoSecret
	}

	opts := []jwt.ParserOption{jwt.WithTimeFunc(v.now)}
	if v.audience != "" {
		opts = append(opts, jwt.WithAudience(v.audience))
	}

	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return v.secret, nil
	}, opts...)
	if err != nil {
		return model.Identity{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return model.Identity{}, ErrInvalidToken
	}

	if claims.Subject == "" || claims.Email == "" {
		return model.Identity{}, fmt.Errorf("%w: subject and email are required", ErrInvalidToken)
	}

	name := claims.Name
	if name == "" {
		name = claims.Email
	}

	return model.Identity{
		UserID: claims.Subject,
		Name:   name,
		Email:  claims.Email,
		Image:  claims.Picture,
	}, nil
}

// Issue подписывает токен для identity со сроком жизни ttl
func (v *Verifier) Issue(identity model.Identity, ttl time.Duration) (string, error) {
	if len(v.secret) == 0 {
		return "", ErrNoSecret
	}

	now := v.now()
	claims := Claims{
		Name:    identity.Name,
		Email:   identity.Email,
		Picture: identity.Image,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.UserID,
			Audience:  audience(v.audience),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.secret)
}

// BearerToken достает токен из значения заголовка Authorization
func BearerToken(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}

	return strings.TrimSpace(token)
}

func audience(aud string) jwt.ClaimStrings {
	if aud == "" {
		return nil
	}
	return jwt.ClaimStrings{aud}
}

// Package identity verifies bearer ID tokens and exposes the caller's
// identity to handlers.
package identity

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/golang-jwt/jwt/v5"

	"github.com/basetopia/basetopia-backend/internal/apperr"
)

const firebaseIssuerPrefix = "https://securetoken.google.com/"

var (
	ErrTokenExpired = apperr.Unauthenticated("token expired")
	ErrTokenInvalid = apperr.Unauthenticated("invalid token")
)

// Identity is the verified caller.
type Identity struct {
	UID           string `json:"uid"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"emailVerified"`
}

// Claims are the ID token claims this service reads.
type Claims struct {
	Email         string `json:"email,omitempty"`
	EmailVerified bool   `json:"email_verified,omitempty"`
	jwt.RegisteredClaims
}

// Settings selects the verification modes. RS256 tokens are checked against
// JWKSURL when ProjectID is set; HS256 tokens are accepted only when
// DevSecret is set.
type Settings struct {
	ProjectID string
	JWKSURL   string
	DevSecret string
}

type Verifier struct {
	projectID string
	devSecret []byte
	jwks      *keyfunc.JWKS
}

// New builds a Verifier. With a project id it fetches the signing keys once
// and keeps refreshing them in the background until Close.
func New(ctx context.Context, s Settings) (*Verifier, error) {
	v := &Verifier{projectID: s.ProjectID}
	if s.DevSecret != "" {
		v.devSecret = []byte(s.DevSecret)
	}
	if s.ProjectID != "" && s.JWKSURL != "" {
		jwks, err := keyfunc.Get(s.JWKSURL, keyfunc.Options{
			Ctx:               ctx,
			RefreshInterval:   time.Hour,
			RefreshRateLimit:  5 * time.Minute,
			RefreshTimeout:    10 * time.Second,
			RefreshUnknownKID: true,
			RefreshErrorHandler: func(err error) {
				slog.Error("jwks refresh failed", "error", err)
			},
		})
		if err != nil {
			return nil, fmt.Errorf("failed to fetch signing keys: %w", err)
		}
		v.jwks = jwks
	}
	if v.jwks == nil && v.devSecret == nil {
		return nil, errors.New("identity: no verification method configured")
	}
	return v, nil
}

// Close stops the background key refresh.
func (v *Verifier) Close() {
	if v.jwks != nil {
		v.jwks.EndBackground()
	}
}

// Keyfunc resolves the verification key for a parsed token header.
func (v *Verifier) Keyfunc(t *jwt.Token) (interface{}, error) {
	switch t.Method.Alg() {
	case jwt.SigningMethodRS256.Alg():
		if v.jwks == nil {
			return nil, errors.New("RS256 tokens are not accepted")
		}
		return v.jwks.Keyfunc(t)
	case jwt.SigningMethodHS256.Alg():
		if v.devSecret == nil {
			return nil, errors.New("HS256 tokens are not accepted")
		}
		return v.devSecret, nil
	default:
		return nil, fmt.Errorf("unsupported algorithm: %s", t.Method.Alg())
	}
}

// Verify parses and validates raw and returns the caller's identity.
func (v *Verifier) Verify(_ context.Context, raw string) (*Identity, error) {
	if raw == "" {
		return nil, ErrTokenInvalid
	}
	token, err := jwt.ParseWithClaims(raw, &Claims{}, v.Keyfunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg(), jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, MapError(err)
	}
	return v.FromToken(token)
}

// FromToken checks issuer, audience and subject of an already verified token.
func (v *Verifier) FromToken(token *jwt.Token) (*Identity, error) {
	if token == nil || !token.Valid {
		return nil, ErrTokenInvalid
	}
	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil, ErrTokenInvalid
	}
	if v.projectID != "" {
		if claims.Issuer != firebaseIssuerPrefix+v.projectID {
			return nil, apperr.Wrap(apperr.KindUnauthenticated, ErrTokenInvalid.Message,
				fmt.Errorf("invalid issuer: %s", claims.Issuer))
		}
		if !slices.Contains(claims.Audience, v.projectID) {
			return nil, apperr.Wrap(apperr.KindUnauthenticated, ErrTokenInvalid.Message,
				fmt.Errorf("invalid audience: %v", claims.Audience))
		}
	}
	if claims.Subject == "" || claims.ExpiresAt == nil {
		return nil, ErrTokenInvalid
	}
	return &Identity{
		UID:           claims.Subject,
		Email:         claims.Email,
		EmailVerified: claims.EmailVerified,
	}, nil
}

// MapError converts a jwt parse error into ErrTokenExpired or ErrTokenInvalid.
func MapError(err error) error {
	if errors.Is(err, jwt.ErrTokenExpired) {
		return apperr.Wrap(apperr.KindUnauthenticated, ErrTokenExpired.Message, err)
	}
	return apperr.Wrap(apperr.KindUnauthenticated, ErrTokenInvalid.Message, err)
}

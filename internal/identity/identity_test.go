package identity

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/basetopia/basetopia-backend/internal/apperr"
)

const project = "basetopia-test"

func claimsFor(uid string, exp time.Time) Claims {
	return Claims{
		Email:         uid + "@x.com",
		EmailVerified: true,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   uid,
			Issuer:    firebaseIssuerPrefix + project,
			Audience:  jwt.ClaimStrings{project},
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
}

func signHS(t *testing.T, secret string, c Claims) string {
	t.Helper()
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString([]byte(secret))
	require.NoError(t, err)
	return raw
}

func TestDevTokens(t *testing.T) {
	v, err := New(context.Background(), Settings{DevSecret: "dev-secret"})
	require.NoError(t, err)
	defer v.Close()
	ctx := context.Background()

	id, err := v.Verify(ctx, signHS(t, "dev-secret", claimsFor("u1", time.Now().Add(time.Hour))))
	require.NoError(t, err)
	assert.Equal(t, &Identity{UID: "u1", Email: "u1@x.com", EmailVerified: true}, id)

	_, err = v.Verify(ctx, signHS(t, "dev-secret", claimsFor("u1", time.Now().Add(-time.Minute))))
	assert.ErrorIs(t, err, ErrTokenExpired)

	_, err = v.Verify(ctx, signHS(t, "other-secret", claimsFor("u1", time.Now().Add(time.Hour))))
	assert.ErrorIs(t, err, ErrTokenInvalid)

	_, err = v.Verify(ctx, "not.a.token")
	assert.ErrorIs(t, err, ErrTokenInvalid)

	_, err = v.Verify(ctx, "")
	assert.Equal(t, apperr.KindUnauthenticated, apperr.KindOf(err))

	_, err = v.Verify(ctx, signHS(t, "dev-secret", claimsFor("", time.Now().Add(time.Hour))))
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestNewRequiresAMethod(t *testing.T) {
	_, err := New(context.Background(), Settings{})
	assert.Error(t, err)
}

func jwksServer(t *testing.T, kid string, key *rsa.PublicKey) *httptest.Server {
	t.Helper()
	body, err := json.Marshal(map[string]any{
		"keys": []map[string]string{{
			"kty": "RSA",
			"kid": kid,
			"use": "sig",
			"alg": "RS256",
			"n":   base64.RawURLEncoding.EncodeToString(key.N.Bytes()),
			"e":   base64.RawURLEncoding.EncodeToString(big.NewInt(int64(key.E)).Bytes()),
		}},
	})
	require.NoError(t, err)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestFirebaseTokens(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	srv := jwksServer(t, "k1", &key.PublicKey)

	v, err := New(context.Background(), Settings{ProjectID: project, JWKSURL: srv.URL})
	require.NoError(t, err)
	defer v.Close()
	ctx := context.Background()

	sign := func(c Claims) string {
		tok := jwt.NewWithClaims(jwt.SigningMethodRS256, c)
		tok.Header["kid"] = "k1"
		raw, err := tok.SignedString(key)
		require.NoError(t, err)
		return raw
	}

	id, err := v.Verify(ctx, sign(claimsFor("firebase-uid", time.Now().Add(time.Hour))))
	require.NoError(t, err)
	assert.Equal(t, "firebase-uid", id.UID)
	assert.Equal(t, "firebase-uid@x.com", id.Email)

	wrongAud := claimsFor("u", time.Now().Add(time.Hour))
	wrongAud.Audience = jwt.ClaimStrings{"someone-else"}
	_, err = v.Verify(ctx, sign(wrongAud))
	assert.ErrorIs(t, err, ErrTokenInvalid)

	wrongIss := claimsFor("u", time.Now().Add(time.Hour))
	wrongIss.Issuer = "https://accounts.example.com"
	_, err = v.Verify(ctx, sign(wrongIss))
	assert.ErrorIs(t, err, ErrTokenInvalid)

	_, err = v.Verify(ctx, signHS(t, "anything", claimsFor("u", time.Now().Add(time.Hour))))
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

// Package cursor encodes feed positions into opaque continuation tokens.
//
// A position is the (created_at, id) pair of the last post on a page. Tokens
// are URL-safe base64 of "<RFC3339Nano UTC>|<id>".
package cursor

import (
	"encoding/base64"
	"strconv"
	"strings"
	"time"

	"github.com/basetopia/basetopia-backend/internal/apperr"
)

var ErrMalformedCursor = apperr.InvalidArgument("malformed cursor")

// Position is the sort key of the last item returned.
type Position struct {
	CreatedAt time.Time
	ID        int64
}

// Encode returns the wire token for p.
func Encode(p Position) string {
	raw := p.CreatedAt.UTC().Format(time.RFC3339Nano) + "|" + strconv.FormatInt(p.ID, 10)
	return base64.RawURLEncoding.EncodeToString([]byte(raw))
}

// Decode parses a token produced by Encode.
func Decode(token string) (Position, error) {
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return Position{}, ErrMalformedCursor
	}
	ts, id, ok := strings.Cut(string(raw), "|")
	if !ok {
		return Position{}, ErrMalformedCursor
	}
	return FromParts(ts, id)
}

// FromParts builds a Position from the legacy two-parameter form
// (last_created_at, last_id).
func FromParts(createdAt, id string) (Position, error) {
	t, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return Position{}, ErrMalformedCursor
	}
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil || n <= 0 {
		return Position{}, ErrMalformedCursor
	}
	return Position{CreatedAt: t.UTC(), ID: n}, nil
}

// Equal reports whether two positions denote the same instant and id.
func (p Position) Equal(o Position) bool {
	return p.ID == o.ID && p.CreatedAt.Equal(o.CreatedAt)
}

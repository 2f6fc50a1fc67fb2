package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	err := fmt.Errorf("handler: %w", Forbidden("not your post"))
	assert.Equal(t, KindForbidden, KindOf(err))
	assert.Equal(t, "not your post", MessageOf(err))
	assert.Equal(t, Kind(""), KindOf(errors.New("plain")))
	assert.Equal(t, "Internal server error", MessageOf(errors.New("plain")))
}

func TestSentinelMatchesAfterWrap(t *testing.T) {
	sentinel := NotFound("post not found")
	cause := errors.New("record not found")
	wrapped := Wrap(KindNotFound, "post not found", cause)

	assert.ErrorIs(t, wrapped, sentinel)
	assert.ErrorIs(t, wrapped, cause)
	assert.NotErrorIs(t, wrapped, NotFound("user not found"))
}

func TestUnavailableKeepsCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Unavailable("query failed", cause)
	assert.Equal(t, "query failed: connection refused", err.Error())
	assert.Equal(t, KindUnavailable, KindOf(err))
}

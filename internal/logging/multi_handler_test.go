package logging_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/basetopia/basetopia-backend/internal/logging"
)

type failingHandler struct{ slog.Handler }

func (failingHandler) Handle(context.Context, slog.Record) error { return errors.New("sink down") }

func TestMultiHandlerFansOut(t *testing.T) {
	var info, errs bytes.Buffer
	infoH := slog.NewJSONHandler(&info, &slog.HandlerOptions{Level: slog.LevelInfo})
	errH := slog.NewJSONHandler(&errs, &slog.HandlerOptions{Level: slog.LevelError})

	logger := slog.New(logging.NewMultiHandler(infoH, nil, errH)).With("request_id", "r1")
	logger.Info("served page")
	logger.Error("query failed")

	assert.Contains(t, info.String(), `"msg":"served page"`)
	assert.Contains(t, info.String(), `"msg":"query failed"`)
	assert.NotContains(t, errs.String(), "served page")
	assert.Contains(t, errs.String(), `"request_id":"r1"`)
}

func TestMultiHandlerKeepsGoingOnError(t *testing.T) {
	var out bytes.Buffer
	good := slog.NewJSONHandler(&out, nil)
	bad := failingHandler{Handler: slog.NewJSONHandler(&bytes.Buffer{}, nil)}

	h := logging.NewMultiHandler(bad, good)
	err := h.Handle(context.Background(), slog.NewRecord(time.Now(), slog.LevelError, "boom", 0))

	assert.ErrorContains(t, err, "sink down")
	assert.Contains(t, out.String(), `"msg":"boom"`)
}

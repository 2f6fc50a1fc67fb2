// Package translate localizes structured content through an external
// translation backend.
package translate

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/basetopia/basetopia-backend/internal/apperr"
	"golang.org/x/sync/errgroup"
)

// MaxChunkChars bounds a single backend request.
const MaxChunkChars = 30000

const fanOutLimit = 4

var (
	ErrEmptyText   = apperr.InvalidArgument("text cannot be empty")
	ErrEmptyTarget = apperr.InvalidArgument("target language must be specified")
)

// Translator translates plain text. source may be empty for auto-detection.
type Translator interface {
	Translate(ctx context.Context, text, target, source string) (string, error)
}

// Chunked splits long text on whitespace before delegating, then joins the
// translated chunks with a space.
type Chunked struct {
	Next     Translator
	MaxChars int
}

func (c Chunked) Translate(ctx context.Context, text, target, source string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyText
	}
	if target == "" {
		return "", ErrEmptyTarget
	}
	limit := c.MaxChars
	if limit <= 0 {
		limit = MaxChunkChars
	}
	chunks := Chunk(text, limit)
	out := make([]string, 0, len(chunks))
	for _, chunk := range chunks {
		translated, err := c.Next.Translate(ctx, chunk, target, source)
		if err != nil {
			return "", apperr.Unavailable("translation failed", err)
		}
		out = append(out, translated)
	}
	return strings.Join(out, " "), nil
}

// Chunk splits text into pieces of at most maxChars runes, cutting at the
// last space inside each window when there is one.
func Chunk(text string, maxChars int) []string {
	runes := []rune(text)
	var chunks []string
	for len(runes) > maxChars {
		cut := lastSpace(runes[:maxChars])
		if cut <= 0 {
			cut = maxChars
		}
		chunks = append(chunks, string(runes[:cut]))
		runes = []rune(strings.TrimSpace(string(runes[cut:])))
	}
	return append(chunks, string(runes))
}

func lastSpace(runes []rune) int {
	for i := len(runes) - 1; i >= 0; i-- {
		if runes[i] == ' ' {
			return i
		}
	}
	return -1
}

// Observed reports the outcome and latency of every call to Next.
type Observed struct {
	Next    Translator
	Observe func(err error, elapsed time.Duration)
}

func (o Observed) Translate(ctx context.Context, text, target, source string) (string, error) {
	start := time.Now()
	out, err := o.Next.Translate(ctx, text, target, source)
	o.Observe(err, time.Since(start))
	return out, err
}

// Noop returns text unchanged. It backs local development without cloud
// credentials.
type Noop struct{}

func (Noop) Translate(_ context.Context, text, _, _ string) (string, error) {
	return text, nil
}

// Localize returns a copy of tree in which every string reached through a
// field named in keys is translated to target. Strings inside a list take the
// name of the field holding the list. Everything else is copied unchanged.
// Each distinct string is translated once.
func Localize(ctx context.Context, tr Translator, tree Tree, target string, keys []string) (Tree, error) {
	if target == "" {
		return nil, ErrEmptyTarget
	}
	wanted := make(map[string]bool, len(keys))
	for _, k := range keys {
		wanted[k] = true
	}

	pending := make(map[string]struct{})
	collect(tree, "", wanted, pending)

	translated, err := translateAll(ctx, tr, pending, target)
	if err != nil {
		return nil, err
	}
	return rebuild(tree, "", wanted, translated), nil
}

// LocalizeAll runs Localize once per target locale.
func LocalizeAll(ctx context.Context, tr Translator, tree Tree, targets, keys []string) (map[string]Tree, error) {
	out := make(map[string]Tree, len(targets))
	for _, target := range targets {
		t, err := Localize(ctx, tr, tree, target, keys)
		if err != nil {
			return nil, err
		}
		out[target] = t
	}
	return out, nil
}

func collect(t Tree, key string, wanted map[string]bool, pending map[string]struct{}) {
	switch v := t.(type) {
	case Leaf:
		if wanted[key] && strings.TrimSpace(string(v)) != "" {
			pending[string(v)] = struct{}{}
		}
	case Node:
		for _, f := range v {
			collect(f.Value, f.Key, wanted, pending)
		}
	case List:
		for _, item := range v {
			collect(item, key, wanted, pending)
		}
	case Scalar, nil:
	}
}

func rebuild(t Tree, key string, wanted map[string]bool, translated map[string]string) Tree {
	switch v := t.(type) {
	case Leaf:
		if wanted[key] {
			if s, ok := translated[string(v)]; ok {
				return Leaf(s)
			}
		}
		return v
	case Node:
		out := make(Node, len(v))
		for i, f := range v {
			out[i] = Field{Key: f.Key, Value: rebuild(f.Value, f.Key, wanted, translated)}
		}
		return out
	case List:
		out := make(List, len(v))
		for i, item := range v {
			out[i] = rebuild(item, key, wanted, translated)
		}
		return out
	default:
		return v
	}
}

func translateAll(ctx context.Context, tr Translator, pending map[string]struct{}, target string) (map[string]string, error) {
	var (
		mu  sync.Mutex
		out = make(map[string]string, len(pending))
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(fanOutLimit)
	for text := range pending {
		g.Go(func() error {
			translated, err := tr.Translate(gctx, text, target, "")
			if err != nil {
				return err
			}
			mu.Lock()
			out[text] = translated
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

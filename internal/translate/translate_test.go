package translate

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/basetopia/basetopia-backend/internal/apperr"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type prefixTranslator struct {
	mu    sync.Mutex
	calls map[string]int
	fail  string
}

func (p *prefixTranslator) Translate(_ context.Context, text, target, _ string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.calls == nil {
		p.calls = map[string]int{}
	}
	p.calls[text]++
	if p.fail != "" && text == p.fail {
		return "", errors.New("backend down")
	}
	return "[" + target + "] " + text, nil
}

func mustParse(t *testing.T, s string) Tree {
	t.Helper()
	tree, err := ParseJSON([]byte(s))
	require.NoError(t, err)
	return tree
}

func TestParseJSONKeepsOrder(t *testing.T) {
	in := `{"b":1.50,"a":[true,null,"x"],"c":{"z":"y","y":"z"}}`
	tree := mustParse(t, in)

	out, err := marshalTree(tree)
	require.NoError(t, err)
	assert.Equal(t, in, string(out))
}

func TestParseJSONRejectsTrailingData(t *testing.T) {
	_, err := ParseJSON([]byte(`{"a":1} {}`))
	assert.Error(t, err)

	_, err = ParseJSON([]byte(`{"a":`))
	assert.Error(t, err)
}

func TestLocalizeTranslatesNamedFields(t *testing.T) {
	tr := &prefixTranslator{}
	tree := mustParse(t, `{
		"title": "Home run",
		"author": "Alex",
		"views": 12,
		"content": ["Big swing", "Walk off"],
		"meta": {"title": "Nested", "url": "https://x"}
	}`)

	got, err := Localize(context.Background(), tr, tree, "es", []string{"title", "content"})
	require.NoError(t, err)

	want := Node{
		{Key: "title", Value: Leaf("[es] Home run")},
		{Key: "author", Value: Leaf("Alex")},
		{Key: "views", Value: got.(Node).Get("views")},
		{Key: "content", Value: List{Leaf("[es] Big swing"), Leaf("[es] Walk off")}},
		{Key: "meta", Value: Node{
			{Key: "title", Value: Leaf("[es] Nested")},
			{Key: "url", Value: Leaf("https://x")},
		}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Localize mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, Scalar{Value: jsonNumber("12")}, got.(Node).Get("views"))
}

func TestLocalizeDeduplicates(t *testing.T) {
	tr := &prefixTranslator{}
	tree := mustParse(t, `[{"title":"Same"},{"title":"Same"},{"title":"Other"}]`)

	_, err := Localize(context.Background(), tr, tree, "ja", []string{"title"})
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"Same": 1, "Other": 1}, tr.calls)
}

func TestLocalizeLeavesUnkeyedAndEmptyStrings(t *testing.T) {
	tr := &prefixTranslator{}

	got, err := Localize(context.Background(), tr, Leaf("root"), "es", []string{"title"})
	require.NoError(t, err)
	assert.Equal(t, Leaf("root"), got)

	got, err = Localize(context.Background(), tr, mustParse(t, `{"title":"  "}`), "es", []string{"title"})
	require.NoError(t, err)
	assert.Equal(t, Node{{Key: "title", Value: Leaf("  ")}}, got)
	assert.Empty(t, tr.calls)
}

func TestLocalizePropagatesFailure(t *testing.T) {
	tr := &prefixTranslator{fail: "b"}
	tree := mustParse(t, `{"t":["a","b","c"]}`)

	_, err := Localize(context.Background(), tr, tree, "es", []string{"t"})
	assert.Error(t, err)
}

func TestLocalizeRequiresTarget(t *testing.T) {
	_, err := Localize(context.Background(), &prefixTranslator{}, Leaf("x"), "", nil)
	assert.Equal(t, apperr.KindInvalidArgument, apperr.KindOf(err))
}

func TestLocalizeAll(t *testing.T) {
	tr := &prefixTranslator{}
	tree := mustParse(t, `{"title":"Hi"}`)

	got, err := LocalizeAll(context.Background(), tr, tree, []string{"es", "ja"}, []string{"title"})
	require.NoError(t, err)
	assert.Equal(t, Node{{Key: "title", Value: Leaf("[es] Hi")}}, got["es"])
	assert.Equal(t, Node{{Key: "title", Value: Leaf("[ja] Hi")}}, got["ja"])
}

func TestChunk(t *testing.T) {
	assert.Equal(t, []string{"short"}, Chunk("short", 10))
	assert.Equal(t, []string{"aaaa", "bbbb", "cc"}, Chunk("aaaa bbbb cc", 6))
	assert.Equal(t, []string{"abcde", "fghij"}, Chunk("abcdefghij", 5))

	long := strings.Repeat("palabra ", 1000)
	for _, c := range Chunk(long, 100) {
		assert.LessOrEqual(t, len([]rune(c)), 100)
	}
	assert.Equal(t, []string{"日本語", "テキスト"}, Chunk("日本語 テキスト", 4))
}

func TestChunkedJoinsTranslatedPieces(t *testing.T) {
	tr := &prefixTranslator{}
	c := Chunked{Next: tr, MaxChars: 6}

	got, err := c.Translate(context.Background(), "aaaa bbbb", "es", "")
	require.NoError(t, err)
	assert.Equal(t, "[es] aaaa [es] bbbb", got)
}

func TestChunkedValidates(t *testing.T) {
	c := Chunked{Next: Noop{}}

	_, err := c.Translate(context.Background(), " ", "es", "")
	assert.ErrorIs(t, err, ErrEmptyText)

	_, err = c.Translate(context.Background(), "hola", "", "")
	assert.ErrorIs(t, err, ErrEmptyTarget)
}

func TestChunkedWrapsBackendFailure(t *testing.T) {
	c := Chunked{Next: &prefixTranslator{fail: "x"}}

	_, err := c.Translate(context.Background(), "x", "es", "")
	assert.Equal(t, apperr.KindUnavailable, apperr.KindOf(err))
}

func TestObservedReportsEveryCall(t *testing.T) {
	var errs []error
	o := Observed{
		Next:    &prefixTranslator{fail: "bad"},
		Observe: func(err error, _ time.Duration) { errs = append(errs, err) },
	}

	_, err := o.Translate(context.Background(), "good", "es", "")
	require.NoError(t, err)
	_, err = o.Translate(context.Background(), "bad", "es", "")
	require.Error(t, err)

	require.Len(t, errs, 2)
	assert.NoError(t, errs[0])
	assert.Error(t, errs[1])
}

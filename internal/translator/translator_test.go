package translator

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T, handler http.HandlerFunc) *Service {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	s := New()
	s.baseURL = server.URL
	return s
}

func TestTranslate(t *testing.T) {
	var gotQuery string
	s := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		assert.Equal(t, "en", r.URL.Query().Get("sl"))
		assert.Equal(t, "ja", r.URL.Query().Get("tl"))
		w.Write([]byte(`[[["こんにちは","hello",null]]]`))
	})

	got, err := s.Translate(context.Background(), "hello", "en", "ja")
	require.NoError(t, err)
	assert.Equal(t, "hello", gotQuery)
	assert.Equal(t, "こんにちは", got)
}

func TestTranslateJoinsSegments(t *testing.T) {
	s := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[[["One ","x",null],["Two","y",null]]]`))
	})

	got, err := s.Translate(context.Background(), "x y", "en", "ja")
	require.NoError(t, err)
	assert.Equal(t, "One Two", got)
}

func TestTranslateEmptyTextShortCircuits(t *testing.T) {
	s := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("the endpoint should not be called for blank input")
	})

	got, err := s.Translate(context.Background(), "   ", "en", "ja")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestTranslateDefaultLanguages(t *testing.T) {
	s := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "en", r.URL.Query().Get("sl"))
		assert.Equal(t, "ja", r.URL.Query().Get("tl"))
		w.Write([]byte(`[[["ok","ok",null]]]`))
	})

	_, err := s.Translate(context.Background(), "ok", "", "")
	require.NoError(t, err)
}

func TestTranslateCaches(t *testing.T) {
	calls := 0
	s := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write([]byte(`[[["cached","hello",null]]]`))
	})

	for i := 0; i < 3; i++ {
		got, err := s.Translate(context.Background(), "hello", "en", "ja")
		require.NoError(t, err)
		assert.Equal(t, "cached", got)
	}

	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, s.CacheSize())
}

func TestTranslateUpstreamError(t *testing.T) {
	s := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := s.Translate(context.Background(), "hello", "en", "ja")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status 429")
}

func TestTranslateMalformedResponse(t *testing.T) {
	s := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`["not-a-segment-list"]`))
	})

	_, err := s.Translate(context.Background(), "hello", "en", "ja")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected translation response shape")
}

func TestTranslateLongTextChunks(t *testing.T) {
	calls := 0
	s := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write([]byte(`[[["chunk","x",null]]]`))
	})

	var sb strings.Builder
	for i := 0; i < 150; i++ {
		fmt.Fprintf(&sb, "Sentence number %d. ", i)
	}
	long := sb.String()

	got, err := s.TranslateLongText(context.Background(), long, "en", "ja")
	require.NoError(t, err)

	chunks := splitIntoChunks(long, defaultChunkSize)
	assert.Greater(t, len(chunks), 1, "long input is translated in several requests")
	assert.Equal(t, len(chunks), calls)
	assert.Equal(t, strings.Repeat("chunk", len(chunks)), got)
}

func TestSplitIntoChunks(t *testing.T) {
	text := "First sentence. Second sentence! Third one?"
	chunks := splitIntoChunks(text, 20)

	require.NotEmpty(t, chunks)
	assert.Equal(t, text, strings.Join(chunks, ""), "splitting loses no text")
	for _, chunk := range chunks {
		assert.LessOrEqual(t, len(chunk), 20)
	}
	assert.Equal(t, "First sentence.", strings.TrimSpace(chunks[0]))
}

func TestSplitIntoChunksNoPunctuation(t *testing.T) {
	text := strings.Repeat("a", 45)
	chunks := splitIntoChunks(text, 20)

	assert.Equal(t, []string{strings.Repeat("a", 20), strings.Repeat("a", 20), strings.Repeat("a", 5)}, chunks)
}

func TestSplitIntoChunksNeverCutsInsideRune(t *testing.T) {
	text := strings.Repeat("日本語のテキスト", 60)
	chunks := splitIntoChunks(text, 1000)

	require.Greater(t, len(chunks), 1)
	for i, chunk := range chunks {
		assert.True(t, utf8.ValidString(chunk), "chunk %d is not valid UTF-8", i)
		assert.LessOrEqual(t, len(chunk), 1000)
	}
	assert.Equal(t, text, strings.Join(chunks, ""), "splitting loses no text")
}

func TestSplitIntoChunksJapanesePunctuation(t *testing.T) {
	text := strings.Repeat("これは文章です。", 4)
	chunks := splitIntoChunks(text, 30)

	require.Len(t, chunks, 4)
	for _, chunk := range chunks {
		assert.Equal(t, "これは文章です。", chunk, "chunks break after the Japanese full stop")
	}
}

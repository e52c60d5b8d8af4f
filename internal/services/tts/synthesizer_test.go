package tts

import (
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"bemyeyes/internal/logger"
	"bemyeyes/internal/services"
)

func newTestSynthesizer(t *testing.T, handler http.HandlerFunc) *Synthesizer {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	s, err := New(t.TempDir(), "en", logger.New(t.TempDir()))
	require.NoError(t, err)
	s.endpoint = server.URL
	return s
}

func TestSynthesize_EmptyText(t *testing.T) {
	s, err := New(t.TempDir(), "en", logger.New(t.TempDir()))
	require.NoError(t, err)

	_, err = s.Synthesize("")
	require.ErrorIs(t, err, services.ErrEmptyText)

	_, err = s.Synthesize("   \n\t ")
	require.ErrorIs(t, err, services.ErrEmptyText)
}

func TestSynthesize_WritesUniqueFiles(t *testing.T) {
	s := newTestSynthesizer(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "tw-ob", r.URL.Query().Get("client"))
		require.Equal(t, "en", r.URL.Query().Get("tl"))
		w.Write([]byte("mp3:" + r.URL.Query().Get("q")))
	})

	first, err := s.Synthesize("hello there")
	require.NoError(t, err)
	second, err := s.Synthesize("hello there")
	require.NoError(t, err)

	require.NotEqual(t, first, second, "each call must write a fresh file")
	require.True(t, strings.HasSuffix(first, ".mp3"))

	data, err := os.ReadFile(first)
	require.NoError(t, err)
	require.Equal(t, "mp3:hello there", string(data))
}

func TestSynthesize_ConcatenatesChunks(t *testing.T) {
	var queries []string
	s := newTestSynthesizer(t, func(w http.ResponseWriter, r *http.Request) {
		queries = append(queries, r.URL.Query().Get("q"))
		w.Write([]byte("X"))
	})

	// Two sentences that together exceed one chunk.
	text := strings.Repeat("a", 150) + ". " + strings.Repeat("b", 150) + "."
	path, err := s.Synthesize(text)
	require.NoError(t, err)

	require.Len(t, queries, 2)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "XX", string(data))
}

func TestSynthesize_EndpointFailure(t *testing.T) {
	s := newTestSynthesizer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	})

	_, err := s.Synthesize("hello")
	require.ErrorIs(t, err, services.ErrSynthesis)
}

func TestSplitChunks(t *testing.T) {
	t.Run("short text stays whole", func(t *testing.T) {
		require.Equal(t, []string{"hello world"}, splitChunks("hello world", 200))
	})

	t.Run("prefers sentence boundaries", func(t *testing.T) {
		chunks := splitChunks("First sentence. Second sentence here.", 20)
		require.Equal(t, []string{"First sentence.", "Second sentence", "here."}, chunks)
	})

	t.Run("falls back to whitespace", func(t *testing.T) {
		chunks := splitChunks("alpha beta gamma delta", 12)
		for _, c := range chunks {
			require.LessOrEqual(t, len([]rune(c)), 12)
		}
		require.Equal(t, "alpha beta gamma delta", strings.Join(chunks, " "))
	})

	t.Run("hard cut without any boundary", func(t *testing.T) {
		chunks := splitChunks(strings.Repeat("x", 450), 200)
		require.Equal(t, []string{strings.Repeat("x", 200), strings.Repeat("x", 200), strings.Repeat("x", 50)}, chunks)
	})
}

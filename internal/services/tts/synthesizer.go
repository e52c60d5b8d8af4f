package tts

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"bemyeyes/internal/logger"
	"bemyeyes/internal/services"
)

const (
	defaultEndpoint = "https://translate.google.com/translate_tts"

	// The endpoint rejects long inputs, so text is synthesized in chunks
	// and the mp3 frames are concatenated.
	maxChunkLen = 200
)

// Synthesizer converts text to mp3 files through the Google Translate speech
// endpoint. Every call writes a fresh file with a uuid name into the output
// directory; existing files are never overwritten.
type Synthesizer struct {
	outputDir string
	language  string
	endpoint  string
	client    *http.Client
	logger    *logger.Logger
}

func New(outputDir, language string, log *logger.Logger) (*Synthesizer, error) {
	abs, err := filepath.Abs(outputDir)
	if err != nil {
		return nil, fmt.Errorf("resolve output dir: %w", err)
	}
	if err := os.MkdirAll(abs, 0755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	return &Synthesizer{
		outputDir: abs,
		language:  language,
		endpoint:  defaultEndpoint,
		client:    &http.Client{Timeout: 30 * time.Second},
		logger:    log,
	}, nil
}

// OutputDir returns the absolute path audio files are written to.
func (s *Synthesizer) OutputDir() string {
	return s.outputDir
}

// Synthesize converts text to speech and returns the path of the written
// mp3 file.
func (s *Synthesizer) Synthesize(text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", services.ErrEmptyText
	}

	var audio []byte
	for _, chunk := range splitChunks(text, maxChunkLen) {
		data, err := s.fetchChunk(chunk)
		if err != nil {
			return "", fmt.Errorf("%w: %v", services.ErrSynthesis, err)
		}
		audio = append(audio, data...)
	}

	path := filepath.Join(s.outputDir, uuid.New().String()+".mp3")
	if err := os.WriteFile(path, audio, 0644); err != nil {
		return "", fmt.Errorf("%w: write audio file: %v", services.ErrSynthesis, err)
	}

	s.logger.Info("Synthesized %d bytes of speech to %s", len(audio), path)
	return path, nil
}

func (s *Synthesizer) fetchChunk(text string) ([]byte, error) {
	q := url.Values{}
	q.Set("ie", "UTF-8")
	q.Set("client", "tw-ob")
	q.Set("tl", s.language)
	q.Set("q", text)

	resp, err := s.client.Get(s.endpoint + "?" + q.Encode())
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("speech endpoint returned %s", resp.Status)
	}
	return io.ReadAll(resp.Body)
}

// splitChunks breaks text into pieces of at most max runes, preferring to cut
// after sentence punctuation, then after whitespace.
func splitChunks(text string, max int) []string {
	runes := []rune(strings.TrimSpace(text))
	var chunks []string

	for len(runes) > 0 {
		if len(runes) <= max {
			chunks = append(chunks, string(runes))
			break
		}

		cut := -1
		for i := max - 1; i > 0; i-- {
			if r := runes[i]; r == '.' || r == '!' || r == '?' || r == ';' {
				cut = i + 1
				break
			}
		}
		if cut < 0 {
			for i := max - 1; i > 0; i-- {
				if r := runes[i]; r == ' ' || r == '\t' || r == '\n' {
					cut = i + 1
					break
				}
			}
		}
		if cut < 0 {
			cut = max
		}

		if chunk := strings.TrimSpace(string(runes[:cut])); chunk != "" {
			chunks = append(chunks, chunk)
		}
		runes = runes[cut:]
		for len(runes) > 0 && (runes[0] == ' ' || runes[0] == '\t' || runes[0] == '\n') {
			runes = runes[1:]
		}
	}

	return chunks
}

var _ services.Synthesizer = (*Synthesizer)(nil)

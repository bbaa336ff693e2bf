// Package translator provides machine translation through the public
// Google Translate endpoint. Results are cached per instance; construct one
// service and share it rather than relying on ambient state.
package translator

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
	"unicode/utf8"
)

const defaultChunkSize = 1000

// Service translates text between languages with an in-memory cache.
type Service struct {
	httpClient *http.Client
	baseURL    string

	mu    sync.Mutex
	cache map[string]string
}

func New() *Service {
	return &Service{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		baseURL:    "https://translate.googleapis.com/translate_a/single",
		cache:      make(map[string]string),
	}
}

// Translate translates text from sourceLang to targetLang. Repeat calls for
// the same text hit the cache.
func (s *Service) Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error) {
	if sourceLang == "" {
		sourceLang = "en"
	}
	if targetLang == "" {
		targetLang = "ja"
	}
	if strings.TrimSpace(text) == "" {
		return "", nil
	}

	cacheKey := sourceLang + "-" + targetLang + "-" + text
	s.mu.Lock()
	if cached, ok := s.cache[cacheKey]; ok {
		s.mu.Unlock()
		return cached, nil
	}
	s.mu.Unlock()

	params := url.Values{}
	params.Set("client", "gtx")
	params.Set("sl", sourceLang)
	params.Set("tl", targetLang)
	params.Set("dt", "t")
	params.Set("q", text)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("translate: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("translate: unexpected status %d", resp.StatusCode)
	}

	// The response is a positional array: payload[0] is a list of segment
	// arrays whose first element is the translated text.
	var payload []any
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("decode translation: %w", err)
	}

	translated, err := extractTranslation(payload)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	s.cache[cacheKey] = translated
	s.mu.Unlock()

	return translated, nil
}

// TranslateLongText splits long input into chunks at sentence boundaries
// and translates them in order, joining the results.
func (s *Service) TranslateLongText(ctx context.Context, text, sourceLang, targetLang string) (string, error) {
	if len(text) <= defaultChunkSize {
		return s.Translate(ctx, text, sourceLang, targetLang)
	}

	chunks := splitIntoChunks(text, defaultChunkSize)
	parts := make([]string, 0, len(chunks))
	for _, chunk := range chunks {
		translated, err := s.Translate(ctx, chunk, sourceLang, targetLang)
		if err != nil {
			return "", err
		}
		parts = append(parts, translated)
	}
	return strings.Join(parts, ""), nil
}

// CacheSize reports how many translations are cached.
func (s *Service) CacheSize() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.cache)
}

func extractTranslation(payload []any) (string, error) {
	if len(payload) == 0 {
		return "", fmt.Errorf("empty translation response")
	}
	segments, ok := payload[0].([]any)
	if !ok {
		return "", fmt.Errorf("unexpected translation response shape")
	}

	var sb strings.Builder
	for _, seg := range segments {
		parts, ok := seg.([]any)
		if !ok || len(parts) == 0 {
			continue
		}
		if text, ok := parts[0].(string); ok {
			sb.WriteString(text)
		}
	}
	return sb.String(), nil
}

// sentenceBoundaries are the characters a chunk may end after. Japanese
// full stops are included because the default target locale is Japanese.
const sentenceBoundaries = ".!?\n。！？"

// splitIntoChunks cuts text into pieces no longer than chunkSize bytes,
// breaking after sentence punctuation where possible and never inside a
// multi-byte character.
func splitIntoChunks(text string, chunkSize int) []string {
	var chunks []string
	for len(text) > chunkSize {
		cut := chunkSize
		for cut > 0 && !utf8.RuneStart(text[cut]) {
			cut--
		}
		if cut == 0 {
			_, width := utf8.DecodeRuneInString(text)
			cut = width
		}
		if idx := strings.LastIndexAny(text[:cut], sentenceBoundaries); idx > 0 {
			_, width := utf8.DecodeRuneInString(text[idx:])
			cut = idx + width
		}
		chunks = append(chunks, text[:cut])
		text = text[cut:]
	}
	if len(text) > 0 {
		chunks = append(chunks, text)
	}
	return chunks
}

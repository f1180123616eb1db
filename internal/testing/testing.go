// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"
	"testing"

	"github.com/desertthunder/sfx/internal/facets"
	"github.com/desertthunder/sfx/internal/models"
	"github.com/desertthunder/sfx/internal/shared"
)

// MockService is a test double for [services.Service].
//
// Summaries and SummaryErrs are keyed by track ID; tracks with neither entry fail with an error.
type MockService struct {
	mu          sync.Mutex
	Playlists   map[string]*models.Playlist
	PlaylistErr error
	Summaries   map[int64]*facets.WikiSummary
	SummaryErrs map[int64]error
	Calls       []int64
}

func (m *MockService) Name() string { return "mock" }

func (m *MockService) GetPlaylist(ctx context.Context, playlistID string) (*models.Playlist, error) {
	if m.PlaylistErr != nil {
		return nil, m.PlaylistErr
	}
	if pl, ok := m.Playlists[playlistID]; ok {
		return pl, nil
	}
	return nil, fmt.Errorf("%w: %s", shared.ErrPlaylistNotFound, playlistID)
}

func (m *MockService) GetSongSummary(ctx context.Context, trackID int64) (*facets.WikiSummary, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, trackID)
	m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err, ok := m.SummaryErrs[trackID]; ok {
		return nil, err
	}
	if s, ok := m.Summaries[trackID]; ok {
		return s, nil
	}
	return nil, fmt.Errorf("no summary for %d", trackID)
}

// CallLog returns a copy of the track IDs requested so far, in order.
func (m *MockService) CallLog() []int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]int64(nil), m.Calls...)
}

// Summary builds a summary whose basic block carries the given styles, language and bpm text.
func Summary(styles []string, language, bpm string) *facets.WikiSummary {
	creatives := []facets.Creative{}
	if styles != nil {
		resources := make([]facets.Resource, len(styles))
		for i, s := range styles {
			resources[i] = facets.Resource{UIElement: &facets.UIElement{MainTitle: &facets.MainTitle{Title: s}}}
		}
		creatives = append(creatives, facets.Creative{CreativeType: facets.CreativeGenre, Resources: resources})
	}
	if language != "" {
		creatives = append(creatives, facets.Creative{
			CreativeType: facets.CreativeLanguage,
			UIElement:    &facets.UIElement{TextLinks: []facets.TextLink{{Text: language}}},
		})
	}
	if bpm != "" {
		creatives = append(creatives, facets.Creative{
			CreativeType: facets.CreativeBPM,
			UIElement:    &facets.UIElement{TextLinks: []facets.TextLink{{Text: bpm}}},
		})
	}

	s := &facets.WikiSummary{Code: 200}
	s.Data.Blocks = []facets.Block{{Code: facets.BasicInfoBlock, Creatives: creatives}}
	return s
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func AssertDirExists(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		t.Errorf("Directory does not exist: %s", path)
		return
	}
	if !info.IsDir() {
		t.Errorf("Path is not a directory: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}

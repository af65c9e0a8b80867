package pipeline

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"maps"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/nao1215/fgscrap/internal/extract"
	"github.com/nao1215/fgscrap/internal/model"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeFetcher serves "page-<n>" for every page, or delegates to pageFunc.
type fakeFetcher struct {
	pageFunc func(ctx context.Context, n model.PageNumber) (string, error)
	calls    atomic.Int32
}

func (f *fakeFetcher) Page(ctx context.Context, n model.PageNumber) (string, error) {
	f.calls.Add(1)
	if f.pageFunc != nil {
		return f.pageFunc(ctx, n)
	}
	return "page-" + strconv.FormatUint(uint64(n), 10), nil
}

// fakeExtractor maps page content to a result. Unknown content marks the
// end of the listing.
type fakeExtractor struct {
	mu       sync.Mutex
	pages    map[string]*extract.Result
	hook     func(content string)
	seen     []string
	extracts atomic.Int32
}

func newFakeExtractor(pages map[string]*extract.Result) *fakeExtractor {
	return &fakeExtractor{pages: pages}
}

func (f *fakeExtractor) Extract(content string) (*extract.Result, error) {
	f.extracts.Add(1)

	f.mu.Lock()
	f.seen = append(f.seen, content)
	result, ok := f.pages[content]
	hook := f.hook
	f.mu.Unlock()

	if hook != nil {
		hook(content)
	}
	if !ok {
		return &extract.Result{End: true}, nil
	}
	return result, nil
}

func (f *fakeExtractor) contents() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.seen...)
}

// candidates builds a result with one candidate per title. Each reference
// is "ref:<title>".
func candidates(titles ...string) *extract.Result {
	result := &extract.Result{Items: len(titles)}
	for _, title := range titles {
		result.Candidates = append(result.Candidates, model.Candidate{
			Title:          title,
			PasteReference: "ref:" + title,
		})
	}
	return result
}

// fakeDecoder decodes "ref:<title>" into "<title>.torrent".
type fakeDecoder struct {
	mu         sync.Mutex
	refs       []string
	decodeFunc func(ref string) (*model.Artifact, error)
}

func (f *fakeDecoder) Decode(_ context.Context, ref string) (*model.Artifact, error) {
	f.mu.Lock()
	f.refs = append(f.refs, ref)
	decodeFunc := f.decodeFunc
	f.mu.Unlock()

	if decodeFunc != nil {
		return decodeFunc(ref)
	}
	title := strings.TrimPrefix(ref, "ref:")
	return &model.Artifact{Name: title + ".torrent", Data: []byte("torrent of " + title)}, nil
}

func (f *fakeDecoder) calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.refs...)
}

// fakeStore is an in-memory dedup store.
type fakeStore struct {
	mu      sync.Mutex
	records map[string]string
	saves   int
	saveErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{records: make(map[string]string)}
}

func (s *fakeStore) Lookup(_ context.Context, titles []string) (map[string]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	found := make(map[string]string)
	for _, title := range titles {
		if name, ok := s.records[title]; ok {
			found[title] = name
		}
	}
	return found, nil
}

func (s *fakeStore) Save(_ context.Context, records []model.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.saveErr != nil {
		return s.saveErr
	}
	for _, r := range records {
		s.records[r.Title] = r.Torrent
	}
	s.saves++
	return nil
}

func (s *fakeStore) snapshot() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return maps.Clone(s.records)
}

var errSaveFailed = errors.New("disk full")

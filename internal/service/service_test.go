package service

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/vbonduro/kitroom/internal/domain"
	"github.com/vbonduro/kitroom/internal/metrics"
	"github.com/vbonduro/kitroom/internal/photostore"
	"github.com/vbonduro/kitroom/internal/store"
	"github.com/vbonduro/kitroom/internal/store/memory"
)

var fixedNow = time.Date(2025, 3, 1, 15, 4, 5, 0, time.UTC)

// stubPhotoStore is a minimal in-memory photostore.PhotoStore for tests.
type stubPhotoStore struct {
	mu      sync.Mutex
	saved   map[string][]byte
	saveErr error
}

func newStubPhotoStore() *stubPhotoStore {
	return &stubPhotoStore{saved: make(map[string][]byte)}
}

func (s *stubPhotoStore) Save(_ context.Context, prefix, mimeType string, r io.Reader) (string, error) {
	if s.saveErr != nil {
		return "", s.saveErr
	}
	data, _ := io.ReadAll(r)
	key := photostore.Key(prefix, mimeType)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saved[key] = data
	return key, nil
}

func (s *stubPhotoStore) Get(_ context.Context, key string) (io.ReadCloser, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.saved[key]
	if !ok {
		return nil, "", photostore.ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), "image/jpeg", nil
}

func (s *stubPhotoStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.saved[key]; !ok {
		return photostore.ErrNotFound
	}
	delete(s.saved, key)
	return nil
}

func (s *stubPhotoStore) has(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.saved[key]
	return ok
}

type fixture struct {
	backend *memory.Backend
	photos  *stubPhotoStore
	metrics *metrics.Metrics
	ledger  *LedgerService
	roster  *RosterService
	memos   *MemoService
	records *Records
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return newFixtureWith(t, memory.NewBackend())
}

func newFixtureWith(t *testing.T, backend *memory.Backend) *fixture {
	t.Helper()
	return newFixtureOver(t, backend, backend)
}

// newFixtureOver lets a test swap the backend the ledger sees while keeping
// direct access to the memory backend underneath.
func newFixtureOver(t *testing.T, mem *memory.Backend, ledgerBackend store.Backend) *fixture {
	t.Helper()
	photos := newStubPhotoStore()
	images := NewImages(photos, 300, slog.Default())
	m := metrics.New("test")

	f := &fixture{
		backend: mem,
		photos:  photos,
		metrics: m,
		ledger:  NewLedgerService(ledgerBackend, images, m, slog.Default()),
		roster:  NewRosterService(mem, images, slog.Default()),
		memos:   NewMemoService(mem, slog.Default()),
	}
	f.ledger.now = func() time.Time { return fixedNow }
	f.memos.now = func() time.Time { return fixedNow }
	f.records = NewRecords(f.ledger, f.roster, f.memos)
	return f
}

func (f *fixture) inbound(t *testing.T, category, item, size string, qty int) domain.StockLine {
	t.Helper()
	line, err := f.ledger.RecordInbound(context.Background(), InboundRequest{Category: category, ItemName: item, Size: size, Quantity: qty})
	require.NoError(t, err)
	return line
}

func (f *fixture) stock(t *testing.T) []domain.StockLine {
	t.Helper()
	lines, err := f.backend.Inventory().ReadAll(context.Background())
	require.NoError(t, err)
	return lines
}

func (f *fixture) inboundCount(t *testing.T) int {
	t.Helper()
	recs, err := f.backend.InboundLogs().ReadAll(context.Background())
	require.NoError(t, err)
	return len(recs)
}

func (f *fixture) distributionCount(t *testing.T) int {
	t.Helper()
	recs, err := f.backend.DistributionLogs().ReadAll(context.Background())
	require.NoError(t, err)
	return len(recs)
}

func pngBytes(t *testing.T, c color.Color) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 20, 10))
	for y := 0; y < 10; y++ {
		for x := 0; x < 20; x++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

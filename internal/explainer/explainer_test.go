package explainer_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/oscarrenalias/telegram-bot-meme-explainer/internal/database"
	"github.com/oscarrenalias/telegram-bot-meme-explainer/internal/explainer"
)

type fakeProvider struct {
	mu       sync.Mutex
	calls    int
	response string
	err      error
}

func (f *fakeProvider) ExplainImage(_ context.Context, _ string, _ []byte) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.response, f.err
}

func (f *fakeProvider) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type memStore struct {
	mu      sync.Mutex
	entries map[string]*database.CachedResponse
	getErr  error
}

func newMemStore() *memStore {
	return &memStore{entries: make(map[string]*database.CachedResponse)}
}

func (m *memStore) Ping(context.Context) error { return nil }

func (m *memStore) GetCachedResponse(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return "", false, m.getErr
	}
	entry, ok := m.entries[key]
	if !ok {
		return "", false, nil
	}
	return entry.Response, true, nil
}

func (m *memStore) PutCachedResponse(_ context.Context, entry *database.CachedResponse) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[entry.Key] = entry
	return nil
}

func (m *memStore) PruneCache(_ context.Context, cutoff time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var removed int64
	for key, entry := range m.entries {
		if entry.CreatedAt.Before(cutoff) {
			delete(m.entries, key)
			removed++
		}
	}
	return removed, nil
}

func (m *memStore) RunMaintenance(context.Context) error { return nil }

func TestExplainCallsProviderOnce(t *testing.T) {
	t.Parallel()

	provider := &fakeProvider{response: "The cat represents **Mondays**."}
	svc := explainer.New(provider, nil, "test-model", nil)

	got, err := svc.Explain(context.Background(), "image/jpeg", []byte("imagebytes"))
	if err != nil {
		t.Fatalf("Explain returned error: %v", err)
	}
	if provider.callCount() != 1 {
		t.Fatalf("provider called %d times, want 1", provider.callCount())
	}
	if got != "The cat represents <strong>Mondays</strong>." {
		t.Errorf("unexpected explanation: %q", got)
	}
}

func TestExplainCacheHitSkipsProvider(t *testing.T) {
	t.Parallel()

	provider := &fakeProvider{response: "fresh answer"}
	store := newMemStore()
	svc := explainer.New(provider, store, "test-model", nil)

	image := []byte("same image")
	first, err := svc.Explain(context.Background(), "image/jpeg", image)
	if err != nil {
		t.Fatalf("first Explain failed: %v", err)
	}
	second, err := svc.Explain(context.Background(), "image/jpeg", image)
	if err != nil {
		t.Fatalf("second Explain failed: %v", err)
	}

	if provider.callCount() != 1 {
		t.Errorf("provider called %d times, want 1 (second call must hit the cache)", provider.callCount())
	}
	if first != second {
		t.Errorf("cached answer differs: %q vs %q", first, second)
	}
}

func TestExplainDifferentImagesMissCache(t *testing.T) {
	t.Parallel()

	provider := &fakeProvider{response: "an answer"}
	store := newMemStore()
	svc := explainer.New(provider, store, "test-model", nil)

	if _, err := svc.Explain(context.Background(), "image/jpeg", []byte("image one")); err != nil {
		t.Fatalf("Explain failed: %v", err)
	}
	if _, err := svc.Explain(context.Background(), "image/jpeg", []byte("image two")); err != nil {
		t.Fatalf("Explain failed: %v", err)
	}

	if provider.callCount() != 2 {
		t.Errorf("provider called %d times, want 2", provider.callCount())
	}
}

func TestExplainProviderErrorPropagates(t *testing.T) {
	t.Parallel()

	providerErr := errors.New("deadline exceeded")
	provider := &fakeProvider{err: providerErr}
	svc := explainer.New(provider, newMemStore(), "test-model", nil)

	_, err := svc.Explain(context.Background(), "image/jpeg", []byte("img"))
	if err == nil {
		t.Fatal("expected error from provider")
	}
	if !errors.Is(err, providerErr) {
		t.Errorf("error %v does not wrap provider error", err)
	}
}

func TestExplainCacheLookupFailureFallsThrough(t *testing.T) {
	t.Parallel()

	provider := &fakeProvider{response: "answer despite broken cache"}
	store := newMemStore()
	store.getErr = errors.New("disk on fire")
	svc := explainer.New(provider, store, "test-model", nil)

	got, err := svc.Explain(context.Background(), "image/jpeg", []byte("img"))
	if err != nil {
		t.Fatalf("Explain failed: %v", err)
	}
	if got == "" {
		t.Error("expected an explanation despite cache failure")
	}
	if provider.callCount() != 1 {
		t.Errorf("provider called %d times, want 1", provider.callCount())
	}
}

func TestCacheKeyDeterministic(t *testing.T) {
	t.Parallel()

	a := explainer.CacheKey("m", "prompt", []byte("img"))
	b := explainer.CacheKey("m", "prompt", []byte("img"))
	if a != b {
		t.Errorf("same inputs produced different keys: %s vs %s", a, b)
	}

	if explainer.CacheKey("m", "prompt", []byte("img1")) == explainer.CacheKey("m", "prompt", []byte("img2")) {
		t.Error("different images must produce different keys")
	}
	if explainer.CacheKey("m1", "prompt", []byte("img")) == explainer.CacheKey("m2", "prompt", []byte("img")) {
		t.Error("different models must produce different keys")
	}
	// Field boundaries matter: ("ab","c") and ("a","bc") must not collide.
	if explainer.CacheKey("ab", "c", []byte("img")) == explainer.CacheKey("a", "bc", []byte("img")) {
		t.Error("cache key must separate model and instruction")
	}
}

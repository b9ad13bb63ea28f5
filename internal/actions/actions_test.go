package actions

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"multivendor-client/internal/apiclient"
	"multivendor-client/internal/i18n"
	"multivendor-client/internal/persist"
	"multivendor-client/internal/reducers"
	"multivendor-client/internal/store"
)

const testStateKey = "@multivendor:state"

// backend serves canned responses keyed by "METHOD /path" and records the
// calls it received
type backend struct {
	t      *testing.T
	mu     sync.Mutex
	routes map[string]http.HandlerFunc
	calls  []string
}

func newBackend(t *testing.T) *backend {
	return &backend{t: t, routes: map[string]http.HandlerFunc{}}
}

func (b *backend) handle(route string, h http.HandlerFunc) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.routes[route] = h
}

func (b *backend) json(route string, status int, body string) {
	b.handle(route, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	})
}

func (b *backend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	route := r.Method + " " + r.URL.Path
	b.mu.Lock()
	b.calls = append(b.calls, route)
	h, ok := b.routes[route]
	b.mu.Unlock()
	if !ok {
		b.t.Logf("unexpected call %s", route)
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"no route","status":404}`))
		return
	}
	h(w, r)
}

func (b *backend) called(route string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, c := range b.calls {
		if c == route {
			n++
		}
	}
	return n
}

func (b *backend) callLog() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string{}, b.calls...)
}

// recorded holds a value captured by a handler goroutine
type recorded[T any] struct {
	mu sync.Mutex
	v  T
}

func (r *recorded[T]) set(v T) {
	r.mu.Lock()
	r.v = v
	r.mu.Unlock()
}

func (r *recorded[T]) get() T {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.v
}

func decodeBody[T any](r *http.Request, into *recorded[T]) {
	var v T
	_ = json.NewDecoder(r.Body).Decode(&v)
	into.set(v)
}

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", s)
	require.NoError(t, err)
	return d
}

type harness struct {
	backend   *backend
	client    *apiclient.Client
	store     *store.Store
	persister *store.Persister
	storage   *persist.MemoryStorage
	tr        *i18n.Translator
	actions   *Actions
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	b := newBackend(t)
	srv := httptest.NewServer(b)
	t.Cleanup(srv.Close)

	client := apiclient.New(apiclient.Options{
		BaseURL:               srv.URL,
		Timeout:               2 * time.Second,
		SettlementMaxAttempts: 4,
		SettlementWait:        5 * time.Millisecond,
		SettlementMaxWait:     20 * time.Millisecond,
	})
	tr, err := i18n.New("en")
	require.NoError(t, err)

	storage := persist.NewMemoryStorage()
	persister := store.NewPersister(storage, testStateKey, 0)
	s := store.New(reducers.Root, reducers.Initial())
	t.Cleanup(persister.Attach(s))

	return &harness{
		backend:   b,
		client:    client,
		store:     s,
		persister: persister,
		storage:   storage,
		tr:        tr,
		actions:   New(client, tr, persister, Options{Platform: "android"}),
	}
}

func (h *harness) do(t store.Thunk) error {
	return h.store.Do(context.Background(), t)
}

func (h *harness) stubSignedInFollowUps() {
	h.backend.json("GET /sra_cart_content", http.StatusOK, `{"amount":0,"products":{}}`)
	h.backend.json("GET /sra_wish_list", http.StatusOK, `{"products":{}}`)
	h.backend.json("GET /sra_profile", http.StatusOK, `{"profile_id":"3","user_id":"7"}`)
	h.backend.json("GET /sra_bm_layouts", http.StatusOK, `{"blocks":[{"block_id":1,"name":"Banners","type":"banners"}]}`)
}

func TestPopNotification(t *testing.T) {
	h := newHarness(t)

	_, ok := h.actions.PopNotification(h.store)
	assert.False(t, ok)

	require.NoError(t, h.do(h.actions.ShowNotification("info", "Notice", "first", false)))
	require.NoError(t, h.do(h.actions.ShowNotification("info", "Notice", "second", false)))

	n, ok := h.actions.PopNotification(h.store)
	require.True(t, ok)
	assert.Equal(t, "first", n.Text)
	assert.Len(t, h.store.State().Notifications.Items, 1)
	assert.Equal(t, "second", h.store.State().Notifications.Items[0].Text)
}

func TestPopNotification_ConcurrentCallersGetDistinctItems(t *testing.T) {
	h := newHarness(t)
	for i := 0; i < 10; i++ {
		require.NoError(t, h.do(h.actions.ShowNotification("info", "Notice", fmt.Sprintf("n%d", i), false)))
	}

	var mu sync.Mutex
	seen := map[string]int{}
	empty := 0

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			n, ok := h.actions.PopNotification(h.store)
			mu.Lock()
			defer mu.Unlock()
			if !ok {
				empty++
				return
			}
			seen[n.Text]++
		}()
	}
	wg.Wait()

	assert.Len(t, seen, 10)
	for text, count := range seen {
		assert.Equal(t, 1, count, text)
	}
	assert.Equal(t, 10, empty)
	assert.Empty(t, h.store.State().Notifications.Items)
}

func TestImagePicker(t *testing.T) {
	h := newHarness(t)

	require.NoError(t, h.do(h.actions.ToggleImages([]string{"a.jpg", "b.jpg"})))
	require.NoError(t, h.do(h.actions.ToggleImages([]string{"a.jpg"})))
	assert.Equal(t, []string{"b.jpg"}, h.store.State().ImagePicker.Selected)

	require.NoError(t, h.do(h.actions.ClearImages()))
	assert.Empty(t, h.store.State().ImagePicker.Selected)
}

package communityfeed

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/open-ssl/krisha/scraper-service/internal/core/domain"
)

func jsonDecode(r *http.Request, dst interface{}) error {
	return json.NewDecoder(r.Body).Decode(dst)
}

type fakeCodeProvider struct {
	code  string
	err   error
	calls atomic.Int64
}

func (p *fakeCodeProvider) RequestCode(ctx context.Context, sessionID string, hint string) (string, error) {
	p.calls.Add(1)
	return p.code, p.err
}

func newAdapter(t *testing.T, serverURL string, codes *fakeCodeProvider) *CommunityFeedAdapter {
	t.Helper()
	adapter, err := NewCommunityFeedAdapter(serverURL, "rentalmaty", "session-1", codes, time.Minute, nil)
	if err != nil {
		t.Fatalf("NewCommunityFeedAdapter: %v", err)
	}
	return adapter
}

func TestCollectFetchesMessages(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/channels/rentalmaty/messages" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(`{"messages": [
			{"id": 10, "date": 1755900000, "text": "Сдам комнату, 90000"},
			{"id": 11, "date": 1755900100, "text": ""},
			{"id": 12, "date": 1755900200, "text": "Ищу соседку в 2-комнатную"}
		]}`))
	}))
	defer server.Close()

	adapter := newAdapter(t, server.URL, &fakeCodeProvider{})

	listings, err := adapter.Collect(context.Background())
	if err != nil {
		t.Fatalf("Collect returned error: %v", err)
	}

	// пустое сообщение отброшено
	if len(listings) != 2 {
		t.Fatalf("got %d listings, want 2", len(listings))
	}
	if listings[0].Source != "community:rentalmaty" {
		t.Errorf("got source %q, want %q", listings[0].Source, "community:rentalmaty")
	}
	if listings[0].ExternalID != "msg-10" {
		t.Errorf("got external_id %q, want %q", listings[0].ExternalID, "msg-10")
	}
}

func TestCollectAdvancesCursor(t *testing.T) {
	var lastMinID atomic.Value
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lastMinID.Store(r.URL.Query().Get("min_id"))
		w.Write([]byte(`{"messages": [{"id": 42, "date": 1755900000, "text": "Сдам квартиру"}]}`))
	}))
	defer server.Close()

	adapter := newAdapter(t, server.URL, &fakeCodeProvider{})

	if _, err := adapter.Collect(context.Background()); err != nil {
		t.Fatalf("first Collect: %v", err)
	}
	if got := lastMinID.Load(); got != "0" {
		t.Errorf("got min_id %v on first pass, want 0", got)
	}

	if _, err := adapter.Collect(context.Background()); err != nil {
		t.Fatalf("second Collect: %v", err)
	}
	if got := lastMinID.Load(); got != "42" {
		t.Errorf("got min_id %v on second pass, want 42", got)
	}
}

func TestCollectConfirmsExpiredSession(t *testing.T) {
	var authorized atomic.Bool
	var confirmedCode atomic.Value

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost && r.URL.Path == "/api/v1/sessions/session-1/confirm" {
			var body struct {
				Code string `json:"code"`
			}
			if err := jsonDecode(r, &body); err != nil {
				t.Errorf("bad confirm payload: %v", err)
			}
			confirmedCode.Store(body.Code)
			authorized.Store(true)
			w.WriteHeader(http.StatusNoContent)
			return
		}

		if !authorized.Load() {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Write([]byte(`{"messages": [{"id": 1, "date": 1755900000, "text": "Сдам студию"}]}`))
	}))
	defer server.Close()

	codes := &fakeCodeProvider{code: "54321"}
	adapter := newAdapter(t, server.URL, codes)

	listings, err := adapter.Collect(context.Background())
	if err != nil {
		t.Fatalf("Collect returned error: %v", err)
	}
	if len(listings) != 1 {
		t.Fatalf("got %d listings, want 1", len(listings))
	}
	if codes.calls.Load() != 1 {
		t.Errorf("got %d code requests, want 1", codes.calls.Load())
	}
	if got := confirmedCode.Load(); got != "54321" {
		t.Errorf("got confirmed code %v, want 54321", got)
	}
}

func TestCollectFailsWhenCodeTimesOut(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	codes := &fakeCodeProvider{err: domain.ErrCodeRequestTimeout}
	adapter := newAdapter(t, server.URL, codes)

	_, err := adapter.Collect(context.Background())
	if !errors.Is(err, domain.ErrCodeRequestTimeout) {
		t.Errorf("got error %v, want wrapped ErrCodeRequestTimeout", err)
	}
}

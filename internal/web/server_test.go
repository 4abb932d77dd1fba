package web

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/nati/waterdash/internal/alert"
	"github.com/nati/waterdash/internal/config"
	"github.com/nati/waterdash/internal/export"
	"github.com/nati/waterdash/internal/history"
	"github.com/nati/waterdash/internal/i18n"
	"github.com/nati/waterdash/internal/prefs"
	"github.com/nati/waterdash/internal/sensor"
	"github.com/nati/waterdash/internal/sim"
)

// stillSource holds every walk in place: 0.5 maps to a zero perturbation.
type stillSource struct{}

func (stillSource) Float64() float64 { return 0.5 }

func newTestServer(t *testing.T) (*Server, prefs.Memory) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	station, err := sim.NewStation(sensor.Catalog(), stillSource{})
	if err != nil {
		t.Fatal(err)
	}
	engine := sim.NewEngine(station, alert.NewDispatcher(alert.DefaultTTL, nil), history.NewStore(100))

	cfg := config.Config{
		TickInterval:  time.Second,
		ClockInterval: time.Second,
		TableRows:     5,
		TableStep:     10 * time.Minute,
	}
	store := prefs.Memory{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewServer(engine, cfg, store, logger), store
}

func get(t *testing.T, s *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	s.Router().ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	s, _ := newTestServer(t)
	w := get(t, s, "/healthz")
	if w.Code != http.StatusOK {
		t.Fatalf("healthz: got %d, want 200", w.Code)
	}
}

func TestIndexServesPage(t *testing.T) {
	s, _ := newTestServer(t)
	w := get(t, s, "/")
	if w.Code != http.StatusOK {
		t.Fatalf("index: got %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Water Quality Dashboard") {
		t.Error("page is missing the dashboard title")
	}
}

func TestReadingsSnapshot(t *testing.T) {
	s, _ := newTestServer(t)
	w := get(t, s, "/api/readings")
	if w.Code != http.StatusOK {
		t.Fatalf("readings: got %d, want 200", w.Code)
	}

	var snap Snapshot
	if err := json.Unmarshal(w.Body.Bytes(), &snap); err != nil {
		t.Fatal(err)
	}
	if len(snap.Sensors) != 6 {
		t.Fatalf("expected 6 sensors, got %d", len(snap.Sensors))
	}
	if snap.Sensors[0].ID != "ph" || snap.Sensors[0].Display != "7.20" {
		t.Errorf("first sensor: got %s=%s, want ph=7.20", snap.Sensors[0].ID, snap.Sensors[0].Display)
	}
	if snap.Language != i18n.English {
		t.Errorf("language: got %q, want en", snap.Language)
	}
}

func TestTableShape(t *testing.T) {
	s, _ := newTestServer(t)
	w := get(t, s, "/api/table")

	var body struct {
		Headers []string   `json:"headers"`
		Rows    []TableRow `json:"rows"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if len(body.Rows) != 5 {
		t.Fatalf("expected 5 rows, got %d", len(body.Rows))
	}
	if len(body.Headers) != 8 {
		t.Fatalf("expected 8 headers, got %d", len(body.Headers))
	}
	if body.Headers[0] != "Timestamp" || body.Headers[7] != "Status" {
		t.Errorf("header ends: got %q ... %q", body.Headers[0], body.Headers[7])
	}
	for _, row := range body.Rows {
		if len(row.Values) != 6 {
			t.Fatalf("row width: got %d, want 6", len(row.Values))
		}
	}
}

func TestExportHeader(t *testing.T) {
	s, _ := newTestServer(t)
	w := get(t, s, "/api/export")
	if w.Code != http.StatusOK {
		t.Fatalf("export: got %d, want 200", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Errorf("content type: got %q", ct)
	}
	first := strings.SplitN(w.Body.String(), "\n", 2)[0]
	if first != export.Header {
		t.Errorf("header line:\n got %q\nwant %q", first, export.Header)
	}
}

func TestSetLanguage(t *testing.T) {
	s, store := newTestServer(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/language", strings.NewReader(`{"language":"om"}`))
	req.Header.Set("Content-Type", "application/json")
	s.Router().ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("set language: got %d, want 200", w.Code)
	}

	if v, ok := store.Get(prefs.LanguageKey); !ok || v != "om" {
		t.Errorf("stored preference: got %q (%v), want om", v, ok)
	}

	var snap Snapshot
	if err := json.Unmarshal(get(t, s, "/api/readings").Body.Bytes(), &snap); err != nil {
		t.Fatal(err)
	}
	if snap.Language != i18n.Oromo {
		t.Errorf("snapshot language: got %q, want om", snap.Language)
	}
	if snap.Sensors[1].Name != "Ho'a" {
		t.Errorf("temperature name: got %q, want Ho'a", snap.Sensors[1].Name)
	}
}

func TestSetLanguageRejectsUnknown(t *testing.T) {
	s, store := newTestServer(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/language", strings.NewReader(`{"language":"fr"}`))
	req.Header.Set("Content-Type", "application/json")
	s.Router().ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("set language: got %d, want 400", w.Code)
	}
	if _, ok := store.Get(prefs.LanguageKey); ok {
		t.Error("rejected language must not be persisted")
	}
}

func TestDismissClearsNotification(t *testing.T) {
	s, _ := newTestServer(t)
	now := time.Now()

	s.mu.Lock()
	s.engine.Dispatcher().Dispatch("check the filters", alert.SeverityInfo, now)
	s.mu.Unlock()

	var snap Snapshot
	if err := json.Unmarshal(get(t, s, "/api/readings").Body.Bytes(), &snap); err != nil {
		t.Fatal(err)
	}
	if snap.Notification == nil {
		t.Fatal("expected a visible notification")
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/dismiss", nil)
	s.Router().ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("dismiss: got %d, want 200", w.Code)
	}

	snap = Snapshot{}
	if err := json.Unmarshal(get(t, s, "/api/readings").Body.Bytes(), &snap); err != nil {
		t.Fatal(err)
	}
	if snap.Notification != nil {
		t.Errorf("notification still visible after dismiss: %+v", snap.Notification)
	}
}

// Snapshots reach a connection from the sensor tick, the clock tick and gin
// handlers at once; the per-client write lock must keep those writes from
// overlapping. Meaningful under -race.
func TestBroadcastFromManyGoroutines(t *testing.T) {
	s, _ := newTestServer(t)
	srv := httptest.NewServer(s.Router())
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatal(err)
	}
	if resp != nil {
		resp.Body.Close()
	}
	defer conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for s.clients.count() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("client never registered")
		}
		time.Sleep(5 * time.Millisecond)
	}

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 25; j++ {
				s.clients.broadcast(Snapshot{Kind: "clock", At: time.Now(), Language: i18n.English})
			}
		}()
	}
	wg.Wait()

	// Every frame must arrive intact: corrupt interleaved writes would fail
	// the read loop long before the count is reached.
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	got := 0
	for got < 100 {
		var snap Snapshot
		if err := conn.ReadJSON(&snap); err != nil {
			t.Fatalf("after %d clock frames: %v", got, err)
		}
		if snap.Kind == "clock" {
			got++
		}
	}
}

func TestStartStopIdempotent(t *testing.T) {
	s, _ := newTestServer(t)
	s.Start()
	s.Start() // restarts both loops, never doubles them
	s.Stop()
	s.Stop()
}

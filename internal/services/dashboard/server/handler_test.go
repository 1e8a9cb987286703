package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/gorilla/websocket"
	"github.com/louisbranch/obstetriccare/internal/services/dashboard"
	"github.com/louisbranch/obstetriccare/internal/services/dashboard/live"
)

type fakePublisher struct {
	updates []map[string]dashboard.Value
	err     error
}

func (f *fakePublisher) Publish(_ context.Context, updates map[string]dashboard.Value) error {
	f.updates = append(f.updates, updates)
	return f.err
}

func newTestHandler(t *testing.T, config HandlerConfig) (*Handler, *dashboard.Board) {
	t.Helper()
	board, err := dashboard.NewBoard(dashboard.DefaultConfig())
	if err != nil {
		t.Fatalf("NewBoard: %v", err)
	}
	return NewHandler(context.Background(), board, nil, config), board
}

func serve(h http.Handler, method, target, body string, headers map[string]string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	for key, value := range headers {
		req.Header.Set(key, value)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHandleDashboardFullPage(t *testing.T) {
	t.Parallel()

	h, _ := newTestHandler(t, HandlerConfig{})
	rec := serve(h, http.MethodGet, "/", "", nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	body := rec.Body.String()
	for _, fragment := range []string{
		"<!DOCTYPE html>",
		`<div id="dashboard-container">`,
		"Dashboard - Módulo Gestión de Pacientes",
		`/api/stats/ws`,
		`href="/?lang=en-US"`,
	} {
		if !strings.Contains(body, fragment) {
			t.Errorf("missing fragment %q", fragment)
		}
	}
}

func TestHandleDashboardHTMXReturnsMainContent(t *testing.T) {
	t.Parallel()

	h, _ := newTestHandler(t, HandlerConfig{ContainerID: "stats"})
	rec := serve(h, http.MethodGet, "/?lang=en-US", "", map[string]string{"HX-Request": "true"})

	body := rec.Body.String()
	if strings.Contains(body, "<!DOCTYPE html>") {
		t.Fatal("HTMX response contains full document")
	}
	if !strings.HasPrefix(body, "<title>Dashboard | Obstetric Care</title>") {
		t.Fatalf("HTMX response missing title prefix: %q", body[:min(len(body), 80)])
	}
	if !strings.Contains(body, `<div id="stats">`) {
		t.Fatal("HTMX response missing dashboard fragment")
	}
	if cookie := rec.Result().Cookies(); len(cookie) != 1 || cookie[0].Value != "en-US" {
		t.Fatalf("cookies = %v, want lang cookie", cookie)
	}
}

func TestHandleDashboardUnknownPath(t *testing.T) {
	t.Parallel()

	h, _ := newTestHandler(t, HandlerConfig{})
	if rec := serve(h, http.MethodGet, "/missing", "", nil); rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestHandleDashboardContent(t *testing.T) {
	t.Parallel()

	h, board := newTestHandler(t, HandlerConfig{})
	board.UpdateStat("ingresos_hoy", dashboard.Int(5))

	rec := serve(h, http.MethodGet, "/dashboard/content", "", nil)
	body := rec.Body.String()
	if !strings.HasPrefix(body, `<div id="dashboard-container">`) {
		t.Fatalf("content = %q", body[:min(len(body), 60)])
	}
	if !strings.Contains(body, `data-key="ingresos_hoy">5</p>`) {
		t.Fatal("content missing updated value")
	}
}

func TestHandleStatsGet(t *testing.T) {
	t.Parallel()

	h, _ := newTestHandler(t, HandlerConfig{})
	rec := serve(h, http.MethodGet, "/api/stats", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if got := rec.Header().Get("Content-Type"); got != "application/json" {
		t.Fatalf("content type = %q", got)
	}

	var got map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got["apis_activas"] != float64(6) || got["db_status"] != "100%" {
		t.Fatalf("stats = %v", got)
	}
}

func TestHandleStatsPostAppliesLocally(t *testing.T) {
	t.Parallel()

	h, board := newTestHandler(t, HandlerConfig{})
	rec := serve(h, http.MethodPost, "/api/stats", `{"pacientes_activos": 12, "unknown": 1}`, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusNoContent)
	}
	if got, _ := board.Value("pacientes_activos"); !got.Equal(dashboard.Int(12)) {
		t.Fatalf("pacientes_activos = %v, want 12", got)
	}
}

func TestHandleStatsPostFromHTMXTriggersRefresh(t *testing.T) {
	t.Parallel()

	h, _ := newTestHandler(t, HandlerConfig{})
	rec := serve(h, http.MethodPost, "/api/stats", `{"ingresos_hoy": 4}`, map[string]string{"HX-Request": "true"})
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusNoContent)
	}
	if got := rec.Header().Get("HX-Trigger"); got != "refresh" {
		t.Fatalf("HX-Trigger = %q, want %q", got, "refresh")
	}
}

func TestHandleStatsPostRelaysThroughPublisher(t *testing.T) {
	t.Parallel()

	publisher := &fakePublisher{}
	h, board := newTestHandler(t, HandlerConfig{Publisher: publisher})
	rec := serve(h, http.MethodPost, "/api/stats", `{"alertas_activas": 2}`, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusNoContent)
	}
	want := []map[string]dashboard.Value{{"alertas_activas": dashboard.Int(2)}}
	if diff := cmp.Diff(want, publisher.updates); diff != "" {
		t.Fatalf("published mismatch (-want +got):\n%s", diff)
	}
	if got, _ := board.Value("alertas_activas"); !got.Equal(dashboard.Int(0)) {
		t.Fatalf("relayed update applied locally: %v", got)
	}
}

func TestHandleStatsPostPublisherFailure(t *testing.T) {
	t.Parallel()

	h, _ := newTestHandler(t, HandlerConfig{Publisher: &fakePublisher{err: errors.New("redis down")}})
	rec := serve(h, http.MethodPost, "/api/stats", `{"alertas_activas": 2}`, nil)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusInternalServerError)
	}
}

func TestHandleStatsPostMalformed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		body     string
		wantCode string
		wantMsg  string
	}{
		{name: "not json", body: `nope`, wantCode: "DASHBOARD_MALFORMED_UPDATE", wantMsg: "La actualización de estadísticas no es un objeto JSON válido"},
		{name: "bad value", body: `{"a": [1]}`, wantCode: "DASHBOARD_INVALID_VALUE", wantMsg: "El valor de la estadística debe ser un número o un texto"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			h, _ := newTestHandler(t, HandlerConfig{})
			rec := serve(h, http.MethodPost, "/api/stats", tt.body, nil)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
			}
			var got errorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if got.Error.Code != tt.wantCode || got.Error.Message != tt.wantMsg {
				t.Fatalf("error = %+v", got.Error)
			}
		})
	}
}

func TestHandleStatsMethodNotAllowed(t *testing.T) {
	t.Parallel()

	h, _ := newTestHandler(t, HandlerConfig{})
	rec := serve(h, http.MethodDelete, "/api/stats", "", nil)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusMethodNotAllowed)
	}
	if got := rec.Header().Get("Allow"); got != "GET, HEAD, POST" {
		t.Fatalf("Allow = %q", got)
	}
}

func TestHandleRut(t *testing.T) {
	t.Parallel()

	formatted := func(s string) *string { return &s }

	tests := []struct {
		name    string
		method  string
		target  string
		body    string
		headers map[string]string
		want    rutResponse
	}{
		{
			name:   "valid get",
			method: http.MethodGet,
			target: "/api/rut?rut=123456785",
			want:   rutResponse{Rut: "123456785", Valid: true, Formatted: formatted("12.345.678-5"), Message: "RUT válido"},
		},
		{
			name:   "mismatch post",
			method: http.MethodPost,
			target: "/api/rut",
			body:   `{"rut": "12.345.678-9"}`,
			want:   rutResponse{Rut: "12.345.678-9", Formatted: formatted("12.345.678-9"), Message: "Dígito verificador incorrecto"},
		},
		{
			name:   "bad format",
			method: http.MethodGet,
			target: "/api/rut?rut=abc",
			want:   rutResponse{Rut: "abc", Message: "Formato de RUT inválido. Use: XX.XXX.XXX-K"},
		},
		{
			name:    "english",
			method:  http.MethodGet,
			target:  "/api/rut?rut=1234567-4",
			headers: map[string]string{"Accept-Language": "en-US"},
			want:    rutResponse{Rut: "1234567-4", Valid: true, Formatted: formatted("01.234.567-4"), Message: "Valid RUT"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			h, _ := newTestHandler(t, HandlerConfig{})
			rec := serve(h, tt.method, tt.target, tt.body, tt.headers)
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, want %d (body=%s)", rec.Code, http.StatusOK, rec.Body.String())
			}
			var got rutResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Fatalf("response mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestHandleRutFormattedIsNullWhenTooShort(t *testing.T) {
	t.Parallel()

	h, _ := newTestHandler(t, HandlerConfig{})
	rec := serve(h, http.MethodGet, "/api/rut?rut=123", "", nil)
	if !strings.Contains(rec.Body.String(), `"formatted":null`) {
		t.Fatalf("body = %s, want formatted null", rec.Body.String())
	}
}

func TestHandleRutErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		method     string
		body       string
		wantStatus int
		wantCode   string
	}{
		{name: "missing", method: http.MethodGet, wantStatus: http.StatusBadRequest, wantCode: "RUT_REQUIRED"},
		{name: "bad json", method: http.MethodPost, body: `{`, wantStatus: http.StatusBadRequest, wantCode: "RUT_INVALID_FORMAT"},
		{name: "blank json", method: http.MethodPost, body: `{"rut": "  "}`, wantStatus: http.StatusBadRequest, wantCode: "RUT_REQUIRED"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			h, _ := newTestHandler(t, HandlerConfig{})
			rec := serve(h, tt.method, "/api/rut", tt.body, nil)
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			var got errorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if got.Error.Code != tt.wantCode {
				t.Fatalf("code = %q, want %q", got.Error.Code, tt.wantCode)
			}
		})
	}

	h, _ := newTestHandler(t, HandlerConfig{})
	if rec := serve(h, http.MethodPut, "/api/rut", "", nil); rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("PUT status = %d, want %d", rec.Code, http.StatusMethodNotAllowed)
	}
}

func TestStatsWebsocketStreamsUpdates(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	board, err := dashboard.NewBoard(dashboard.DefaultConfig())
	if err != nil {
		t.Fatalf("NewBoard: %v", err)
	}
	hub := live.NewHub()
	go hub.Run(ctx)
	h := NewHandler(ctx, board, hub, HandlerConfig{})

	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/api/stats/ws", nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })

	type frame struct {
		Type   string         `json:"type"`
		Key    string         `json:"key"`
		Value  any            `json:"value"`
		Values map[string]any `json:"values"`
	}
	read := func() frame {
		t.Helper()
		_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		var f frame
		if err := conn.ReadJSON(&f); err != nil {
			t.Fatalf("read: %v", err)
		}
		return f
	}

	snapshot := read()
	if snapshot.Type != "snapshot" || snapshot.Values["db_status"] != "100%" {
		t.Fatalf("snapshot = %+v", snapshot)
	}

	deadline := time.Now().Add(2 * time.Second)
	for hub.ClientCount() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}

	rec := serve(h, http.MethodPost, "/api/stats", `{"admisiones_hoy": 3}`, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("POST status = %d", rec.Code)
	}

	update := read()
	if update.Type != "stat_update" || update.Key != "admisiones_hoy" || update.Value != float64(3) {
		t.Fatalf("update = %+v", update)
	}
}

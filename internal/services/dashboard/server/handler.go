package server

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/a-h/templ"
	apperrors "github.com/louisbranch/obstetriccare/internal/platform/errors"
	errori18n "github.com/louisbranch/obstetriccare/internal/platform/errors/i18n"
	"github.com/louisbranch/obstetriccare/internal/services/dashboard"
	"github.com/louisbranch/obstetriccare/internal/services/dashboard/feed"
	"github.com/louisbranch/obstetriccare/internal/services/dashboard/live"
	"github.com/louisbranch/obstetriccare/internal/services/dashboard/routepath"
	"github.com/louisbranch/obstetriccare/internal/services/dashboard/templates"
	sharedhtmx "github.com/louisbranch/obstetriccare/internal/services/shared/htmx"
	"github.com/louisbranch/obstetriccare/internal/services/shared/i18nhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// maxRequestBody caps JSON request bodies.
const maxRequestBody = 1 << 20

const tracerName = "github.com/louisbranch/obstetriccare/internal/services/dashboard/server"

// Publisher relays stat updates to every dashboard instance.
type Publisher interface {
	Publish(ctx context.Context, updates map[string]dashboard.Value) error
}

// HandlerConfig holds optional handler settings.
type HandlerConfig struct {
	// ContainerID overrides the dashboard wrapper element id.
	ContainerID string
	// Publisher relays pushed updates; when nil they are applied locally.
	Publisher Publisher
}

// Handler routes dashboard requests.
type Handler struct {
	ctx         context.Context
	board       *dashboard.Board
	hub         *live.Hub
	containerID string
	publisher   Publisher
	tracer      trace.Tracer
	now         func() time.Time
	mux         http.Handler
}

// NewHandler returns a handler over board. Applied updates are broadcast on
// hub; websocket pumps run until ctx ends.
func NewHandler(ctx context.Context, board *dashboard.Board, hub *live.Hub, config HandlerConfig) *Handler {
	if ctx == nil {
		ctx = context.Background()
	}
	h := &Handler{
		ctx:         ctx,
		board:       board,
		hub:         hub,
		containerID: strings.TrimSpace(config.ContainerID),
		publisher:   config.Publisher,
		tracer:      otel.Tracer(tracerName),
		now:         time.Now,
	}
	if hub != nil {
		board.OnUpdate(func(key string, value dashboard.Value) {
			hub.Broadcast(live.StatUpdate(key, value, h.now()))
		})
	}
	h.mux = h.routes()
	return h
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

// routes wires the HTTP routes for the dashboard handler.
func (h *Handler) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(routepath.Root, h.handleDashboard)
	mux.HandleFunc(routepath.DashboardContent, h.handleDashboardContent)
	mux.HandleFunc(routepath.Stats, h.handleStats)
	mux.HandleFunc(routepath.StatsWS, h.handleStatsWS)
	mux.HandleFunc(routepath.Rut, h.handleRut)
	mux.HandleFunc(routepath.Validate, h.handleValidate)
	return mux
}

func (h *Handler) dashboardView(loc templates.Localizer) templates.DashboardView {
	return templates.DashboardView{
		ContainerID: h.containerID,
		Config:      h.board.Snapshot(),
		Loc:         loc,
	}
}

func (h *Handler) pageContext(r *http.Request, lang i18nhttp.Language) templates.PageContext {
	options := i18nhttp.Options(r, lang)
	links := make([]templates.LanguageLink, 0, len(options))
	for _, option := range options {
		links = append(links, templates.LanguageLink{
			URL:    option.URL,
			Label:  option.Label,
			Active: option.Active,
		})
	}
	return templates.PageContext{
		Lang:        lang.Locale(),
		Loc:         lang.Printer,
		ContainerID: h.containerID,
		Languages:   links,
	}
}

func (h *Handler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != routepath.Root {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		methodNotAllowed(w, http.MethodGet, http.MethodHead)
		return
	}
	lang := i18nhttp.Resolve(w, r)
	content := templates.Dashboard(h.dashboardView(lang.Printer))
	sharedhtmx.RenderPage(w, r, sharedhtmx.Page{
		Full:  templates.FullPage(h.pageContext(r, lang), content),
		Title: templates.PageTitle(lang.Printer),
	})
}

// handleDashboardContent renders the dashboard fragment alone.
func (h *Handler) handleDashboardContent(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		methodNotAllowed(w, http.MethodGet, http.MethodHead)
		return
	}
	lang := i18nhttp.Resolve(w, r)
	templ.Handler(templates.Dashboard(h.dashboardView(lang.Printer))).ServeHTTP(w, r)
}

func (h *Handler) handleStats(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet, http.MethodHead:
		writeJSON(w, http.StatusOK, h.board.Values())
	case http.MethodPost:
		h.handleStatsPush(w, r)
	default:
		methodNotAllowed(w, http.MethodGet, http.MethodHead, http.MethodPost)
	}
}

// handleStatsPush applies a JSON object of stat key to value.
func (h *Handler) handleStatsPush(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "dashboard.update_stats")
	defer span.End()

	body, err := readBody(w, r)
	if err != nil {
		h.writeError(w, r, span, apperrors.Wrap(apperrors.CodeDashboardMalformedUpdate, "read stat update", err))
		return
	}
	updates, err := feed.DecodeUpdates(body)
	if err != nil {
		h.writeError(w, r, span, err)
		return
	}
	span.SetAttributes(attribute.Int("dashboard.stats.received", len(updates)))

	if h.publisher != nil {
		if err := h.publisher.Publish(ctx, updates); err != nil {
			h.writeError(w, r, span, apperrors.Wrap(apperrors.CodeUnknown, "publish stat update", err))
			return
		}
		span.SetAttributes(attribute.Bool("dashboard.stats.relayed", true))
		h.pushed(w, r)
		return
	}

	applied := h.board.UpdateStats(updates)
	span.SetAttributes(attribute.Int("dashboard.stats.applied", applied))
	h.pushed(w, r)
}

// pushed acknowledges a stat push; HTMX callers also get a content refresh.
func (h *Handler) pushed(w http.ResponseWriter, r *http.Request) {
	if sharedhtmx.IsRequest(r) {
		sharedhtmx.Trigger(w, sharedhtmx.RefreshEvent)
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleStatsWS(w http.ResponseWriter, r *http.Request) {
	if h.hub == nil {
		http.NotFound(w, r)
		return
	}
	snapshot := live.Snapshot(h.board.Values(), h.now())
	if err := h.hub.Serve(h.ctx, w, r, snapshot); err != nil {
		log.Printf("dashboard websocket upgrade: %v", err)
	}
}

// rutRequest is the JSON body accepted by the RUT endpoint.
type rutRequest struct {
	Rut string `json:"rut"`
}

// rutResponse reports a RUT check.
type rutResponse struct {
	Rut       string  `json:"rut"`
	Valid     bool    `json:"valid"`
	Formatted *string `json:"formatted"`
	Message   string  `json:"message"`
}

func (h *Handler) handleRut(w http.ResponseWriter, r *http.Request) {
	_, span := h.tracer.Start(r.Context(), "dashboard.check_rut")
	defer span.End()

	var input string
	switch r.Method {
	case http.MethodGet:
		input = r.URL.Query().Get("rut")
	case http.MethodPost:
		body, err := readBody(w, r)
		if err != nil {
			h.writeError(w, r, span, apperrors.Wrap(apperrors.CodeRutInvalidFormat, "read rut request", err))
			return
		}
		var req rutRequest
		if err := json.Unmarshal(body, &req); err != nil {
			h.writeError(w, r, span, apperrors.Wrap(apperrors.CodeRutInvalidFormat, "decode rut request", err))
			return
		}
		input = req.Rut
	default:
		methodNotAllowed(w, http.MethodGet, http.MethodPost)
		return
	}

	input = strings.TrimSpace(input)
	if input == "" {
		h.writeError(w, r, span, apperrors.New(apperrors.CodeRutRequired, "rut is required"))
		return
	}

	resp := checkRut(input, i18nhttp.Resolve(w, r))
	span.SetAttributes(attribute.Bool("rut.valid", resp.Valid))
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleValidate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}
	_, span := h.tracer.Start(r.Context(), "dashboard.validate_fields")
	defer span.End()

	body, err := readBody(w, r)
	if err != nil {
		h.writeError(w, r, span, apperrors.Wrap(apperrors.CodeValidationMalformedRequest, "read validation request", err))
		return
	}
	var req fieldsRequest
	if err := json.Unmarshal(body, &req); err != nil {
		h.writeError(w, r, span, apperrors.Wrap(apperrors.CodeValidationMalformedRequest, "decode validation request", err))
		return
	}

	resp := checkFields(req, i18nhttp.Resolve(w, r))
	span.SetAttributes(
		attribute.Bool("validate.valid", resp.Valid),
		attribute.Int("validate.errors", len(resp.Errors)),
	)
	writeJSON(w, http.StatusOK, resp)
}

// errorResponse is the JSON error envelope.
type errorResponse struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeError renders err with its HTTP status and a localized message.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(otelcodes.Error, err.Error())

	lang := i18nhttp.Resolve(w, r)
	code := apperrors.GetCode(err)
	writeJSON(w, apperrors.HTTPStatus(err), errorResponse{Error: errorBody{
		Code:    string(code),
		Message: errori18n.Localize(lang.Locale(), err),
	}})
}

func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
	return io.ReadAll(r.Body)
}

// writeJSON writes JSON responses with a consistent content type.
func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	encoder := json.NewEncoder(w)
	_ = encoder.Encode(payload)
}

func methodNotAllowed(w http.ResponseWriter, allowed ...string) {
	w.Header().Set("Allow", strings.Join(allowed, ", "))
	http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
}

package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/hazyhaar/tagsmith/pkg/engine"
	"github.com/hazyhaar/tagsmith/pkg/kit"
	"github.com/hazyhaar/tagsmith/pkg/tagdict"
	"github.com/hazyhaar/tagsmith/pkg/tags"
)

const maxBodyBytes = 64 * 1024

// NewRouter returns an http.Handler with all Tagsmith API routes. A nil
// logger falls back to slog.Default.
func NewRouter(eng *engine.Engine, reg *tagdict.Registry, logger *slog.Logger) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	instrument := func(name string, ep kit.Endpoint) kit.Endpoint {
		return kit.Chain(kit.Logging(logger, name))(ep)
	}

	mux := http.NewServeMux()
	h := &handler{
		translate: instrument("translate", translateEndpoint(eng)),
		validate:  instrument("validate", validateEndpoint(eng)),
		suggest:   instrument("suggest", suggestEndpoint(eng)),
		explain:   instrument("explain", explainEndpoint(eng)),
		tagDoc:    instrument("tag_doc", tagDocEndpoint(reg)),
		dictInfo:  instrument("dict_info", dictInfoEndpoint(reg)),
		reg:       reg,
	}

	mux.HandleFunc("POST /v1/translate", h.handleTranslate)
	mux.HandleFunc("POST /v1/validate", h.handleValidate)
	mux.HandleFunc("POST /v1/suggest", h.handleSuggest)
	mux.HandleFunc("POST /v1/explain", h.handleExplain)
	mux.HandleFunc("GET /v1/tags/{key}", h.handleTagDoc)
	mux.HandleFunc("GET /v1/dictionary", h.handleDictInfo)
	mux.HandleFunc("GET /v1/health", h.handleHealth)

	return cors(requestMeta(mux))
}

// requestMeta stamps the transport and a fresh request ID so endpoint
// logging can correlate lines.
func requestMeta(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := kit.WithTransport(r.Context(), "http")
		ctx = kit.WithRequestID(ctx, kit.NewRequestID())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

type handler struct {
	translate kit.Endpoint
	validate  kit.Endpoint
	suggest   kit.Endpoint
	explain   kit.Endpoint
	tagDoc    kit.Endpoint
	dictInfo  kit.Endpoint
	reg       *tagdict.Registry
}

// --- translate ---

func (h *handler) handleTranslate(w http.ResponseWriter, r *http.Request) {
	var req engine.Request
	if !decodeBody(w, r, &req) {
		return
	}
	resp, err := h.translate(r.Context(), &req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// --- validate ---

type httpValidateRequest struct {
	Tags     *tags.Set           `json:"tags"`
	Location *engine.Coordinates `json:"location,omitempty"`
}

func (h *handler) handleValidate(w http.ResponseWriter, r *http.Request) {
	var req httpValidateRequest
	if !decodeBody(w, r, &req) {
		return
	}
	resp, err := h.validate(r.Context(), &validateReq{Tags: req.Tags, Location: req.Location})
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// --- suggest ---

type httpSuggestRequest struct {
	Tags  *tags.Set `json:"tags"`
	Limit int       `json:"limit,omitempty"`
}

func (h *handler) handleSuggest(w http.ResponseWriter, r *http.Request) {
	var req httpSuggestRequest
	if !decodeBody(w, r, &req) {
		return
	}
	resp, err := h.suggest(r.Context(), &suggestReq{Tags: req.Tags, Limit: req.Limit})
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// --- explain ---

type httpExplainRequest struct {
	Tags *tags.Set `json:"tags"`
}

func (h *handler) handleExplain(w http.ResponseWriter, r *http.Request) {
	var req httpExplainRequest
	if !decodeBody(w, r, &req) {
		return
	}
	resp, err := h.explain(r.Context(), &explainReq{Tags: req.Tags})
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// --- tag documentation ---

func (h *handler) handleTagDoc(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")
	if key == "" {
		writeError(w, http.StatusBadRequest, "missing key")
		return
	}
	resp, err := h.tagDoc(r.Context(), &tagDocReq{Key: key})
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// --- dictionary info ---

func (h *handler) handleDictInfo(w http.ResponseWriter, r *http.Request) {
	resp, err := h.dictInfo(r.Context(), nil)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// --- health ---

type healthResponse struct {
	Status  string `json:"status"`
	Sources int    `json:"sources"`
	Rules   int    `json:"rules"`
}

func (h *handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:  "ok",
		Sources: len(h.reg.Sources()),
		Rules:   h.reg.RuleCount(),
	})
}

// --- helpers ---

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}

// cors is a simple CORS middleware for browser-based clients.
func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

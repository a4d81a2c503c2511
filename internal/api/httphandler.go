package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"hsforms/internal/backends/memory"
	"hsforms/internal/hubspot"
	"hsforms/internal/ports"
	"hsforms/internal/types"

	"github.com/goccy/go-json"
	log "github.com/sirupsen/logrus"
)

const (
	settingsCacheKey = "settings"
	settingsCacheTTL = 30 * time.Second
)

type Handler struct {
	SettingsStore ports.SettingsStore
	Cache         ports.Cache
	Options       hubspot.Options

	// settingsCache is a small TTL cache that avoids a store read per request.
	settingsCache *memory.TTL[string, types.Settings]
	// newService builds the per-request service; swapped in tests.
	newService func(types.Settings) *hubspot.Service
}

func NewHandler(st ports.SettingsStore, cache ports.Cache, opts hubspot.Options) *Handler {
	h := &Handler{
		SettingsStore: st,
		Cache:         cache,
		Options:       opts,
		settingsCache: memory.NewTTL[string, types.Settings](),
	}
	h.newService = func(settings types.Settings) *hubspot.Service {
		return hubspot.NewServiceFromSettings(settings, h.Cache, h.Options)
	}
	return h
}

func (h *Handler) Router() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/forms", h.get(h.handleForms))
	mux.HandleFunc("/portal", h.get(h.handlePortal))
	mux.HandleFunc("/forms-url", h.get(h.handleFormsURL))
	mux.HandleFunc("/settings/valid", h.get(h.handleSettingsValid))
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return mux
}

// get rejects anything but GET.
func (h *Handler) get(fn http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		fn(w, r)
	}
}

func (h *Handler) handleForms(w http.ResponseWriter, r *http.Request) {
	svc, ok := h.service(w, r)
	if !ok {
		return
	}
	var forms types.Forms
	if refresh, _ := strconv.ParseBool(r.URL.Query().Get("refresh")); refresh {
		forms = svc.RefreshForms(r.Context())
	} else {
		forms = svc.ListForms(r.Context())
	}
	h.reply(w, http.StatusOK, map[string]any{"forms": forms})
}

func (h *Handler) handlePortal(w http.ResponseWriter, r *http.Request) {
	svc, ok := h.service(w, r)
	if !ok {
		return
	}
	id, found := svc.PortalID(r.Context(), "")
	if !found {
		h.reply(w, http.StatusNotFound, map[string]any{"error": "portal id unavailable"})
		return
	}
	h.reply(w, http.StatusOK, map[string]any{"portal_id": id})
}

func (h *Handler) handleFormsURL(w http.ResponseWriter, r *http.Request) {
	svc, ok := h.service(w, r)
	if !ok {
		return
	}
	h.reply(w, http.StatusOK, map[string]any{"url": svc.FormsURL(r.Context())})
}

func (h *Handler) handleSettingsValid(w http.ResponseWriter, r *http.Request) {
	settings, err := h.loadCachedSettings(r.Context())
	if err != nil && !errors.Is(err, types.ErrNotFound) {
		log.WithError(err).Error("failed to load settings")
		http.Error(w, "settings unavailable", http.StatusInternalServerError)
		return
	}
	valid := h.newService(settings).HasValidSettings()
	h.reply(w, http.StatusOK, map[string]any{"valid": valid})
}

// service builds a Service from the current settings, answering the request itself
// when no settings are available.
func (h *Handler) service(w http.ResponseWriter, r *http.Request) (*hubspot.Service, bool) {
	settings, err := h.loadCachedSettings(r.Context())
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			http.Error(w, "settings not configured", http.StatusServiceUnavailable)
			return nil, false
		}
		log.WithError(err).Error("failed to load settings")
		http.Error(w, "settings unavailable", http.StatusInternalServerError)
		return nil, false
	}
	return h.newService(settings), true
}

// loadCachedSettings loads settings from cache or store.
func (h *Handler) loadCachedSettings(ctx context.Context) (types.Settings, error) {
	if v, ok := h.settingsCache.Get(settingsCacheKey); ok {
		return v, nil
	}
	settings, err := h.SettingsStore.GetSettings(ctx)
	if err != nil {
		return types.Settings{}, err
	}
	h.settingsCache.Set(settingsCacheKey, settings, settingsCacheTTL)
	return settings, nil
}

func (h *Handler) reply(w http.ResponseWriter, code int, v any) {
	if err := writeJSON(w, code, v); err != nil {
		log.WithError(err).Error("failed to write response")
	}
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, code int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	return json.NewEncoder(w).Encode(v)
}

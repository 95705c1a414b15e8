package monitor

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/hazyhaar/proofwatch/provider"
	"github.com/hazyhaar/proofwatch/settings"
)

// AdminRouter serves the local admin surface: health, live session state,
// and the settings the status gate reads.
func (m *Monitor) AdminRouter() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Get("/status", m.handleStatus)
	r.Get("/providers", m.handleProviders)
	r.Put("/settings/{key}", m.handleSetSetting)

	return r
}

func (m *Monitor) handleStatus(w http.ResponseWriter, r *http.Request) {
	st, err := m.Status(r.Context())
	if err != nil {
		jsonErr(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]any{
		"status":  st,
		"session": m.Snapshot(),
	})
}

func (m *Monitor) handleProviders(w http.ResponseWriter, _ *http.Request) {
	names := provider.Names()
	out := make([]provider.Metadata, 0, len(names))
	for _, n := range names {
		if meta, ok := provider.Lookup(n); ok {
			out = append(out, meta)
		}
	}
	writeJSON(w, out)
}

// handleSetSetting accepts the well-known keys only; everything else is a
// client error, not a silent write.
func (m *Monitor) handleSetSetting(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	switch key {
	case settings.KeyEnabled, settings.KeyProvider, settings.KeyAPIKey, settings.KeyModel:
	default:
		jsonErr(w, "unknown setting key", http.StatusBadRequest)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 4*1024)
	var req struct {
		Value string `json:"value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonErr(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := m.store.Set(r.Context(), key, req.Value); err != nil {
		jsonErr(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]string{"status": "ok", "key": key})
}

// ServeAdmin runs the admin HTTP server until ctx is cancelled.
func (m *Monitor) ServeAdmin(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: m.AdminRouter()}

	go func() {
		<-ctx.Done()
		srv.Shutdown(context.Background())
	}()

	m.logger.Info("monitor: admin listening", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func jsonErr(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

// Package handlers implements the HTTP API surface of the storefront.
package handlers

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"thunder-recargas/internal/listing"
	"thunder-recargas/internal/metrics"
	"thunder-recargas/internal/repo"
	"thunder-recargas/internal/siteconfig"
)

// Handler carries the dependencies shared by every route.
type Handler struct {
	store         repo.Store // nil while the store never connected
	cache         *siteconfig.Cache
	logger        *slog.Logger
	metrics       *metrics.Metrics
	adminPassword string
	startTime     time.Time
}

// New builds the handler set. A nil store marks the backend as disconnected:
// public reads degrade to defaults and everything requiring persistence
// answers 503.
func New(store repo.Store, cache *siteconfig.Cache, logger *slog.Logger, m *metrics.Metrics, adminPassword string) *Handler {
	return &Handler{
		store:         store,
		cache:         cache,
		logger:        logger.With("component", "handlers"),
		metrics:       m,
		adminPassword: adminPassword,
		startTime:     time.Now(),
	}
}

// Register mounts every route on the mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", h.handleRoot)
	mux.HandleFunc("GET /health", h.handleHealth)
	mux.HandleFunc("GET /wakeup", h.handleWakeup)

	mux.HandleFunc("GET /api/config", h.handleGetConfig)
	mux.Handle("PUT /api/admin/config", h.admin(h.handleUpdateConfig))

	mux.HandleFunc("POST /api/recarregar", h.handleRecharge)
	mux.Handle("GET /api/admin/recargas", h.admin(h.handleListRecargas))
	mux.Handle("POST /api/admin/recargas", h.admin(h.handleCreateRecarga))
	mux.Handle("PUT /api/admin/recargas/{id}", h.admin(h.handleUpdateRecarga))
	mux.Handle("DELETE /api/admin/recargas/{id}", h.admin(h.handleDeleteRecarga))

	mux.Handle("GET /api/admin/dashboard", h.admin(h.handleDashboard))
	mux.Handle("GET /api/admin/export", h.admin(h.handleExport))

	mux.HandleFunc("GET /api/produtos", h.handlePublicProdutos)
	mux.HandleFunc("GET /api/categorias", h.handlePublicCategorias)
	mux.HandleFunc("POST /api/pedidos", h.handleCreatePedido)

	mux.Handle("GET /api/admin/produtos", h.admin(h.handleListProdutos))
	mux.Handle("POST /api/admin/produtos", h.admin(h.handleCreateProduto))
	mux.Handle("PUT /api/admin/produtos/{id}", h.admin(h.handleUpdateProduto))
	mux.Handle("DELETE /api/admin/produtos/{id}", h.admin(h.handleDeleteProduto))

	mux.Handle("GET /api/admin/categorias", h.admin(h.handleListCategorias))
	mux.Handle("POST /api/admin/categorias", h.admin(h.handleCreateCategoria))
	mux.Handle("PUT /api/admin/categorias/{id}", h.admin(h.handleUpdateCategoria))
	mux.Handle("DELETE /api/admin/categorias/{id}", h.admin(h.handleDeleteCategoria))

	mux.Handle("GET /api/admin/pedidos", h.admin(h.handleListPedidos))
	mux.Handle("PUT /api/admin/pedidos/{id}", h.admin(h.handleUpdatePedido))
	mux.Handle("DELETE /api/admin/pedidos/{id}", h.admin(h.handleDeletePedido))
}

// admin guards a route with the shared-secret Authorization header.
func (h *Handler) admin(next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		if h.adminPassword == "" || subtle.ConstantTimeCompare([]byte(auth), []byte(h.adminPassword)) != 1 {
			writeMessage(w, http.StatusUnauthorized, "Acesso negado.")
			return
		}
		next(w, r)
	})
}

func (h *Handler) disconnected() bool {
	return h.store == nil
}

func (h *Handler) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"service":   "Thunder Recargas API",
		"version":   "2.0",
		"status":    "online",
		"timestamp": time.Now().In(listing.Zone()).Format(time.RFC3339),
	})
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	dbStatus := "connected"
	if h.disconnected() {
		dbStatus = "disconnected"
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "awake",
		"timestamp": time.Now().In(listing.Zone()).Format(time.RFC3339),
		"service":   "thunder-recargas",
		"database":  dbStatus,
		"uptime":    time.Since(h.startTime).Seconds(),
	})
}

func (h *Handler) handleWakeup(w http.ResponseWriter, r *http.Request) {
	dbStatus := "connected"
	if h.disconnected() {
		dbStatus = "disconnected"
	} else if err := h.store.Ping(r.Context()); err != nil {
		dbStatus = "disconnected"
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "awake",
		"message":   "Servidor ativado com sucesso",
		"timestamp": time.Now().In(listing.Zone()).Format(time.RFC3339),
		"database":  dbStatus,
	})
}

func writeJSON(w http.ResponseWriter, code int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Headers are gone; nothing left to do but note it.
		slog.Default().Error("encode response", "error", err)
	}
}

func writeMessage(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"message": msg})
}

// storeError converts a store failure into the response the admin panel
// expects: 404 for unknown ids, 500 otherwise.
func (h *Handler) storeError(w http.ResponseWriter, err error, notFoundMsg, genericMsg string) {
	if errors.Is(err, repo.ErrNotFound) {
		writeMessage(w, http.StatusNotFound, notFoundMsg)
		return
	}
	h.logger.Error("store operation failed", "error", err)
	if h.metrics != nil {
		h.metrics.Errors.WithLabelValues("handlers").Inc()
	}
	writeMessage(w, http.StatusInternalServerError, genericMsg)
}

func decodeBody(r *http.Request, dst any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(dst)
}

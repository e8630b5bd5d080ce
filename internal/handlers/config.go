package handlers

import (
	"encoding/json"
	"net/http"
)

// handleGetConfig serves the storefront configuration through the cache.
// It never fails: the cache degrades to the compiled-in default.
func (h *Handler) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(h.cache.Get(r.Context()))
}

// handleUpdateConfig persists the admin-edited configuration blob.
func (h *Handler) handleUpdateConfig(w http.ResponseWriter, r *http.Request) {
	var body json.RawMessage
	if err := decodeBody(r, &body); err != nil || len(body) == 0 {
		writeMessage(w, http.StatusBadRequest, "Configuração inválida.")
		return
	}

	if err := h.cache.Put(r.Context(), body); err != nil {
		h.logger.Error("config save failed", "error", err)
		writeMessage(w, http.StatusInternalServerError, "Erro ao salvar configurações.")
		return
	}
	writeMessage(w, http.StatusOK, "Configurações salvas com sucesso!")
}

package handlers

import (
	"net/http"
	"time"

	"thunder-recargas/internal/listing"
	"thunder-recargas/internal/repo"
)

type rechargeRequest struct {
	Nome               string `json:"nome"`
	Telefone           string `json:"telefone"`
	Operadora          string `json:"operadora"`
	RecargaSelecionada string `json:"recarga_selecionada"`
	SenhaTim           string `json:"senha_tim"`
	SenhaVivo          string `json:"senha_vivo"`
	SenhaClaro         string `json:"senha_claro"`
}

func (req rechargeRequest) senha() string {
	switch {
	case req.SenhaTim != "":
		return req.SenhaTim
	case req.SenhaVivo != "":
		return req.SenhaVivo
	default:
		return req.SenhaClaro
	}
}

// handleRecharge is the public order submission endpoint.
func (h *Handler) handleRecharge(w http.ResponseWriter, r *http.Request) {
	var req rechargeRequest
	if err := decodeBody(r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Corpo da requisição inválido.")
		return
	}

	if _, ok := repo.ParseOperator(req.Operadora); !ok {
		writeMessage(w, http.StatusBadRequest, "Operadora inválida.")
		return
	}

	if h.disconnected() {
		writeMessage(w, http.StatusServiceUnavailable, "Sistema temporariamente indisponível. Tente novamente em alguns segundos.")
		return
	}

	now := time.Now().In(listing.Zone())
	_, err := h.store.InsertRecarga(r.Context(), repo.Recarga{
		Timestamp:          now,
		Nome:               req.Nome,
		Telefone:           req.Telefone,
		Operadora:          req.Operadora,
		RecargaSelecionada: req.RecargaSelecionada,
		SenhaApp:           req.senha(),
		Status:             repo.RechargeQueued,
		CreatedAt:          now,
	})
	if err != nil {
		h.logger.Error("recharge insert failed", "error", err)
		writeMessage(w, http.StatusInternalServerError, "Erro no servidor. Por favor, tente novamente.")
		return
	}

	if h.metrics != nil {
		h.metrics.OrdersCreated.WithLabelValues("recarga").Inc()
	}
	writeMessage(w, http.StatusCreated, "Sua solicitação foi registrada com sucesso!")
}

// handleListRecargas serves the filtered, paginated admin listing.
func (h *Handler) handleListRecargas(w http.ResponseWriter, r *http.Request) {
	if h.disconnected() {
		writeMessage(w, http.StatusInternalServerError, "Banco de dados não conectado.")
		return
	}

	f := listing.FromQuery(r.URL.Query())
	rows, total, err := h.store.ListRecargas(r.Context(), f)
	if err != nil {
		h.logger.Error("list recargas failed", "error", err)
		writeMessage(w, http.StatusInternalServerError, "Falha ao buscar dados.")
		return
	}
	writeJSON(w, http.StatusOK, listing.NewResult(rows, total, f))
}

// handleCreateRecarga lets the admin register an order manually.
func (h *Handler) handleCreateRecarga(w http.ResponseWriter, r *http.Request) {
	if h.disconnected() {
		writeMessage(w, http.StatusInternalServerError, "Banco de dados não conectado.")
		return
	}

	var rec repo.Recarga
	if err := decodeBody(r, &rec); err != nil {
		writeMessage(w, http.StatusBadRequest, "Corpo da requisição inválido.")
		return
	}
	if _, ok := repo.ParseOperator(rec.Operadora); !ok {
		writeMessage(w, http.StatusBadRequest, "Operadora inválida.")
		return
	}
	if rec.Status == "" {
		rec.Status = repo.RechargeQueued
	} else if !repo.ValidRechargeStatus(rec.Status) {
		writeMessage(w, http.StatusBadRequest, "Status inválido.")
		return
	}

	now := time.Now().In(listing.Zone())
	rec.Timestamp = now
	rec.CreatedAt = now

	inserted, err := h.store.InsertRecarga(r.Context(), rec)
	if err != nil {
		h.logger.Error("admin recharge insert failed", "error", err)
		writeMessage(w, http.StatusInternalServerError, "Falha ao criar recarga.")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "Novo pedido adicionado com sucesso!",
		"recarga": inserted,
	})
}

// handleUpdateRecarga applies a privileged partial update.
func (h *Handler) handleUpdateRecarga(w http.ResponseWriter, r *http.Request) {
	if h.disconnected() {
		writeMessage(w, http.StatusInternalServerError, "Banco de dados não conectado.")
		return
	}

	var upd repo.RecargaUpdate
	if err := decodeBody(r, &upd); err != nil {
		writeMessage(w, http.StatusBadRequest, "Corpo da requisição inválido.")
		return
	}
	if upd.Status != nil && !repo.ValidRechargeStatus(*upd.Status) {
		writeMessage(w, http.StatusBadRequest, "Status inválido.")
		return
	}
	if upd.Operadora != nil {
		if _, ok := repo.ParseOperator(*upd.Operadora); !ok {
			writeMessage(w, http.StatusBadRequest, "Operadora inválida.")
			return
		}
	}

	updated, err := h.store.UpdateRecarga(r.Context(), r.PathValue("id"), upd)
	if err != nil {
		h.storeError(w, err, "Recarga com este ID não foi encontrada.", "Falha ao atualizar a recarga.")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Recarga atualizada com sucesso!",
		"recarga": updated,
	})
}

// handleDeleteRecarga removes an order.
func (h *Handler) handleDeleteRecarga(w http.ResponseWriter, r *http.Request) {
	if h.disconnected() {
		writeMessage(w, http.StatusInternalServerError, "Banco de dados não conectado.")
		return
	}

	if err := h.store.DeleteRecarga(r.Context(), r.PathValue("id")); err != nil {
		h.storeError(w, err, "Recarga com este ID não foi encontrada.", "Falha ao excluir a recarga.")
		return
	}
	writeMessage(w, http.StatusOK, "Recarga excluída com sucesso!")
}

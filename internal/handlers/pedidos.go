package handlers

import (
	"math"
	"net/http"
	"strings"
	"time"

	"thunder-recargas/internal/listing"
	"thunder-recargas/internal/repo"
	"thunder-recargas/internal/tracking"
)

type pedidoRequest struct {
	Nome        string `json:"nome"`
	Telefone    string `json:"telefone"`
	ProdutoID   string `json:"produto_id"`
	Quantidade  int    `json:"quantidade"`
	Endereco    string `json:"endereco"`
	Observacoes string `json:"observacoes"`
}

// handleCreatePedido is the public product-order submission endpoint. It
// validates the product, computes the total and assigns a tracking code.
func (h *Handler) handleCreatePedido(w http.ResponseWriter, r *http.Request) {
	var req pedidoRequest
	if err := decodeBody(r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Corpo da requisição inválido.")
		return
	}
	if strings.TrimSpace(req.Nome) == "" || strings.TrimSpace(req.ProdutoID) == "" {
		writeMessage(w, http.StatusBadRequest, "Nome e produto são obrigatórios.")
		return
	}
	if req.Quantidade <= 0 {
		req.Quantidade = 1
	}

	if h.disconnected() {
		writeMessage(w, http.StatusServiceUnavailable, "Sistema temporariamente indisponível. Tente novamente em alguns segundos.")
		return
	}

	produto, err := h.store.GetProduto(r.Context(), req.ProdutoID)
	if err != nil {
		h.storeError(w, err, "Produto não encontrado.", "Erro no servidor. Por favor, tente novamente.")
		return
	}
	if !produto.Ativo {
		writeMessage(w, http.StatusBadRequest, "Produto indisponível.")
		return
	}
	if produto.Estoque < req.Quantidade {
		writeMessage(w, http.StatusBadRequest, "Estoque insuficiente.")
		return
	}

	now := time.Now().In(listing.Zone())
	total := math.Round(produto.Preco*float64(req.Quantidade)*100) / 100

	inserted, err := h.store.InsertPedido(r.Context(), repo.Pedido{
		Timestamp:      now,
		CodigoRastreio: tracking.NewCode(),
		Nome:           req.Nome,
		Telefone:       req.Telefone,
		ProdutoID:      produto.ID,
		Quantidade:     req.Quantidade,
		Total:          total,
		Endereco:       req.Endereco,
		Observacoes:    req.Observacoes,
		Status:         repo.PedidoQueued,
		CreatedAt:      now,
	})
	if err != nil {
		h.logger.Error("pedido insert failed", "error", err)
		writeMessage(w, http.StatusInternalServerError, "Erro no servidor. Por favor, tente novamente.")
		return
	}

	if h.metrics != nil {
		h.metrics.OrdersCreated.WithLabelValues("pedido").Inc()
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"message":         "Seu pedido foi registrado com sucesso!",
		"codigo_rastreio": inserted.CodigoRastreio,
		"pedido":          inserted,
	})
}

// handleListPedidos serves the filtered, paginated admin listing.
func (h *Handler) handleListPedidos(w http.ResponseWriter, r *http.Request) {
	if h.disconnected() {
		writeMessage(w, http.StatusInternalServerError, "Banco de dados não conectado.")
		return
	}

	f := listing.FromQuery(r.URL.Query())
	rows, total, err := h.store.ListPedidos(r.Context(), f)
	if err != nil {
		h.logger.Error("list pedidos failed", "error", err)
		writeMessage(w, http.StatusInternalServerError, "Falha ao buscar dados.")
		return
	}
	writeJSON(w, http.StatusOK, listing.NewResult(rows, total, f))
}

// handleUpdatePedido applies a privileged partial update.
func (h *Handler) handleUpdatePedido(w http.ResponseWriter, r *http.Request) {
	if h.disconnected() {
		writeMessage(w, http.StatusInternalServerError, "Banco de dados não conectado.")
		return
	}

	var upd repo.PedidoUpdate
	if err := decodeBody(r, &upd); err != nil {
		writeMessage(w, http.StatusBadRequest, "Corpo da requisição inválido.")
		return
	}
	if upd.Status != nil && !repo.ValidPedidoStatus(*upd.Status) {
		writeMessage(w, http.StatusBadRequest, "Status inválido.")
		return
	}

	updated, err := h.store.UpdatePedido(r.Context(), r.PathValue("id"), upd)
	if err != nil {
		h.storeError(w, err, "Pedido com este ID não foi encontrado.", "Falha ao atualizar o pedido.")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Pedido atualizado com sucesso!",
		"pedido":  updated,
	})
}

// handleDeletePedido removes a product order.
func (h *Handler) handleDeletePedido(w http.ResponseWriter, r *http.Request) {
	if h.disconnected() {
		writeMessage(w, http.StatusInternalServerError, "Banco de dados não conectado.")
		return
	}

	if err := h.store.DeletePedido(r.Context(), r.PathValue("id")); err != nil {
		h.storeError(w, err, "Pedido com este ID não foi encontrado.", "Falha ao excluir o pedido.")
		return
	}
	writeMessage(w, http.StatusOK, "Pedido excluído com sucesso!")
}

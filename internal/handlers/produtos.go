package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"thunder-recargas/internal/listing"
	"thunder-recargas/internal/repo"
)

type produtoRequest struct {
	Nome        string      `json:"nome"`
	Descricao   string      `json:"descricao"`
	Preco       json.Number `json:"preco"`
	CategoriaID string      `json:"categoria_id"`
	Ativo       *bool       `json:"ativo"`
	Destaque    bool        `json:"destaque"`
	Estoque     int         `json:"estoque"`
	Imagem      string      `json:"imagem"`
}

// validate turns the request into a Produto, enforcing the boundary rules:
// non-empty name and a price that parses as a non-negative number.
func (req produtoRequest) validate() (repo.Produto, string) {
	nome := strings.TrimSpace(req.Nome)
	if nome == "" {
		return repo.Produto{}, "Nome do produto é obrigatório."
	}
	preco, err := strconv.ParseFloat(req.Preco.String(), 64)
	if err != nil || preco < 0 {
		return repo.Produto{}, "Preço inválido."
	}
	if req.Estoque < 0 {
		return repo.Produto{}, "Estoque inválido."
	}

	ativo := true
	if req.Ativo != nil {
		ativo = *req.Ativo
	}
	return repo.Produto{
		Nome:        nome,
		Descricao:   req.Descricao,
		Preco:       preco,
		CategoriaID: req.CategoriaID,
		Ativo:       ativo,
		Destaque:    req.Destaque,
		Estoque:     req.Estoque,
		Imagem:      req.Imagem,
	}, ""
}

// handlePublicProdutos lists active products for the storefront.
func (h *Handler) handlePublicProdutos(w http.ResponseWriter, r *http.Request) {
	if h.disconnected() {
		writeMessage(w, http.StatusServiceUnavailable, "Sistema temporariamente indisponível.")
		return
	}

	f := listing.FromQuery(r.URL.Query())
	rows, total, err := h.store.ListProdutos(r.Context(), f, true)
	if err != nil {
		h.logger.Error("list produtos failed", "error", err)
		writeMessage(w, http.StatusInternalServerError, "Falha ao buscar produtos.")
		return
	}
	writeJSON(w, http.StatusOK, listing.NewResult(rows, total, f))
}

// handleListProdutos lists all products, inactive included, for the admin.
func (h *Handler) handleListProdutos(w http.ResponseWriter, r *http.Request) {
	if h.disconnected() {
		writeMessage(w, http.StatusInternalServerError, "Banco de dados não conectado.")
		return
	}

	f := listing.FromQuery(r.URL.Query())
	rows, total, err := h.store.ListProdutos(r.Context(), f, false)
	if err != nil {
		h.logger.Error("admin list produtos failed", "error", err)
		writeMessage(w, http.StatusInternalServerError, "Falha ao buscar produtos.")
		return
	}
	writeJSON(w, http.StatusOK, listing.NewResult(rows, total, f))
}

func (h *Handler) handleCreateProduto(w http.ResponseWriter, r *http.Request) {
	if h.disconnected() {
		writeMessage(w, http.StatusInternalServerError, "Banco de dados não conectado.")
		return
	}

	var req produtoRequest
	if err := decodeBody(r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Corpo da requisição inválido.")
		return
	}
	produto, problem := req.validate()
	if problem != "" {
		writeMessage(w, http.StatusBadRequest, problem)
		return
	}

	inserted, err := h.store.InsertProduto(r.Context(), produto)
	if err != nil {
		h.storeError(w, err, "Categoria não encontrada.", "Falha ao criar produto.")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "Produto criado com sucesso!",
		"produto": inserted,
	})
}

func (h *Handler) handleUpdateProduto(w http.ResponseWriter, r *http.Request) {
	if h.disconnected() {
		writeMessage(w, http.StatusInternalServerError, "Banco de dados não conectado.")
		return
	}

	var req produtoRequest
	if err := decodeBody(r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Corpo da requisição inválido.")
		return
	}
	produto, problem := req.validate()
	if problem != "" {
		writeMessage(w, http.StatusBadRequest, problem)
		return
	}

	updated, err := h.store.UpdateProduto(r.Context(), r.PathValue("id"), produto)
	if err != nil {
		h.storeError(w, err, "Produto não encontrado.", "Falha ao atualizar produto.")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Produto atualizado com sucesso!",
		"produto": updated,
	})
}

// handleDeleteProduto soft-deletes: the row stays, the active flag flips.
func (h *Handler) handleDeleteProduto(w http.ResponseWriter, r *http.Request) {
	if h.disconnected() {
		writeMessage(w, http.StatusInternalServerError, "Banco de dados não conectado.")
		return
	}

	if err := h.store.DeactivateProduto(r.Context(), r.PathValue("id")); err != nil {
		h.storeError(w, err, "Produto não encontrado.", "Falha ao remover produto.")
		return
	}
	writeMessage(w, http.StatusOK, "Produto removido com sucesso!")
}

// handlePublicCategorias lists active categories for the storefront.
func (h *Handler) handlePublicCategorias(w http.ResponseWriter, r *http.Request) {
	if h.disconnected() {
		writeMessage(w, http.StatusServiceUnavailable, "Sistema temporariamente indisponível.")
		return
	}

	rows, err := h.store.ListCategorias(r.Context(), true)
	if err != nil {
		h.logger.Error("list categorias failed", "error", err)
		writeMessage(w, http.StatusInternalServerError, "Falha ao buscar categorias.")
		return
	}
	if rows == nil {
		rows = []repo.Categoria{}
	}
	writeJSON(w, http.StatusOK, rows)
}

func (h *Handler) handleListCategorias(w http.ResponseWriter, r *http.Request) {
	if h.disconnected() {
		writeMessage(w, http.StatusInternalServerError, "Banco de dados não conectado.")
		return
	}

	rows, err := h.store.ListCategorias(r.Context(), false)
	if err != nil {
		h.logger.Error("admin list categorias failed", "error", err)
		writeMessage(w, http.StatusInternalServerError, "Falha ao buscar categorias.")
		return
	}
	if rows == nil {
		rows = []repo.Categoria{}
	}
	writeJSON(w, http.StatusOK, rows)
}

type categoriaRequest struct {
	Nome      string `json:"nome"`
	Descricao string `json:"descricao"`
	Ativo     *bool  `json:"ativo"`
}

func (req categoriaRequest) validate() (repo.Categoria, string) {
	nome := strings.TrimSpace(req.Nome)
	if nome == "" {
		return repo.Categoria{}, "Nome da categoria é obrigatório."
	}
	ativo := true
	if req.Ativo != nil {
		ativo = *req.Ativo
	}
	return repo.Categoria{Nome: nome, Descricao: req.Descricao, Ativo: ativo}, ""
}

func (h *Handler) handleCreateCategoria(w http.ResponseWriter, r *http.Request) {
	if h.disconnected() {
		writeMessage(w, http.StatusInternalServerError, "Banco de dados não conectado.")
		return
	}

	var req categoriaRequest
	if err := decodeBody(r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Corpo da requisição inválido.")
		return
	}
	categoria, problem := req.validate()
	if problem != "" {
		writeMessage(w, http.StatusBadRequest, problem)
		return
	}

	inserted, err := h.store.InsertCategoria(r.Context(), categoria)
	if err != nil {
		h.logger.Error("insert categoria failed", "error", err)
		writeMessage(w, http.StatusInternalServerError, "Falha ao criar categoria.")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"message":   "Categoria criada com sucesso!",
		"categoria": inserted,
	})
}

func (h *Handler) handleUpdateCategoria(w http.ResponseWriter, r *http.Request) {
	if h.disconnected() {
		writeMessage(w, http.StatusInternalServerError, "Banco de dados não conectado.")
		return
	}

	var req categoriaRequest
	if err := decodeBody(r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Corpo da requisição inválido.")
		return
	}
	categoria, problem := req.validate()
	if problem != "" {
		writeMessage(w, http.StatusBadRequest, problem)
		return
	}

	updated, err := h.store.UpdateCategoria(r.Context(), r.PathValue("id"), categoria)
	if err != nil {
		if errors.Is(err, repo.ErrCategoryInUse) {
			writeMessage(w, http.StatusConflict, "Categoria possui produtos ativos e não pode ser desativada.")
			return
		}
		h.storeError(w, err, "Categoria não encontrada.", "Falha ao atualizar categoria.")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message":   "Categoria atualizada com sucesso!",
		"categoria": updated,
	})
}

// handleDeleteCategoria soft-deletes, guarded against active products.
func (h *Handler) handleDeleteCategoria(w http.ResponseWriter, r *http.Request) {
	if h.disconnected() {
		writeMessage(w, http.StatusInternalServerError, "Banco de dados não conectado.")
		return
	}

	if err := h.store.DeactivateCategoria(r.Context(), r.PathValue("id")); err != nil {
		if errors.Is(err, repo.ErrCategoryInUse) {
			writeMessage(w, http.StatusConflict, "Categoria possui produtos ativos e não pode ser desativada.")
			return
		}
		h.storeError(w, err, "Categoria não encontrada.", "Falha ao remover categoria.")
		return
	}
	writeMessage(w, http.StatusOK, "Categoria removida com sucesso!")
}

package ghstore

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"thunder-recargas/internal/listing"
	"thunder-recargas/internal/metrics"
	"thunder-recargas/internal/repo"
)

// Collection blob paths inside the backing repository.
const (
	configPath     = "data/config.json"
	recargasPath   = "data/recargas.json"
	pedidosPath    = "data/pedidos.json"
	produtosPath   = "data/produtos.json"
	categoriasPath = "data/categorias.json"
)

var _ repo.Store = (*Store)(nil)

// Store persists every collection as a JSON array blob, committing the whole
// collection on each mutation. Adequate for the low volumes the fallback mode
// exists for.
type Store struct {
	client *Client
	logger *slog.Logger

	// writeMu serializes mutations so two local writers do not burn a commit
	// on a guaranteed sha conflict.
	writeMu sync.Mutex
}

// New builds the fallback store.
func New(cfg Config, logger *slog.Logger, m *metrics.Metrics) *Store {
	return &Store{
		client: NewClient(cfg, logger, m),
		logger: logger.With("component", "ghstore"),
	}
}

// Close is a no-op; the store holds no connections.
func (s *Store) Close() {}

// Ping verifies the backing repository is reachable.
func (s *Store) Ping(ctx context.Context) error {
	_, _, err := s.client.GetFile(ctx, configPath)
	return err
}

// newID returns a client-generated millisecond timestamp id.
func newID() string {
	return strconv.FormatInt(time.Now().UnixMilli(), 10)
}

func loadAll[T any](ctx context.Context, c *Client, path string) ([]T, string, error) {
	raw, sha, err := c.GetFile(ctx, path)
	if err != nil {
		return nil, "", err
	}
	if len(raw) == 0 {
		return nil, sha, nil
	}
	var items []T
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, "", fmt.Errorf("decode %s: %w", path, err)
	}
	return items, sha, nil
}

func saveAll[T any](ctx context.Context, c *Client, path string, items []T, sha, message string) error {
	raw, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if _, err := c.PutFile(ctx, path, raw, sha, message); err != nil {
		return err
	}
	return nil
}

// --- Config singleton ---

type configDoc struct {
	Data      json.RawMessage `json:"data"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// GetConfig reads the configuration singleton blob.
func (s *Store) GetConfig(ctx context.Context) (json.RawMessage, error) {
	raw, _, err := s.client.GetFile(ctx, configPath)
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, repo.ErrNotFound
	}
	var doc configDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return doc.Data, nil
}

// UpsertConfig writes the configuration singleton blob.
func (s *Store) UpsertConfig(ctx context.Context, data json.RawMessage, updatedAt time.Time) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	_, sha, err := s.client.GetFile(ctx, configPath)
	if err != nil {
		return err
	}
	raw, err := json.MarshalIndent(configDoc{Data: data, UpdatedAt: updatedAt}, "", "  ")
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	_, err = s.client.PutFile(ctx, configPath, raw, sha, "update site config")
	return err
}

// --- Recharge orders ---

// InsertRecarga appends a recharge order with a client-generated id.
func (s *Store) InsertRecarga(ctx context.Context, r repo.Recarga) (*repo.Recarga, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	items, sha, err := loadAll[repo.Recarga](ctx, s.client, recargasPath)
	if err != nil {
		return nil, err
	}
	r.ID = newID()
	r.CreatedAt = r.Timestamp
	items = append(items, r)
	if err := saveAll(ctx, s.client, recargasPath, items, sha, "add recarga "+r.ID); err != nil {
		return nil, err
	}
	return &r, nil
}

// ListRecargas filters and paginates recharge orders in memory.
func (s *Store) ListRecargas(ctx context.Context, f listing.Filter) ([]repo.Recarga, int, error) {
	items, _, err := loadAll[repo.Recarga](ctx, s.client, recargasPath)
	if err != nil {
		return nil, 0, err
	}
	page, total := listing.Apply(items, f, time.Now())
	return page, total, nil
}

// AllRecargas returns every recharge order, most recent first.
func (s *Store) AllRecargas(ctx context.Context) ([]repo.Recarga, error) {
	items, _, err := loadAll[repo.Recarga](ctx, s.client, recargasPath)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].Timestamp.After(items[j].Timestamp) })
	return items, nil
}

// UpdateRecarga applies the non-nil fields of upd to the targeted order.
func (s *Store) UpdateRecarga(ctx context.Context, id string, upd repo.RecargaUpdate) (*repo.Recarga, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	items, sha, err := loadAll[repo.Recarga](ctx, s.client, recargasPath)
	if err != nil {
		return nil, err
	}
	idx := -1
	for i := range items {
		if items[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, repo.ErrNotFound
	}

	r := &items[idx]
	applyString(&r.Nome, upd.Nome)
	applyString(&r.Telefone, upd.Telefone)
	applyString(&r.Operadora, upd.Operadora)
	applyString(&r.RecargaSelecionada, upd.RecargaSelecionada)
	applyString(&r.Status, upd.Status)
	applyString(&r.AdminComment, upd.AdminComment)

	if err := saveAll(ctx, s.client, recargasPath, items, sha, "update recarga "+id); err != nil {
		return nil, err
	}
	out := *r
	return &out, nil
}

// DeleteRecarga removes a recharge order.
func (s *Store) DeleteRecarga(ctx context.Context, id string) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	items, sha, err := loadAll[repo.Recarga](ctx, s.client, recargasPath)
	if err != nil {
		return err
	}
	kept := items[:0]
	for _, r := range items {
		if r.ID != id {
			kept = append(kept, r)
		}
	}
	if len(kept) == len(items) {
		return repo.ErrNotFound
	}
	return saveAll(ctx, s.client, recargasPath, kept, sha, "delete recarga "+id)
}

// RechargeDashboard aggregates counts over the whole collection.
func (s *Store) RechargeDashboard(ctx context.Context) (*repo.DashboardData, error) {
	items, _, err := loadAll[repo.Recarga](ctx, s.client, recargasPath)
	if err != nil {
		return nil, err
	}
	data := repo.EmptyDashboard()
	data.Total = len(items)
	for _, r := range items {
		if _, ok := data.StatusCounts[r.Status]; ok {
			data.StatusCounts[r.Status]++
		}
		op := titleCase(r.Operadora)
		if _, ok := data.OperatorCounts[op]; ok {
			data.OperatorCounts[op]++
		}
	}
	data.Variations["total"] = data.Total
	data.Variations["completed"] = data.StatusCounts[repo.RechargeDone]
	data.Variations["pending"] = data.StatusCounts[repo.RechargeQueued] + data.StatusCounts[repo.RechargeProcessing]
	data.Variations["error"] = data.StatusCounts[repo.RechargeError]
	return data, nil
}

// --- Product orders ---

// InsertPedido appends a product order with a client-generated id.
func (s *Store) InsertPedido(ctx context.Context, p repo.Pedido) (*repo.Pedido, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	items, sha, err := loadAll[repo.Pedido](ctx, s.client, pedidosPath)
	if err != nil {
		return nil, err
	}
	p.ID = newID()
	p.CreatedAt = p.Timestamp
	items = append(items, p)
	if err := saveAll(ctx, s.client, pedidosPath, items, sha, "add pedido "+p.ID); err != nil {
		return nil, err
	}
	return &p, nil
}

// ListPedidos filters and paginates product orders in memory.
func (s *Store) ListPedidos(ctx context.Context, f listing.Filter) ([]repo.Pedido, int, error) {
	items, _, err := loadAll[repo.Pedido](ctx, s.client, pedidosPath)
	if err != nil {
		return nil, 0, err
	}
	page, total := listing.Apply(items, f, time.Now())
	return page, total, nil
}

// AllPedidos returns every product order, most recent first.
func (s *Store) AllPedidos(ctx context.Context) ([]repo.Pedido, error) {
	items, _, err := loadAll[repo.Pedido](ctx, s.client, pedidosPath)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].Timestamp.After(items[j].Timestamp) })
	return items, nil
}

// UpdatePedido applies the non-nil fields of upd to the targeted order.
func (s *Store) UpdatePedido(ctx context.Context, id string, upd repo.PedidoUpdate) (*repo.Pedido, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	items, sha, err := loadAll[repo.Pedido](ctx, s.client, pedidosPath)
	if err != nil {
		return nil, err
	}
	idx := -1
	for i := range items {
		if items[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, repo.ErrNotFound
	}

	p := &items[idx]
	applyString(&p.Status, upd.Status)
	applyString(&p.AdminComment, upd.AdminComment)
	applyString(&p.Endereco, upd.Endereco)
	applyString(&p.Observacoes, upd.Observacoes)

	if err := saveAll(ctx, s.client, pedidosPath, items, sha, "update pedido "+id); err != nil {
		return nil, err
	}
	out := *p
	return &out, nil
}

// DeletePedido removes a product order.
func (s *Store) DeletePedido(ctx context.Context, id string) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	items, sha, err := loadAll[repo.Pedido](ctx, s.client, pedidosPath)
	if err != nil {
		return err
	}
	kept := items[:0]
	for _, p := range items {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	if len(kept) == len(items) {
		return repo.ErrNotFound
	}
	return saveAll(ctx, s.client, pedidosPath, kept, sha, "delete pedido "+id)
}

// --- Products ---

// GetProduto fetches a product by id.
func (s *Store) GetProduto(ctx context.Context, id string) (*repo.Produto, error) {
	items, _, err := loadAll[repo.Produto](ctx, s.client, produtosPath)
	if err != nil {
		return nil, err
	}
	for i := range items {
		if items[i].ID == id {
			return &items[i], nil
		}
	}
	return nil, repo.ErrNotFound
}

// InsertProduto appends a product with a client-generated id.
func (s *Store) InsertProduto(ctx context.Context, p repo.Produto) (*repo.Produto, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	items, sha, err := loadAll[repo.Produto](ctx, s.client, produtosPath)
	if err != nil {
		return nil, err
	}
	p.ID = newID()
	p.CreatedAt = time.Now().In(listing.Zone())
	items = append(items, p)
	if err := saveAll(ctx, s.client, produtosPath, items, sha, "add produto "+p.ID); err != nil {
		return nil, err
	}
	return &p, nil
}

// ListProdutos filters and paginates products in memory.
func (s *Store) ListProdutos(ctx context.Context, f listing.Filter, onlyActive bool) ([]repo.Produto, int, error) {
	items, _, err := loadAll[repo.Produto](ctx, s.client, produtosPath)
	if err != nil {
		return nil, 0, err
	}
	if onlyActive {
		active := items[:0]
		for _, p := range items {
			if p.Ativo {
				active = append(active, p)
			}
		}
		items = active
	}
	page, total := listing.Apply(items, f, time.Now())
	return page, total, nil
}

// UpdateProduto replaces the mutable fields of a product.
func (s *Store) UpdateProduto(ctx context.Context, id string, p repo.Produto) (*repo.Produto, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	items, sha, err := loadAll[repo.Produto](ctx, s.client, produtosPath)
	if err != nil {
		return nil, err
	}
	idx := -1
	for i := range items {
		if items[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, repo.ErrNotFound
	}

	p.ID = id
	p.CreatedAt = items[idx].CreatedAt
	items[idx] = p
	if err := saveAll(ctx, s.client, produtosPath, items, sha, "update produto "+id); err != nil {
		return nil, err
	}
	return &p, nil
}

// DeactivateProduto flips the active flag off.
func (s *Store) DeactivateProduto(ctx context.Context, id string) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	items, sha, err := loadAll[repo.Produto](ctx, s.client, produtosPath)
	if err != nil {
		return err
	}
	for i := range items {
		if items[i].ID == id {
			items[i].Ativo = false
			return saveAll(ctx, s.client, produtosPath, items, sha, "deactivate produto "+id)
		}
	}
	return repo.ErrNotFound
}

// --- Categories ---

// ListCategorias returns all categories, optionally only the active ones.
func (s *Store) ListCategorias(ctx context.Context, onlyActive bool) ([]repo.Categoria, error) {
	items, _, err := loadAll[repo.Categoria](ctx, s.client, categoriasPath)
	if err != nil {
		return nil, err
	}
	if onlyActive {
		active := items[:0]
		for _, c := range items {
			if c.Ativo {
				active = append(active, c)
			}
		}
		items = active
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].Nome < items[j].Nome })
	return items, nil
}

// InsertCategoria appends a category with a client-generated id.
func (s *Store) InsertCategoria(ctx context.Context, c repo.Categoria) (*repo.Categoria, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	items, sha, err := loadAll[repo.Categoria](ctx, s.client, categoriasPath)
	if err != nil {
		return nil, err
	}
	c.ID = newID()
	c.CreatedAt = time.Now().In(listing.Zone())
	items = append(items, c)
	if err := saveAll(ctx, s.client, categoriasPath, items, sha, "add categoria "+c.ID); err != nil {
		return nil, err
	}
	return &c, nil
}

// UpdateCategoria replaces the mutable fields of a category, enforcing the
// in-use guard on deactivation.
func (s *Store) UpdateCategoria(ctx context.Context, id string, c repo.Categoria) (*repo.Categoria, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if !c.Ativo {
		if err := s.ensureCategoriaUnused(ctx, id); err != nil {
			return nil, err
		}
	}

	items, sha, err := loadAll[repo.Categoria](ctx, s.client, categoriasPath)
	if err != nil {
		return nil, err
	}
	idx := -1
	for i := range items {
		if items[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, repo.ErrNotFound
	}

	c.ID = id
	c.CreatedAt = items[idx].CreatedAt
	items[idx] = c
	if err := saveAll(ctx, s.client, categoriasPath, items, sha, "update categoria "+id); err != nil {
		return nil, err
	}
	return &c, nil
}

// DeactivateCategoria flips the active flag off, refusing while active
// products still reference the category.
func (s *Store) DeactivateCategoria(ctx context.Context, id string) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if err := s.ensureCategoriaUnused(ctx, id); err != nil {
		return err
	}

	items, sha, err := loadAll[repo.Categoria](ctx, s.client, categoriasPath)
	if err != nil {
		return err
	}
	for i := range items {
		if items[i].ID == id {
			items[i].Ativo = false
			return saveAll(ctx, s.client, categoriasPath, items, sha, "deactivate categoria "+id)
		}
	}
	return repo.ErrNotFound
}

func (s *Store) ensureCategoriaUnused(ctx context.Context, id string) error {
	produtos, _, err := loadAll[repo.Produto](ctx, s.client, produtosPath)
	if err != nil {
		return err
	}
	for _, p := range produtos {
		if p.Ativo && p.CategoriaID == id {
			return repo.ErrCategoryInUse
		}
	}
	return nil
}

func applyString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

func titleCase(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

package repo

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"time"

	"thunder-recargas/internal/listing"
)

// ConfigID is the fixed identity of the configuration singleton. Writes
// always upsert against it; a second row never exists.
const ConfigID = 1

var (
	// ErrNotFound indicates the targeted record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrConflict indicates an optimistic-concurrency version mismatch.
	ErrConflict = errors.New("version conflict")
	// ErrCategoryInUse indicates a category still referenced by active products.
	ErrCategoryInUse = errors.New("category has active products")
)

// Store defines the persistence operations the handlers depend on. The
// Postgres implementation is primary; the GitHub contents store provides the
// fallback persistence mode.
type Store interface {
	Close()
	Ping(ctx context.Context) error

	// Config singleton.
	GetConfig(ctx context.Context) (json.RawMessage, error)
	UpsertConfig(ctx context.Context, data json.RawMessage, updatedAt time.Time) error

	// Recharge orders.
	InsertRecarga(ctx context.Context, r Recarga) (*Recarga, error)
	ListRecargas(ctx context.Context, f listing.Filter) ([]Recarga, int, error)
	AllRecargas(ctx context.Context) ([]Recarga, error)
	UpdateRecarga(ctx context.Context, id string, upd RecargaUpdate) (*Recarga, error)
	DeleteRecarga(ctx context.Context, id string) error
	RechargeDashboard(ctx context.Context) (*DashboardData, error)

	// Product orders.
	InsertPedido(ctx context.Context, p Pedido) (*Pedido, error)
	ListPedidos(ctx context.Context, f listing.Filter) ([]Pedido, int, error)
	AllPedidos(ctx context.Context) ([]Pedido, error)
	UpdatePedido(ctx context.Context, id string, upd PedidoUpdate) (*Pedido, error)
	DeletePedido(ctx context.Context, id string) error

	// Products.
	GetProduto(ctx context.Context, id string) (*Produto, error)
	InsertProduto(ctx context.Context, p Produto) (*Produto, error)
	ListProdutos(ctx context.Context, f listing.Filter, onlyActive bool) ([]Produto, int, error)
	UpdateProduto(ctx context.Context, id string, p Produto) (*Produto, error)
	DeactivateProduto(ctx context.Context, id string) error

	// Categories.
	ListCategorias(ctx context.Context, onlyActive bool) ([]Categoria, error)
	InsertCategoria(ctx context.Context, c Categoria) (*Categoria, error)
	UpdateCategoria(ctx context.Context, id string, c Categoria) (*Categoria, error)
	DeactivateCategoria(ctx context.Context, id string) error
}

// Migrator is implemented by stores that apply schema migrations.
type Migrator interface {
	RunMigrations(ctx context.Context, filesystem fs.FS) error
}

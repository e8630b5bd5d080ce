package repo

import (
	"strings"
	"time"
)

// Operator is a mobile carrier accepted by the storefront.
type Operator string

const (
	OperatorTim   Operator = "tim"
	OperatorVivo  Operator = "vivo"
	OperatorClaro Operator = "claro"
)

// ParseOperator validates a carrier name case-insensitively.
func ParseOperator(s string) (Operator, bool) {
	switch Operator(strings.ToLower(strings.TrimSpace(s))) {
	case OperatorTim:
		return OperatorTim, true
	case OperatorVivo:
		return OperatorVivo, true
	case OperatorClaro:
		return OperatorClaro, true
	}
	return "", false
}

// Recharge statuses. Orders enter the queue and are only moved by the admin.
const (
	RechargeQueued     = "na-fila"
	RechargeProcessing = "sendo-processada"
	RechargeDone       = "recarga-efetuada"
	RechargeError      = "erro"
)

// Product-order statuses, delivery oriented.
const (
	PedidoQueued     = "na-fila"
	PedidoProcessing = "sendo-processada"
	PedidoShipped    = "enviado"
	PedidoDelivered  = "entregue"
	PedidoCancelled  = "cancelado"
)

var rechargeStatuses = map[string]bool{
	RechargeQueued:     true,
	RechargeProcessing: true,
	RechargeDone:       true,
	RechargeError:      true,
}

var pedidoStatuses = map[string]bool{
	PedidoQueued:     true,
	PedidoProcessing: true,
	PedidoShipped:    true,
	PedidoDelivered:  true,
	PedidoCancelled:  true,
}

// ValidRechargeStatus reports whether s belongs to the recharge status enum.
func ValidRechargeStatus(s string) bool { return rechargeStatuses[s] }

// ValidPedidoStatus reports whether s belongs to the product-order status enum.
func ValidPedidoStatus(s string) bool { return pedidoStatuses[s] }

// Recarga is a recharge order row.
type Recarga struct {
	ID                 string    `json:"id"`
	Timestamp          time.Time `json:"timestamp"`
	Nome               string    `json:"nome"`
	Telefone           string    `json:"telefone"`
	Operadora          string    `json:"operadora"`
	RecargaSelecionada string    `json:"recarga_selecionada"`
	SenhaApp           string    `json:"senha_app"`
	Status             string    `json:"status"`
	AdminComment       string    `json:"admin_comment"`
	CreatedAt          time.Time `json:"created_at"`
}

func (r Recarga) SearchText() []string  { return []string{r.Nome, r.Telefone} }
func (r Recarga) StatusValue() string   { return r.Status }
func (r Recarga) OperatorValue() string { return r.Operadora }
func (r Recarga) CategoryValue() string { return "" }
func (r Recarga) RecordTime() time.Time { return r.Timestamp }

// RecargaUpdate carries the fields a privileged update may change. Nil fields
// are left untouched.
type RecargaUpdate struct {
	Nome               *string `json:"nome"`
	Telefone           *string `json:"telefone"`
	Operadora          *string `json:"operadora"`
	RecargaSelecionada *string `json:"recarga_selecionada"`
	Status             *string `json:"status"`
	AdminComment       *string `json:"admin_comment"`
}

// Pedido is a product order row.
type Pedido struct {
	ID             string    `json:"id"`
	Timestamp      time.Time `json:"timestamp"`
	CodigoRastreio string    `json:"codigo_rastreio"`
	Nome           string    `json:"nome"`
	Telefone       string    `json:"telefone"`
	ProdutoID      string    `json:"produto_id"`
	Quantidade     int       `json:"quantidade"`
	Total          float64   `json:"total"`
	Endereco       string    `json:"endereco"`
	Observacoes    string    `json:"observacoes"`
	Status         string    `json:"status"`
	AdminComment   string    `json:"admin_comment"`
	CreatedAt      time.Time `json:"created_at"`
}

func (p Pedido) SearchText() []string  { return []string{p.Nome, p.Telefone, p.CodigoRastreio} }
func (p Pedido) StatusValue() string   { return p.Status }
func (p Pedido) OperatorValue() string { return "" }
func (p Pedido) CategoryValue() string { return "" }
func (p Pedido) RecordTime() time.Time { return p.Timestamp }

// PedidoUpdate carries the mutable product-order fields.
type PedidoUpdate struct {
	Status       *string `json:"status"`
	AdminComment *string `json:"admin_comment"`
	Endereco     *string `json:"endereco"`
	Observacoes  *string `json:"observacoes"`
}

// Produto is a catalogue product. Deactivation is logical, rows are never
// physically removed.
type Produto struct {
	ID          string    `json:"id"`
	Nome        string    `json:"nome"`
	Descricao   string    `json:"descricao"`
	Preco       float64   `json:"preco"`
	CategoriaID string    `json:"categoria_id"`
	Ativo       bool      `json:"ativo"`
	Destaque    bool      `json:"destaque"`
	Estoque     int       `json:"estoque"`
	Imagem      string    `json:"imagem"`
	CreatedAt   time.Time `json:"created_at"`
}

func (p Produto) SearchText() []string  { return []string{p.Nome, p.Descricao} }
func (p Produto) StatusValue() string   { return "" }
func (p Produto) OperatorValue() string { return "" }
func (p Produto) CategoryValue() string { return p.CategoriaID }
func (p Produto) RecordTime() time.Time { return p.CreatedAt }

// Categoria groups products and shares the soft-delete discipline.
type Categoria struct {
	ID        string    `json:"id"`
	Nome      string    `json:"nome"`
	Descricao string    `json:"descricao"`
	Ativo     bool      `json:"ativo"`
	CreatedAt time.Time `json:"created_at"`
}

// DashboardData aggregates order counts for the admin dashboard.
type DashboardData struct {
	Total          int            `json:"total"`
	StatusCounts   map[string]int `json:"statusCounts"`
	OperatorCounts map[string]int `json:"operatorCounts"`
	Variations     map[string]int `json:"variations"`
}

// EmptyDashboard returns the zeroed dashboard shape served while the store is
// unreachable.
func EmptyDashboard() *DashboardData {
	return &DashboardData{
		StatusCounts: map[string]int{
			RechargeDone:       0,
			RechargeProcessing: 0,
			RechargeQueued:     0,
			RechargeError:      0,
		},
		OperatorCounts: map[string]int{"Tim": 0, "Vivo": 0, "Claro": 0},
		Variations:     map[string]int{"total": 0, "completed": 0, "pending": 0, "error": 0},
	}
}

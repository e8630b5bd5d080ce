// Package export renders order listings as delimited text for the admin
// export endpoint.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"thunder-recargas/internal/repo"
)

// RecargaColumns is the fixed header for recharge exports.
var RecargaColumns = []string{
	"id", "timestamp", "nome", "telefone", "operadora",
	"recarga_selecionada", "status", "admin_comment", "created_at",
}

// PedidoColumns is the fixed header for product-order exports.
var PedidoColumns = []string{
	"id", "timestamp", "codigo_rastreio", "nome", "telefone", "produto_id",
	"quantidade", "total", "endereco", "observacoes", "status", "admin_comment",
}

// RecargasCSV renders recharge orders as CSV with a header row.
func RecargasCSV(items []repo.Recarga) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(RecargaColumns); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}
	for _, r := range items {
		row := []string{
			r.ID,
			r.Timestamp.Format(time.RFC3339),
			r.Nome,
			r.Telefone,
			r.Operadora,
			r.RecargaSelecionada,
			r.Status,
			r.AdminComment,
			r.CreatedAt.Format(time.RFC3339),
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("write row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

// PedidosCSV renders product orders as CSV with a header row.
func PedidosCSV(items []repo.Pedido) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(PedidoColumns); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}
	for _, p := range items {
		row := []string{
			p.ID,
			p.Timestamp.Format(time.RFC3339),
			p.CodigoRastreio,
			p.Nome,
			p.Telefone,
			p.ProdutoID,
			strconv.Itoa(p.Quantidade),
			strconv.FormatFloat(p.Total, 'f', 2, 64),
			p.Endereco,
			p.Observacoes,
			p.Status,
			p.AdminComment,
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("write row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

// Filename builds the timestamped attachment name for an export download.
func Filename(prefix, ext string, now time.Time) string {
	return fmt.Sprintf("%s_%s.%s", prefix, now.Format("20060102_150405"), ext)
}

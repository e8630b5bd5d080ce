package export

import (
	"strings"
	"testing"
	"time"

	"thunder-recargas/internal/repo"
)

func TestRecargasCSV(t *testing.T) {
	ts := time.Date(2025, 6, 18, 10, 0, 0, 0, time.UTC)
	out, err := RecargasCSV([]repo.Recarga{
		{ID: "7", Timestamp: ts, Nome: `Ana "Nina" Souza`, Telefone: "11999990000", Operadora: "tim", Status: "na-fila", CreatedAt: ts},
	})
	if err != nil {
		t.Fatalf("csv: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header + 1 row, got %d lines", len(lines))
	}
	if lines[0] != strings.Join(RecargaColumns, ",") {
		t.Fatalf("header = %q", lines[0])
	}
	// Embedded quotes must survive CSV quoting.
	if !strings.Contains(lines[1], `"Ana ""Nina"" Souza"`) {
		t.Fatalf("row quoting broken: %q", lines[1])
	}
}

func TestRecargasCSVEmptyStillHasHeader(t *testing.T) {
	out, err := RecargasCSV(nil)
	if err != nil {
		t.Fatalf("csv: %v", err)
	}
	if strings.TrimSpace(string(out)) != strings.Join(RecargaColumns, ",") {
		t.Fatalf("empty export = %q", out)
	}
}

func TestPedidosCSVFormatsNumbers(t *testing.T) {
	ts := time.Date(2025, 6, 18, 10, 0, 0, 0, time.UTC)
	out, err := PedidosCSV([]repo.Pedido{
		{ID: "1", Timestamp: ts, CodigoRastreio: "TH12345678", ProdutoID: "3", Quantidade: 2, Total: 59.9, Status: "na-fila"},
	})
	if err != nil {
		t.Fatalf("csv: %v", err)
	}
	if !strings.Contains(string(out), "TH12345678") || !strings.Contains(string(out), "59.90") {
		t.Fatalf("unexpected csv: %s", out)
	}
}

func TestFilename(t *testing.T) {
	now := time.Date(2025, 6, 18, 10, 4, 5, 0, time.UTC)
	got := Filename("recargas", "csv", now)
	if got != "recargas_20250618_100405.csv" {
		t.Fatalf("filename = %q", got)
	}
}

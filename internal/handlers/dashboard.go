package handlers

import (
	"net/http"
	"time"

	"thunder-recargas/internal/export"
	"thunder-recargas/internal/listing"
	"thunder-recargas/internal/repo"
)

// handleDashboard serves the aggregate counts behind the admin charts.
// While disconnected it answers the zeroed shape so the panel still renders.
func (h *Handler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if h.disconnected() {
		writeJSON(w, http.StatusOK, repo.EmptyDashboard())
		return
	}

	data, err := h.store.RechargeDashboard(r.Context())
	if err != nil {
		h.logger.Error("dashboard query failed", "error", err)
		writeMessage(w, http.StatusInternalServerError, "Falha ao buscar dados do dashboard.")
		return
	}
	writeJSON(w, http.StatusOK, data)
}

// handleExport streams the full order listing in the requested format.
// type=pedidos selects product orders; the default is recharges.
func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request) {
	if h.disconnected() {
		writeMessage(w, http.StatusInternalServerError, "Banco de dados não conectado.")
		return
	}

	format := r.URL.Query().Get("format")
	if format == "" {
		format = "csv"
	}
	entity := r.URL.Query().Get("type")
	if entity == "" {
		entity = "recargas"
	}
	now := time.Now().In(listing.Zone())

	switch entity {
	case "recargas":
		rows, err := h.store.AllRecargas(r.Context())
		if err != nil {
			h.logger.Error("export recargas failed", "error", err)
			writeMessage(w, http.StatusInternalServerError, "Falha ao exportar dados.")
			return
		}
		switch format {
		case "csv", "excel":
			out, err := export.RecargasCSV(rows)
			if err != nil {
				writeMessage(w, http.StatusInternalServerError, "Falha ao exportar dados.")
				return
			}
			serveCSV(w, out, export.Filename("recargas", extFor(format), now))
		case "json":
			if rows == nil {
				rows = []repo.Recarga{}
			}
			writeJSON(w, http.StatusOK, rows)
		default:
			writeMessage(w, http.StatusBadRequest, "Formato não suportado.")
		}
	case "pedidos":
		rows, err := h.store.AllPedidos(r.Context())
		if err != nil {
			h.logger.Error("export pedidos failed", "error", err)
			writeMessage(w, http.StatusInternalServerError, "Falha ao exportar dados.")
			return
		}
		switch format {
		case "csv", "excel":
			out, err := export.PedidosCSV(rows)
			if err != nil {
				writeMessage(w, http.StatusInternalServerError, "Falha ao exportar dados.")
				return
			}
			serveCSV(w, out, export.Filename("pedidos", extFor(format), now))
		case "json":
			if rows == nil {
				rows = []repo.Pedido{}
			}
			writeJSON(w, http.StatusOK, rows)
		default:
			writeMessage(w, http.StatusBadRequest, "Formato não suportado.")
		}
	default:
		writeMessage(w, http.StatusBadRequest, "Tipo de exportação não suportado.")
	}
}

func extFor(format string) string {
	if format == "excel" {
		return "xlsx"
	}
	return "csv"
}

func serveCSV(w http.ResponseWriter, data []byte, filename string) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename=`+filename)
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/okian/vigil/internal/adapters/export"
	"github.com/okian/vigil/internal/domain/scoring"
	"github.com/okian/vigil/internal/domain/types"
	"github.com/okian/vigil/pkg/metrics"
)

// ReportHandler serves integrity reports and their file exports.
type ReportHandler struct {
	deps Dependencies
}

// NewReportHandler creates a new report handler.
func NewReportHandler(deps Dependencies) *ReportHandler {
	return &ReportHandler{deps: deps}
}

// HandleReport handles GET /report/{session_id} and
// GET /report/{session_id}/export requests.
func (h *ReportHandler) HandleReport(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_report"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	rest := strings.Trim(strings.TrimPrefix(r.URL.Path, "/report/"), "/")
	sessionID, sub, _ := strings.Cut(rest, "/")
	if sessionID == "" {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}

	report, err := h.deps.ComputeReport(r.Context(), sessionID)
	if err != nil {
		if errors.Is(err, scoring.ErrNoEvents) {
			writeError(w, http.StatusNotFound, "not_found", WrapKind(op, ErrNotFound, err))
			return
		}
		metrics.RecordReportError()
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}

	switch sub {
	case "":
		writeJSON(w, http.StatusOK, report)
	case "export":
		h.export(w, r, report, sessionID)
	default:
		http.NotFound(w, r)
	}
}

func (h *ReportHandler) export(w http.ResponseWriter, r *http.Request, rep types.Report, sessionID string) {
	const op = "api.export_report"
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "pdf"
	}
	switch format {
	case "pdf":
		data, err := export.BuildReportPDF(&rep)
		if err != nil {
			metrics.RecordReportError()
			writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
			return
		}
		metrics.RecordReportExported("pdf")
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=report_%s.pdf", sessionID))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	case "xlsx":
		data, err := export.BuildReportXLSX(&rep)
		if err != nil {
			metrics.RecordReportError()
			writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
			return
		}
		metrics.RecordReportExported("xlsx")
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=report_%s.xlsx", sessionID))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	default:
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, fmt.Errorf("%w: unsupported format %q", ErrBadRequest, format)))
	}
}

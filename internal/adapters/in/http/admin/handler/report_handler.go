// internal/adapters/in/http/admin/handler/report_handler.go
package adminHandler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	common "github.com/tisoftshake/softshake/internal/adapters/in/http/handlers/common"
	"github.com/tisoftshake/softshake/internal/adapters/in/http/presenter"
	usecase "github.com/tisoftshake/softshake/internal/application/usecase"
)

// ReportHandler serves the monthly sales reports.
//
//	POST /admin/reports/monthly
//	GET  /admin/reports/{year}/{month}
//	GET  /admin/reports/{year}/{month}/export
type ReportHandler struct {
	uc *usecase.ReportUsecase
}

func NewReportHandler(uc *usecase.ReportUsecase) http.Handler {
	h := &ReportHandler{uc: uc}
	r := chi.NewRouter()
	r.Post("/monthly", h.generate)
	r.Get("/{year}/{month}", h.get)
	r.Get("/{year}/{month}/export", h.export)
	return r
}

func (h *ReportHandler) generate(w http.ResponseWriter, r *http.Request) {
	rep, err := h.uc.GenerateMonthly(r.Context())
	if err != nil {
		common.WriteError(w, "admin.report", err)
		return
	}
	common.WriteJSON(w, http.StatusOK, presenter.Report(rep))
}

func (h *ReportHandler) get(w http.ResponseWriter, r *http.Request) {
	y, m, err := parsePeriod(chi.URLParam(r, "year"), chi.URLParam(r, "month"))
	if err != nil {
		common.WriteError(w, "admin.report", err)
		return
	}
	rep, err := h.uc.Get(r.Context(), y, m)
	if err != nil {
		common.WriteError(w, "admin.report", err)
		return
	}
	common.WriteJSON(w, http.StatusOK, presenter.Report(rep))
}

// export streams the rendered workbook. X-Report-Url carries the archived copy when there is one.
func (h *ReportHandler) export(w http.ResponseWriter, r *http.Request) {
	y, m, err := parsePeriod(chi.URLParam(r, "year"), chi.URLParam(r, "month"))
	if err != nil {
		common.WriteError(w, "admin.report", err)
		return
	}
	out, err := h.uc.Export(r.Context(), y, m)
	if err != nil {
		common.WriteError(w, "admin.report", err)
		return
	}

	w.Header().Set("Content-Type", out.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", out.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(out.Data)))
	if out.URL != "" {
		w.Header().Set("X-Report-Url", out.URL)
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(out.Data)
}

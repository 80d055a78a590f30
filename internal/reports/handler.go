package reports

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sabai-pos/sabai-pos/internal/platform/httpx"
	"github.com/sabai-pos/sabai-pos/internal/sales"
	"github.com/sabai-pos/sabai-pos/internal/shared"
)

type Handler struct {
	logger  *slog.Logger
	service *Service
	sales   *sales.Handler
}

func NewHandler(logger *slog.Logger, service *Service, salesHandler *sales.Handler) *Handler {
	return &Handler{logger: logger, service: service, sales: salesHandler}
}

func (h *Handler) MountRoutes(r chi.Router) {
	r.Route("/reports", func(r chi.Router) {
		r.Get("/bills", h.Bills)
		r.Get("/summary", h.Summary)
		r.Post("/bills/{id}/cancel", h.sales.Cancel)
	})
}

func (h *Handler) Bills(w http.ResponseWriter, r *http.Request) {
	identity := shared.IdentityFromContext(r.Context())
	if identity == nil {
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "authentication required")
		return
	}
	q := r.URL.Query()
	bills, err := h.service.Bills(r.Context(), identity, BillFilters{
		StartDate:  q.Get("startDate"),
		EndDate:    q.Get("endDate"),
		BranchCode: q.Get("branchCode"),
		BillStatus: q.Get("billStatus"),
		BillType:   q.Get("billType"),
		BillNumber: q.Get("billNumber"),
		MemberName: q.Get("memberName"),
		RecordBy:   q.Get("recordBy"),
	})
	if err != nil {
		h.logger.Error("bill report failed", "error", err)
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, bills)
}

func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	identity := shared.IdentityFromContext(r.Context())
	if identity == nil {
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "authentication required")
		return
	}
	q := r.URL.Query()
	result, err := h.service.Summary(r.Context(), identity, SummaryFilters{
		StartDate: q.Get("startDate"),
		EndDate:   q.Get("endDate"),
		RecordBy:  q.Get("recordBy"),
	})
	if err != nil {
		h.logger.Error("summary report failed", "error", err)
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, result)
}

package einvoice

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/artha-erp/artha-erp/internal/platform/httpx"
)

// CancelIRNRequest is the payload for POST /invoices/{id}/cancel-irn.
type CancelIRNRequest struct {
	ReasonCode int    `json:"reason_code" validate:"required,min=1,max=4"`
	Remarks    string `json:"remarks" validate:"required,max=100"`
}

// Handler exposes IRN endpoints.
type Handler struct {
	service  *Service
	validate *validator.Validate
}

// NewHandler builds Handler instance.
func NewHandler(service *Service) *Handler {
	return &Handler{
		service:  service,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// MountRoutes registers IRN routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/invoices/{id}/generate-irn", h.generateIRN)
	r.Post("/invoices/{id}/cancel-irn", h.cancelIRN)
	r.Get("/invoices/{id}/irn-record", h.getIRNRecord)
	r.Get("/irn/{irn}", h.getIRNDetails)
}

func (h *Handler) generateIRN(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		httpx.Problem(w, http.StatusBadRequest, "Invalid ID", "path parameter must be a positive integer")
		return
	}
	result, err := h.service.GenerateIRN(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, result)
}

func (h *Handler) cancelIRN(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		httpx.Problem(w, http.StatusBadRequest, "Invalid ID", "path parameter must be a positive integer")
		return
	}
	var req CancelIRNRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation failed", err.Error())
		return
	}
	if err := h.service.CancelIRN(r.Context(), id, req.ReasonCode, req.Remarks); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "cancelled"})
}

func (h *Handler) getIRNRecord(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		httpx.Problem(w, http.StatusBadRequest, "Invalid ID", "path parameter must be a positive integer")
		return
	}
	rec, err := h.service.GetIRNRecord(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, rec)
}

func (h *Handler) getIRNDetails(w http.ResponseWriter, r *http.Request) {
	irn := chi.URLParam(r, "irn")
	if irn == "" {
		httpx.Problem(w, http.StatusBadRequest, "Invalid IRN", "path parameter must not be empty")
		return
	}
	result, err := h.service.GetIRNDetails(r.Context(), irn)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, result)
}

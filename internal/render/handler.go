package render

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/artha-erp/artha-erp/internal/billing/invoices"
	"github.com/artha-erp/artha-erp/internal/platform/httpx"
	"github.com/artha-erp/artha-erp/internal/shared"
)

// InvoiceSource supplies finalized invoices for rendering.
type InvoiceSource interface {
	GetInvoice(ctx context.Context, id int64) (*invoices.Invoice, error)
}

// Handler serves the printable representation of invoices.
type Handler struct {
	source   InvoiceSource
	seller   shared.SellerProfile
	renderer PDFRenderer
}

// NewHandler builds Handler instance. renderer may be nil; the endpoint then
// serves the structured render input instead of PDF bytes.
func NewHandler(source InvoiceSource, seller shared.SellerProfile, renderer PDFRenderer) *Handler {
	return &Handler{source: source, seller: seller, renderer: renderer}
}

// MountRoutes registers render routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/invoices/{id}/pdf", h.invoicePDF)
}

func (h *Handler) invoicePDF(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		httpx.Problem(w, http.StatusBadRequest, "Invalid ID", "path parameter must be a positive integer")
		return
	}
	inv, err := h.source.GetInvoice(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	view := BuildInvoiceView(inv, h.seller)
	if h.renderer == nil {
		httpx.JSON(w, http.StatusOK, view)
		return
	}

	html, err := RenderHTMLDocument(view)
	if err != nil {
		httpx.Problem(w, http.StatusInternalServerError, "Render failed", err.Error())
		return
	}
	pdf, err := h.renderer.RenderHTML(r.Context(), html)
	if err != nil {
		httpx.Problem(w, http.StatusBadGateway, "PDF generation failed", err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `inline; filename="`+inv.Number+`.pdf"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(pdf)
}

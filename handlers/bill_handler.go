package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"harvesterbilling/apperrors"
	"harvesterbilling/auth"
	"harvesterbilling/billing"
	"harvesterbilling/models"
	"harvesterbilling/services"
	"harvesterbilling/utils"
)

type BillHandler struct {
	Bills *services.BillService
	// RenderPDF defaults to utils.GenerateInvoicePDF.
	RenderPDF func(ctx context.Context, data models.InvoicePDFData) ([]byte, error)
}

func (h *BillHandler) Preview(w http.ResponseWriter, r *http.Request) {
	var draft models.BillDraft
	if err := readJSON(w, r, &draft); err != nil {
		writeError(w, r, err)
		return
	}
	p, err := h.Bills.Preview(r.Context(), auth.AccountID(r.Context()), draft)
	if err != nil {
		writeError(w, r, err)
		return
	}
	ok(w, "", p)
}

func (h *BillHandler) NewSession(w http.ResponseWriter, r *http.Request) {
	s, err := h.Bills.NewSession(r.Context(), auth.AccountID(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	ok(w, "", s)
}

// List supports ?q=, ?status=all|due|paid, ?sort=customer|totalAmount|createdAt and ?dir=asc|desc.
func (h *BillHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	bills, err := h.Bills.List(r.Context(), auth.AccountID(r.Context()), services.BillQuery{
		Search:  q.Get("q"),
		Status:  q.Get("status"),
		SortKey: q.Get("sort"),
		SortDir: q.Get("dir"),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	ok(w, "", bills)
}

func (h *BillHandler) Get(w http.ResponseWriter, r *http.Request) {
	b, err := h.Bills.Get(r.Context(), auth.AccountID(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	ok(w, "", b)
}

// Save creates a bill (POST /bills) or replaces one (PUT /bills/{id}).
func (h *BillHandler) Save(w http.ResponseWriter, r *http.Request) {
	var draft models.BillDraft
	if err := readJSON(w, r, &draft); err != nil {
		writeError(w, r, err)
		return
	}
	if id := chi.URLParam(r, "id"); id != "" {
		draft.EditingID = id
	}
	b, err := h.Bills.Save(r.Context(), auth.AccountID(r.Context()), draft)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if draft.EditingID != "" {
		ok(w, "Bill updated", b)
		return
	}
	created(w, "Bill saved", b)
}

func (h *BillHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Bills.Delete(r.Context(), auth.AccountID(r.Context()), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	ok(w, "Bill deleted", nil)
}

func isIOS(r *http.Request) bool {
	v, _ := strconv.ParseBool(r.URL.Query().Get("ios"))
	return v
}

// Share renders the share links of a stored bill.
func (h *BillHandler) Share(w http.ResponseWriter, r *http.Request) {
	links, err := h.Bills.Share(r.Context(), auth.AccountID(r.Context()), chi.URLParam(r, "id"), nil, isIOS(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	ok(w, "", links)
}

// ShareDraft renders the share links of an unsaved bill.
func (h *BillHandler) ShareDraft(w http.ResponseWriter, r *http.Request) {
	var draft models.BillDraft
	if err := readJSON(w, r, &draft); err != nil {
		writeError(w, r, err)
		return
	}
	links, err := h.Bills.Share(r.Context(), auth.AccountID(r.Context()), "", &draft, isIOS(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	ok(w, "", links)
}

func (h *BillHandler) PDF(w http.ResponseWriter, r *http.Request) {
	inv, err := h.Bills.Invoice(r.Context(), auth.AccountID(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	data, err := utils.NewInvoiceData(inv.Bill, inv.Settings, inv.Catalog, inv.PaymentURI)
	if err != nil {
		writeError(w, r, err)
		return
	}
	render := h.RenderPDF
	if render == nil {
		render = utils.GenerateInvoicePDF
	}
	pdf, err := render(r.Context(), data)
	if err != nil {
		writeError(w, r, err)
		return
	}
	attachment(w, "application/pdf", "invoice_"+inv.Bill.ID+".pdf", pdf)
}

// QR serves the UPI payment QR code of a stored bill as a PNG.
func (h *BillHandler) QR(w http.ResponseWriter, r *http.Request) {
	inv, err := h.Bills.Invoice(r.Context(), auth.AccountID(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	png, err := utils.PaymentQRCode(inv.PaymentURI)
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}

func (h *BillHandler) Ledger(w http.ResponseWriter, r *http.Request) {
	status := billing.LedgerStatus(r.URL.Query().Get("status"))
	switch status {
	case "":
		status = billing.LedgerAll
	case billing.LedgerAll, billing.LedgerPending, billing.LedgerPaid:
	default:
		writeError(w, r, apperrors.Validation("status must be one of all pending paid"))
		return
	}
	ledger, err := h.Bills.Ledger(r.Context(), auth.AccountID(r.Context()), chi.URLParam(r, "id"), status)
	if err != nil {
		writeError(w, r, err)
		return
	}
	ok(w, "", ledger)
}

func (h *BillHandler) ToggleCommission(w http.ResponseWriter, r *http.Request) {
	var req struct {
		BillID    string `json:"billId"`
		SessionID string `json:"sessionId"`
	}
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if req.BillID == "" || req.SessionID == "" {
		writeError(w, r, apperrors.Validation("billId and sessionId are required"))
		return
	}
	if err := h.Bills.ToggleCommission(r.Context(), auth.AccountID(r.Context()), req.BillID, req.SessionID); err != nil {
		writeError(w, r, err)
		return
	}
	ok(w, "Commission status updated", nil)
}

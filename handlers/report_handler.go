package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"harvesterbilling/auth"
	"harvesterbilling/services"
	"harvesterbilling/utils"
)

type ReportHandler struct {
	Reports *services.ReportService
}

func (h *ReportHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Reports.Dashboard(r.Context(), auth.AccountID(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	ok(w, "", stats)
}

func (h *ReportHandler) Vehicles(w http.ResponseWriter, r *http.Request) {
	report, err := h.Reports.Vehicles(r.Context(), auth.AccountID(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	ok(w, "", report)
}

func (h *ReportHandler) VehiclesXLSX(w http.ResponseWriter, r *http.Request) {
	report, err := h.Reports.Vehicles(r.Context(), auth.AccountID(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	data, err := utils.VehicleReportXLSX(*report)
	if err != nil {
		writeError(w, r, err)
		return
	}
	attachment(w, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", utils.VehicleReportFileName(time.Now()), data)
}

type NotificationHandler struct {
	Notifications *services.NotificationService
}

func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	accountID := auth.AccountID(r.Context())
	items, err := h.Notifications.List(r.Context(), accountID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	unread, err := h.Notifications.UnreadCount(r.Context(), accountID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	ok(w, "", map[string]interface{}{"notifications": items, "unread": unread})
}

func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	if err := h.Notifications.MarkRead(r.Context(), auth.AccountID(r.Context()), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	ok(w, "", nil)
}

func (h *NotificationHandler) ClearAll(w http.ResponseWriter, r *http.Request) {
	if err := h.Notifications.ClearAll(r.Context(), auth.AccountID(r.Context())); err != nil {
		writeError(w, r, err)
		return
	}
	ok(w, "Notifications cleared", nil)
}

package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"harvesterbilling/apperrors"
	"harvesterbilling/auth"
	"harvesterbilling/backup"
	"harvesterbilling/repository"
)

// CloudBackup is the remote sync used by the cloud endpoints.
type CloudBackup interface {
	Connected(ctx context.Context) (bool, error)
	Link(ctx context.Context, accountID, token string) error
	Disconnect(ctx context.Context) error
	Push(ctx context.Context, accountID string) error
	Pull(ctx context.Context, accountID string, policy backup.RestorePolicy) (*backup.RestoreReport, error)
}

type BackupHandler struct {
	Store *repository.Store
	Cloud CloudBackup
	Now   func() time.Time
}

func (h *BackupHandler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

func loginID(r *http.Request) string {
	if c, ok := auth.ClaimsFrom(r.Context()); ok && c.LoginID != "" {
		return c.LoginID
	}
	return auth.AccountID(r.Context())
}

// Export downloads the caller's account as a JSON file.
func (h *BackupHandler) Export(w http.ResponseWriter, r *http.Request) {
	exp, err := backup.ExportAccount(r.Context(), h.Store.Account(auth.AccountID(r.Context())))
	if err != nil {
		writeError(w, r, err)
		return
	}
	data, err := json.MarshalIndent(exp, "", "  ")
	if err != nil {
		writeError(w, r, err)
		return
	}
	attachment(w, "application/json", backup.ExportFileName(loginID(r), h.now()), data)
}

// ExportAll downloads a snapshot of every account, as pushed to the cloud.
func (h *BackupHandler) ExportAll(w http.ResponseWriter, r *http.Request) {
	snap, err := backup.TakeSnapshot(r.Context(), h.Store.KV, auth.AccountID(r.Context()), h.now())
	if err != nil {
		writeError(w, r, err)
		return
	}
	data, err := snap.Marshal()
	if err != nil {
		writeError(w, r, err)
		return
	}
	attachment(w, "application/json", backup.DefaultFileName, data)
}

func (h *BackupHandler) Import(w http.ResponseWriter, r *http.Request) {
	raw, err := readBody(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := backup.ImportAccount(r.Context(), h.Store.Account(auth.AccountID(r.Context())), raw); err != nil {
		writeError(w, r, err)
		return
	}
	ok(w, "Backup restored", nil)
}

// RestoreSnapshot applies an uploaded snapshot file with ?policy=overwrite|keep-local.
func (h *BackupHandler) RestoreSnapshot(w http.ResponseWriter, r *http.Request) {
	policy, err := backup.ParseRestorePolicy(r.URL.Query().Get("policy"))
	if err != nil {
		writeError(w, r, apperrors.Validation(err.Error()))
		return
	}
	raw, err := readBody(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	snap, err := backup.ParseSnapshot(raw)
	if err != nil {
		writeError(w, r, err)
		return
	}
	report, err := backup.Restore(r.Context(), h.Store.KV, snap, policy)
	if err != nil {
		writeError(w, r, err)
		return
	}
	ok(w, "Snapshot restored", report)
}

func (h *BackupHandler) CloudStatus(w http.ResponseWriter, r *http.Request) {
	connected, err := h.Cloud.Connected(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	ok(w, "", map[string]bool{"connected": connected})
}

func (h *BackupHandler) Connect(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Token string `json:"token"`
	}
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.Cloud.Link(r.Context(), auth.AccountID(r.Context()), req.Token); err != nil {
		writeError(w, r, err)
		return
	}
	ok(w, "Cloud backup connected", nil)
}

func (h *BackupHandler) Disconnect(w http.ResponseWriter, r *http.Request) {
	if err := h.Cloud.Disconnect(r.Context()); err != nil {
		writeError(w, r, err)
		return
	}
	ok(w, "Cloud backup disconnected", nil)
}

// credentialDropped reports whether a sync silently disconnected after the
// remote rejected the credential.
func (h *BackupHandler) credentialDropped(ctx context.Context) bool {
	connected, err := h.Cloud.Connected(ctx)
	return err == nil && !connected
}

func (h *BackupHandler) Sync(w http.ResponseWriter, r *http.Request) {
	if err := h.Cloud.Push(r.Context(), auth.AccountID(r.Context())); err != nil {
		writeError(w, r, err)
		return
	}
	if h.credentialDropped(r.Context()) {
		writeError(w, r, apperrors.Validation("Cloud session expired. Please reconnect."))
		return
	}
	ok(w, "Synced to cloud", nil)
}

func (h *BackupHandler) CloudRestore(w http.ResponseWriter, r *http.Request) {
	policy, err := backup.ParseRestorePolicy(r.URL.Query().Get("policy"))
	if err != nil {
		writeError(w, r, apperrors.Validation(err.Error()))
		return
	}
	report, err := h.Cloud.Pull(r.Context(), auth.AccountID(r.Context()), policy)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if report == nil {
		writeError(w, r, apperrors.Validation("Cloud session expired. Please reconnect."))
		return
	}
	ok(w, "Restored from cloud", report)
}

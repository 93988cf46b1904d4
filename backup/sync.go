package backup

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"harvesterbilling/apperrors"
	"harvesterbilling/billing"
	"harvesterbilling/logger"
	"harvesterbilling/metrics"
	"harvesterbilling/models"
	"harvesterbilling/repository"
)

const DefaultFileName = "harvester_cloud_backup.json"

// ErrNotLinked is returned by explicit sync requests while no credential is cached.
var ErrNotLinked = apperrors.Validation("cloud backup is not connected")

const asyncPushTimeout = 30 * time.Second

// Syncer pushes snapshots to and pulls them from a Remote. The credential is
// cached in the store under repository.CloudTokenKey.
type Syncer struct {
	store    *repository.Store
	remote   Remote
	fileName string
	now      func() time.Time
}

func NewSyncer(store *repository.Store, remote Remote, fileName string) *Syncer {
	if fileName == "" {
		fileName = DefaultFileName
	}
	return &Syncer{store: store, remote: remote, fileName: fileName, now: time.Now}
}

func (s *Syncer) token(ctx context.Context) (string, error) {
	token, ok, err := s.store.KV.Get(ctx, repository.CloudTokenKey)
	if err != nil || !ok {
		return "", err
	}
	return token, nil
}

func (s *Syncer) Connected(ctx context.Context) (bool, error) {
	token, err := s.token(ctx)
	return token != "", err
}

// Link caches the credential and marks the account as cloud-enabled.
func (s *Syncer) Link(ctx context.Context, accountID, token string) error {
	if token == "" {
		return apperrors.Validation("credential is required")
	}
	if err := s.store.KV.Set(ctx, repository.CloudTokenKey, token); err != nil {
		return err
	}
	_, err := s.store.Account(accountID).Settings.Update(ctx, func(st *models.AppSettings) error {
		st.CloudSyncEnabled = true
		return nil
	})
	return err
}

// Disconnect forgets the cached credential.
func (s *Syncer) Disconnect(ctx context.Context) error {
	return s.store.KV.Remove(ctx, repository.CloudTokenKey)
}

// handleRemoteError drops the credential on auth failures and swallows the error.
func (s *Syncer) handleRemoteError(ctx context.Context, op, accountID string, err error) error {
	if errors.Is(err, apperrors.ErrUnauthorized) {
		metrics.CloudSync.WithLabelValues(op, "unauthorized").Inc()
		logger.Warn("cloud credential rejected, disconnecting",
			zap.String("op", op), zap.String("account_id", accountID), zap.Error(err))
		if rmErr := s.Disconnect(ctx); rmErr != nil {
			logger.Error("failed to clear cloud credential", zap.Error(rmErr))
		}
		return nil
	}
	metrics.CloudSync.WithLabelValues(op, "error").Inc()
	logger.Error("cloud sync failed", zap.String("op", op), zap.String("account_id", accountID), zap.Error(err))
	return err
}

// Push uploads a fresh snapshot, replacing the remote file when it already exists,
// then stamps the account's last sync time.
func (s *Syncer) Push(ctx context.Context, accountID string) error {
	token, err := s.token(ctx)
	if err != nil {
		return err
	}
	if token == "" {
		return ErrNotLinked
	}

	snap, err := TakeSnapshot(ctx, s.store.KV, accountID, s.now())
	if err != nil {
		return err
	}
	data, err := snap.Marshal()
	if err != nil {
		return err
	}

	existing, err := s.remote.Find(ctx, token, s.fileName)
	if err != nil {
		return s.handleRemoteError(ctx, "push", accountID, err)
	}
	if existing != nil {
		err = s.remote.Update(ctx, token, existing.ID, data)
	} else {
		_, err = s.remote.Create(ctx, token, s.fileName, data)
	}
	if err != nil {
		return s.handleRemoteError(ctx, "push", accountID, err)
	}

	_, err = s.store.Account(accountID).Settings.Update(ctx, func(st *models.AppSettings) error {
		st.LastSync = s.now().UTC().Format(billing.ISOTimeLayout)
		return nil
	})
	if err != nil {
		return err
	}

	metrics.CloudSync.WithLabelValues("push", "success").Inc()
	logger.Info("snapshot pushed",
		zap.String("account_id", accountID),
		zap.Int("keys", len(snap.Data)),
		zap.Bool("updated", existing != nil))
	return nil
}

// Pull downloads the remote snapshot and restores it with the given policy.
// A nil report with a nil error means the credential was rejected and dropped.
func (s *Syncer) Pull(ctx context.Context, accountID string, policy RestorePolicy) (*RestoreReport, error) {
	token, err := s.token(ctx)
	if err != nil {
		return nil, err
	}
	if token == "" {
		return nil, ErrNotLinked
	}

	file, err := s.remote.Find(ctx, token, s.fileName)
	if err != nil {
		return nil, s.handleRemoteError(ctx, "pull", accountID, err)
	}
	if file == nil {
		return nil, fmt.Errorf("%w: no cloud backup named %s", apperrors.ErrNotFound, s.fileName)
	}

	raw, err := s.remote.Download(ctx, token, file.ID)
	if err != nil {
		return nil, s.handleRemoteError(ctx, "pull", accountID, err)
	}
	snap, err := ParseSnapshot(raw)
	if err != nil {
		return nil, err
	}

	report, err := Restore(ctx, s.store.KV, snap, policy)
	if err != nil {
		return report, err
	}
	metrics.CloudSync.WithLabelValues("pull", "success").Inc()
	logger.Info("snapshot restored",
		zap.String("account_id", accountID),
		zap.String("synced_by", snap.SyncedBy),
		zap.Int("written", len(report.Written)),
		zap.Int("conflicts", len(report.Conflicts)))
	return report, nil
}

// PushAsync pushes in the background when a credential is linked. Errors are logged.
func (s *Syncer) PushAsync(accountID string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), asyncPushTimeout)
		defer cancel()

		if ok, err := s.Connected(ctx); err != nil || !ok {
			return
		}
		if err := s.Push(ctx, accountID); err != nil {
			logger.Warn("background cloud sync failed", zap.String("account_id", accountID), zap.Error(err))
		}
	}()
}

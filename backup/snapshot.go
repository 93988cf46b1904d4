package backup

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"harvesterbilling/apperrors"
	"harvesterbilling/billing"
	"harvesterbilling/repository"
)

// Snapshot is the full state of every account namespace plus the global registry.
// The field names match backups written by the browser app.
type Snapshot struct {
	Data      map[string]string `json:"data"`
	Timestamp string            `json:"timestamp"`
	SyncedBy  string            `json:"syncedBy"`
}

var snapshotPrefixes = []string{repository.AccountsPrefix, repository.GlobalPrefix}

// excluded keys never leave the local store.
func excluded(key string) bool {
	return key == repository.CloudTokenKey
}

// TakeSnapshot collects every u_* and harvester_* key except the cached cloud credential.
func TakeSnapshot(ctx context.Context, kv repository.KVStore, syncedBy string, now time.Time) (*Snapshot, error) {
	snap := &Snapshot{
		Data:      make(map[string]string),
		Timestamp: now.UTC().Format(billing.ISOTimeLayout),
		SyncedBy:  syncedBy,
	}
	for _, prefix := range snapshotPrefixes {
		keys, err := kv.Keys(ctx, prefix)
		if err != nil {
			return nil, fmt.Errorf("list %s keys: %w", prefix, err)
		}
		for _, key := range keys {
			if excluded(key) {
				continue
			}
			value, ok, err := kv.Get(ctx, key)
			if err != nil {
				return nil, fmt.Errorf("read %s: %w", key, err)
			}
			if ok {
				snap.Data[key] = value
			}
		}
	}
	return snap, nil
}

// Keys returns the snapshot keys in ascending order.
func (s *Snapshot) Keys() []string {
	keys := make([]string, 0, len(s.Data))
	for k := range s.Data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Marshal encodes the snapshot; map keys come out sorted.
func (s *Snapshot) Marshal() ([]byte, error) {
	return json.Marshal(s)
}

// ParseSnapshot decodes a backup file, rejecting anything without a data map.
func ParseSnapshot(raw []byte) (*Snapshot, error) {
	var snap Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return nil, apperrors.Validation("invalid backup file: " + err.Error())
	}
	if snap.Data == nil {
		return nil, apperrors.Validation("invalid backup file: missing data")
	}
	return &snap, nil
}

package backup

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"harvesterbilling/apperrors"
	"harvesterbilling/repository"
)

func seededKV(t *testing.T) *repository.MemoryKVStore {
	t.Helper()
	ctx := context.Background()
	kv := repository.NewMemoryKVStore()
	for k, v := range map[string]string{
		"harvester_users":        `[{"id":"1","userId":"ravi"}]`,
		"harvester_gdrive_token": "key:secret",
		"u_1_bills":              `[{"id":"BILL-1"}]`,
		"u_1_settings":           `{"companyName":"Sri"}`,
		"u_2_vehicles":           `[]`,
		"unrelated":              "x",
	} {
		require.NoError(t, kv.Set(ctx, k, v))
	}
	return kv
}

func TestTakeSnapshot(t *testing.T) {
	now := time.Date(2026, 2, 1, 8, 30, 0, 0, time.UTC)
	snap, err := TakeSnapshot(context.Background(), seededKV(t), "1", now)
	require.NoError(t, err)

	assert.Equal(t, []string{"harvester_users", "u_1_bills", "u_1_settings", "u_2_vehicles"}, snap.Keys())
	assert.NotContains(t, snap.Data, "harvester_gdrive_token")
	assert.Equal(t, "2026-02-01T08:30:00.000Z", snap.Timestamp)
	assert.Equal(t, "1", snap.SyncedBy)
}

func TestTakeSnapshot_Idempotent(t *testing.T) {
	kv := seededKV(t)
	now := time.Now()

	a, err := TakeSnapshot(context.Background(), kv, "1", now)
	require.NoError(t, err)
	b, err := TakeSnapshot(context.Background(), kv, "1", now)
	require.NoError(t, err)

	rawA, err := a.Marshal()
	require.NoError(t, err)
	rawB, err := b.Marshal()
	require.NoError(t, err)
	assert.Equal(t, string(rawA), string(rawB))
}

func TestSnapshotRoundTrip(t *testing.T) {
	ctx := context.Background()
	snap, err := TakeSnapshot(ctx, seededKV(t), "1", time.Now())
	require.NoError(t, err)
	raw, err := snap.Marshal()
	require.NoError(t, err)

	parsed, err := ParseSnapshot(raw)
	require.NoError(t, err)

	fresh := repository.NewMemoryKVStore()
	report, err := Restore(ctx, fresh, parsed, PolicyOverwrite)
	require.NoError(t, err)
	assert.Len(t, report.Written, 4)
	assert.Empty(t, report.Conflicts)

	again, err := TakeSnapshot(ctx, fresh, "1", time.Now())
	require.NoError(t, err)
	assert.Equal(t, snap.Data, again.Data)
}

func TestParseSnapshot_Malformed(t *testing.T) {
	for _, raw := range []string{"", "{", `{"timestamp":"x"}`, `[1,2]`} {
		_, err := ParseSnapshot([]byte(raw))
		assert.ErrorIs(t, err, apperrors.ErrValidation, raw)
	}
}

func TestRestore_Policies(t *testing.T) {
	ctx := context.Background()
	snap := &Snapshot{Data: map[string]string{
		"u_1_bills":              `[{"id":"remote"}]`,
		"u_1_settings":           `{"companyName":"Sri"}`,
		"u_1_agents":             `[]`,
		"harvester_gdrive_token": "remote:token",
	}}

	t.Run("overwrite reports conflicts", func(t *testing.T) {
		kv := seededKV(t)
		report, err := Restore(ctx, kv, snap, "")
		require.NoError(t, err)

		assert.Equal(t, PolicyOverwrite, report.Policy)
		assert.Equal(t, []string{"u_1_agents", "u_1_bills"}, report.Written)
		assert.Equal(t, []string{"u_1_bills"}, report.Conflicts)
		assert.Equal(t, []string{"harvester_gdrive_token"}, report.Skipped)

		v, _, _ := kv.Get(ctx, "u_1_bills")
		assert.Equal(t, `[{"id":"remote"}]`, v)
		token, _, _ := kv.Get(ctx, "harvester_gdrive_token")
		assert.Equal(t, "key:secret", token)
		_, ok, _ := kv.Get(ctx, "unrelated")
		assert.True(t, ok, "keys absent from the snapshot are kept")
	})

	t.Run("keep-local skips conflicts", func(t *testing.T) {
		kv := seededKV(t)
		report, err := Restore(ctx, kv, snap, PolicyKeepLocal)
		require.NoError(t, err)

		assert.Equal(t, []string{"u_1_agents"}, report.Written)
		assert.Equal(t, []string{"u_1_bills"}, report.Conflicts)
		assert.Contains(t, report.Skipped, "u_1_bills")

		v, _, _ := kv.Get(ctx, "u_1_bills")
		assert.Equal(t, `[{"id":"BILL-1"}]`, v)
	})
}

func TestParseRestorePolicy(t *testing.T) {
	p, err := ParseRestorePolicy("")
	require.NoError(t, err)
	assert.Equal(t, PolicyOverwrite, p)

	p, err = ParseRestorePolicy("keep-local")
	require.NoError(t, err)
	assert.Equal(t, PolicyKeepLocal, p)

	_, err = ParseRestorePolicy("merge-ish")
	assert.Error(t, err)
}

package backup

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"harvesterbilling/apperrors"
	"harvesterbilling/models"
	"harvesterbilling/repository"
)

func TestExportFileName(t *testing.T) {
	now := time.Date(2026, 4, 9, 23, 0, 0, 0, time.UTC)
	assert.Equal(t, "harvester_backup_ravi_2026-04-09.json", ExportFileName("ravi", now))
}

func TestExportImportRoundTrip(t *testing.T) {
	ctx := context.Background()
	src := repository.NewStore(repository.NewMemoryKVStore()).Account("1")
	require.NoError(t, src.Settings.Put(ctx, models.AppSettings{CompanyName: "Sri", Theme: "dark"}))
	require.NoError(t, src.Bills.Upsert(ctx, models.Bill{ID: "BILL-1", TotalAmount: 4000}))
	require.NoError(t, src.Vehicles.Upsert(ctx, models.Vehicle{ID: "v1", Name: "Kartar"}))

	exp, err := ExportAccount(ctx, src)
	require.NoError(t, err)
	assert.Empty(t, exp.Drivers)
	raw, err := json.Marshal(exp)
	require.NoError(t, err)

	dst := repository.NewStore(repository.NewMemoryKVStore()).Account("2")
	require.NoError(t, ImportAccount(ctx, dst, raw))

	back, err := ExportAccount(ctx, dst)
	require.NoError(t, err)
	assert.Equal(t, exp, back)
}

func TestImportAccount_MalformedLeavesState(t *testing.T) {
	ctx := context.Background()
	acct := repository.NewStore(repository.NewMemoryKVStore()).Account("1")
	require.NoError(t, acct.Bills.Upsert(ctx, models.Bill{ID: "BILL-1"}))

	for _, raw := range []string{
		"not json",
		`{}`,
		`{"bills":[{"id":"BILL-2"}],"vehicles":"oops"}`,
	} {
		err := ImportAccount(ctx, acct, []byte(raw))
		assert.ErrorIs(t, err, apperrors.ErrValidation, raw)
	}

	bills, err := acct.Bills.List(ctx)
	require.NoError(t, err)
	require.Len(t, bills, 1)
	assert.Equal(t, "BILL-1", bills[0].ID)
}

func TestImportAccount_PartialFile(t *testing.T) {
	ctx := context.Background()
	acct := repository.NewStore(repository.NewMemoryKVStore()).Account("1")
	require.NoError(t, acct.Vehicles.Upsert(ctx, models.Vehicle{ID: "v1"}))

	require.NoError(t, ImportAccount(ctx, acct, []byte(`{"bills":[{"id":"BILL-9"}]}`)))

	vehicles, _ := acct.Vehicles.List(ctx)
	assert.Len(t, vehicles, 1, "sections missing from the file are untouched")
	bills, _ := acct.Bills.List(ctx)
	require.Len(t, bills, 1)
	assert.Equal(t, "BILL-9", bills[0].ID)
}

package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"harvesterbilling/apperrors"
	"harvesterbilling/models"
)

func TestNotifications_CapAndOrder(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestServices(t)

	for i := 0; i < MaxNotifications+5; i++ {
		require.NoError(t, svc.Notifications.Add(ctx, acct, models.AppNotification{Title: fmt.Sprintf("n%d", i)}))
	}
	items, err := svc.Notifications.List(ctx, acct)
	require.NoError(t, err)
	require.Len(t, items, MaxNotifications)
	assert.Equal(t, fmt.Sprintf("n%d", MaxNotifications+4), items[0].Title)
	assert.Equal(t, "n5", items[MaxNotifications-1].Title)
	assert.Equal(t, models.NotificationSystem, items[0].Type)
	assert.Equal(t, "2026-03-10T09:00:00.000Z", items[0].Timestamp)
}

func TestNotifications_ReadAndClear(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestServices(t)
	require.NoError(t, svc.Notifications.Add(ctx, acct, models.AppNotification{ID: "a", Title: "A"}))
	require.NoError(t, svc.Notifications.Add(ctx, acct, models.AppNotification{ID: "b", Title: "B"}))

	n, err := svc.Notifications.UnreadCount(ctx, acct)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	require.NoError(t, svc.Notifications.MarkRead(ctx, acct, "a"))
	n, _ = svc.Notifications.UnreadCount(ctx, acct)
	assert.Equal(t, 1, n)
	assert.ErrorIs(t, svc.Notifications.MarkRead(ctx, acct, "zzz"), apperrors.ErrNotFound)

	require.NoError(t, svc.Notifications.ClearAll(ctx, acct))
	items, err := svc.Notifications.List(ctx, acct)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestBillAgeDays(t *testing.T) {
	assert.Equal(t, 4, billAgeDays("2026-03-06T12:00:00.000Z", testNow))
	assert.Equal(t, 3, billAgeDays("2026-03-07T09:00:00.000Z", testNow))
	assert.Equal(t, 0, billAgeDays("yesterday", testNow))
}

func TestScanOverdue(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := newTestServices(t)

	bills := []models.Bill{
		{ID: "BILL-1", Customer: models.Customer{Name: "Suresh", Mobile: "9876543210"}, DueAmount: 1500, CreatedAt: "2026-03-01T09:00:00.000Z"},
		{ID: "BILL-2", Customer: models.Customer{Name: "Suresh", Mobile: "9876543210"}, DueAmount: 700, CreatedAt: "2026-03-02T09:00:00.000Z"},
		{ID: "BILL-3", Customer: models.Customer{Name: "Anil", Mobile: "9000000000"}, DueAmount: 900, CreatedAt: "2026-03-09T09:00:00.000Z"},
		{ID: "BILL-4", Customer: models.Customer{Name: "Mahesh", Mobile: "9111111111"}, DueAmount: 0, CreatedAt: "2026-02-01T09:00:00.000Z"},
	}
	require.NoError(t, store.Account(acct).Bills.Replace(ctx, bills))

	raised, err := svc.Notifications.ScanOverdue(ctx, acct)
	require.NoError(t, err)
	assert.Equal(t, 1, raised)

	items, err := svc.Notifications.List(ctx, acct)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Overdue: Suresh", items[0].Title)
	assert.Equal(t, "Bill of ₹1500 is pending for 9 days. Contact 9876543210.", items[0].Message)
	assert.Equal(t, models.NotificationOverdue, items[0].Type)

	raised, err = svc.Notifications.ScanOverdue(ctx, acct)
	require.NoError(t, err)
	assert.Zero(t, raised, "an existing reminder suppresses repeats")
}

func TestScanAllAccounts(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := newTestServices(t)

	user, err := svc.Accounts.Signup(ctx, SignupRequest{
		UserName: "Owner", UserID: "owner", Password: "secret1", ConfirmPassword: "secret1",
	})
	require.NoError(t, err)
	require.NoError(t, store.Account(user.ID).Bills.Replace(ctx, []models.Bill{
		{ID: "BILL-1", Customer: models.Customer{Name: "Suresh", Mobile: "1"}, DueAmount: 10, CreatedAt: "2026-03-01T09:00:00.000Z"},
	}))

	require.NoError(t, svc.Notifications.ScanAllAccounts(ctx))
	n, err := svc.Notifications.UnreadCount(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

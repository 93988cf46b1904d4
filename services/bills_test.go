package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"harvesterbilling/apperrors"
	"harvesterbilling/billing"
	"harvesterbilling/models"
)

func seedFleet(t *testing.T, svc *Services) (models.Vehicle, models.Agent) {
	t.Helper()
	ctx := context.Background()
	v, err := svc.Fleet.SaveVehicle(ctx, acct, models.Vehicle{Name: "Kartar", Type: models.VehicleHarvester, Number: "AP 01"})
	require.NoError(t, err)
	a, err := svc.Fleet.SaveAgent(ctx, acct, models.Agent{Name: "Ramesh", Mobile: "9000000001"})
	require.NoError(t, err)
	return *v, *a
}

func draftFor(v models.Vehicle, a models.Agent) models.BillDraft {
	return models.BillDraft{
		Customer: models.Customer{Name: "Suresh", Mobile: "9876543210", Village: "Nandyal"},
		Sessions: []models.WorkingSession{
			{ID: "s1", Date: "2026-03-09", WorkTime: "02:30", StandardRate: 1000, MachineID: v.ID, AgentID: a.ID},
			{ID: "s2", Date: "2026-03-10", WorkTime: "01:30", StandardRate: 1000, MachineID: v.ID},
		},
		PaidAmount:  3000,
		PaymentType: models.PaymentGooglePay,
	}
}

func TestBillSave_ComputesAndNotifies(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestServices(t)
	v, a := seedFleet(t, svc)

	bill, err := svc.Bills.Save(ctx, acct, draftFor(v, a))
	require.NoError(t, err)
	assert.Equal(t, 4000.0, bill.TotalAmount)
	assert.Equal(t, 1000.0, bill.DueAmount)
	assert.Equal(t, 500.0, bill.Sessions[0].AgentCommission)
	assert.Equal(t, "Ramesh", bill.Sessions[0].AgentName)
	assert.Equal(t, "2026-03-10T09:00:00.000Z", bill.CreatedAt)

	notes, err := svc.Notifications.List(ctx, acct)
	require.NoError(t, err)
	require.NotEmpty(t, notes)
	assert.Equal(t, "Outstanding Due Recorded", notes[0].Title)
	assert.Equal(t, "Bill for Suresh saved. Balance: Rs. 1000", notes[0].Message)
	assert.Equal(t, models.NotificationOverdue, notes[0].Type)

	settled := draftFor(v, a)
	settled.PaidAmount = 4000
	_, err = svc.Bills.Save(ctx, acct, settled)
	require.NoError(t, err)
	notes, _ = svc.Notifications.List(ctx, acct)
	assert.Equal(t, "Full Payment Logged", notes[0].Title)
	assert.Equal(t, models.NotificationSuccess, notes[0].Type)
}

func TestBillSave_EditKeepsCreatedAt(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestServices(t)
	v, a := seedFleet(t, svc)

	bill, err := svc.Bills.Save(ctx, acct, draftFor(v, a))
	require.NoError(t, err)

	later := testNow.Add(48 * time.Hour)
	svc.Bills.now = func() time.Time { return later }

	edit := draftFor(v, a)
	edit.EditingID = bill.ID
	edit.PaidAmount = 4000
	edited, err := svc.Bills.Save(ctx, acct, edit)
	require.NoError(t, err)
	assert.Equal(t, bill.ID, edited.ID)
	assert.Equal(t, bill.CreatedAt, edited.CreatedAt)
	assert.Equal(t, 0.0, edited.DueAmount)

	bills, err := svc.Bills.List(ctx, acct, BillQuery{})
	require.NoError(t, err)
	assert.Len(t, bills, 1)
}

func TestBillSave_Validation(t *testing.T) {
	svc, _, _ := newTestServices(t)
	_, err := svc.Bills.Save(context.Background(), acct, models.BillDraft{})
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestBillPreviewAndNewSession(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestServices(t)
	v, a := seedFleet(t, svc)

	p, err := svc.Bills.Preview(ctx, acct, draftFor(v, a))
	require.NoError(t, err)
	assert.Equal(t, "4h 0m", p.TotalDuration)
	assert.Equal(t, 1000.0, p.Bill.DueAmount)

	bills, _ := svc.Bills.List(ctx, acct, BillQuery{})
	assert.Empty(t, bills, "preview does not persist")

	s, err := svc.Bills.NewSession(ctx, acct)
	require.NoError(t, err)
	assert.Equal(t, v.ID, s.MachineID)
	assert.Equal(t, "2026-03-10", s.Date)
}

func TestFilterBills(t *testing.T) {
	bills := []models.Bill{
		{ID: "BILL-1", Customer: models.Customer{Name: "suresh", Village: "Nandyal"}, TotalAmount: 3000, DueAmount: 500, CreatedAt: "2026-03-01T00:00:00.000Z"},
		{ID: "BILL-2", Customer: models.Customer{Name: "Anil", Village: "Kurnool"}, TotalAmount: 1000, DueAmount: 0, CreatedAt: "2026-03-03T00:00:00.000Z"},
		{ID: "BILL-3", Customer: models.Customer{Name: "Mahesh", Village: "Nandyal"}, TotalAmount: 2000, DueAmount: -100, CreatedAt: "2026-03-02T00:00:00.000Z"},
	}
	ids := func(bs []models.Bill) []string {
		out := []string{}
		for _, b := range bs {
			out = append(out, b.ID)
		}
		return out
	}

	assert.Equal(t, []string{"BILL-2", "BILL-3", "BILL-1"}, ids(FilterBills(bills, BillQuery{})))
	assert.Equal(t, []string{"BILL-1", "BILL-3", "BILL-2"}, ids(FilterBills(bills, BillQuery{SortDir: "asc"})))
	assert.Equal(t, []string{"BILL-2", "BILL-3", "BILL-1"}, ids(FilterBills(bills, BillQuery{SortKey: "customer", SortDir: "asc"})))
	assert.Equal(t, []string{"BILL-1", "BILL-3", "BILL-2"}, ids(FilterBills(bills, BillQuery{SortKey: "totalAmount"})))
	assert.Equal(t, []string{"BILL-1"}, ids(FilterBills(bills, BillQuery{Status: "due"})))
	assert.Equal(t, []string{"BILL-2", "BILL-3"}, ids(FilterBills(bills, BillQuery{Status: "paid"})))
	assert.Equal(t, []string{"BILL-3", "BILL-1"}, ids(FilterBills(bills, BillQuery{Search: "NANDYAL"})))
	assert.Equal(t, []string{"BILL-2"}, ids(FilterBills(bills, BillQuery{Search: "bill-2"})))
}

func TestBillShare(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestServices(t)
	v, a := seedFleet(t, svc)
	bill, err := svc.Bills.Save(ctx, acct, draftFor(v, a))
	require.NoError(t, err)

	links, err := svc.Bills.Share(ctx, acct, bill.ID, nil, false)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(links.Message, "*HARVESTER SERVICES - BILL SUMMARY*"), "default payee name is used")
	assert.True(t, strings.HasPrefix(links.WhatsAppURL, "https://wa.me/+919876543210?text="))
	assert.True(t, strings.HasPrefix(links.SMSURL, "sms:9876543210?body="))
	assert.Contains(t, links.Message, "upi://pay?pa=default@ybl&pn=Harvester%20Services&am=1000.00&cu=INR&tn=Bill%20"+bill.ID)
	assert.Equal(t, "upi://pay?pa=default@ybl&pn=Harvester%20Services&am=1000.00&cu=INR&tn=Invoice%20"+bill.ID, links.PaymentURI)

	draft := draftFor(v, a)
	links, err = svc.Bills.Share(ctx, acct, "", &draft, true)
	require.NoError(t, err)
	assert.Contains(t, links.SMSMessage, "tn=Bill%20"+billing.DraftRef(testNow))
	assert.True(t, strings.HasPrefix(links.SMSURL, "sms:9876543210&body="))

	draft.Customer.Mobile = ""
	_, err = svc.Bills.Share(ctx, acct, "", &draft, false)
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = svc.Bills.Share(ctx, acct, "BILL-404", nil, false)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestLedgerAndToggle(t *testing.T) {
	ctx := context.Background()
	svc, _, syncer := newTestServices(t)
	v, a := seedFleet(t, svc)
	bill, err := svc.Bills.Save(ctx, acct, draftFor(v, a))
	require.NoError(t, err)
	before := syncer.count()

	ledger, err := svc.Bills.Ledger(ctx, acct, a.ID, billing.LedgerAll)
	require.NoError(t, err)
	require.Len(t, ledger.Records, 1)
	assert.Equal(t, 500.0, ledger.Totals.Outstanding)

	require.NoError(t, svc.Bills.ToggleCommission(ctx, acct, bill.ID, "s1"))
	ledger, err = svc.Bills.Ledger(ctx, acct, a.ID, billing.LedgerPaid)
	require.NoError(t, err)
	require.Len(t, ledger.Records, 1)
	assert.Equal(t, 0.0, ledger.Totals.Outstanding)
	assert.Equal(t, 500.0, ledger.Totals.Lifetime)
	assert.Equal(t, before+1, syncer.count())

	assert.ErrorIs(t, svc.Bills.ToggleCommission(ctx, acct, bill.ID, "nope"), apperrors.ErrNotFound)
	_, err = svc.Bills.Ledger(ctx, acct, "ghost", billing.LedgerAll)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestBillDelete(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestServices(t)
	v, a := seedFleet(t, svc)
	bill, err := svc.Bills.Save(ctx, acct, draftFor(v, a))
	require.NoError(t, err)

	require.NoError(t, svc.Bills.Delete(ctx, acct, bill.ID))
	_, err = svc.Bills.Get(ctx, acct, bill.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

package billing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"harvesterbilling/models"
)

func ledgerBills() []models.Bill {
	return []models.Bill{
		{
			ID:       "BILL-1",
			Customer: models.Customer{Name: "Suresh"},
			Sessions: []models.WorkingSession{
				{ID: "s1", Date: "2026-01-05", WorkTime: "01:00", StandardRate: 2000, TotalAmount: 2000, MachineID: "v1", AgentID: "a1", AgentCommission: 200},
				{ID: "s2", Date: "2026-01-07", WorkTime: "02:00", StandardRate: 2000, TotalAmount: 4000, MachineID: "v2", AgentID: "a2", AgentCommission: 200},
			},
		},
		{
			ID:       "BILL-2",
			Customer: models.Customer{Name: "Mahesh"},
			Sessions: []models.WorkingSession{
				{ID: "s3", Date: "2026-01-09", WorkTime: "00:30", StandardRate: 2000, TotalAmount: 1000, MachineID: "gone", AgentID: "a1", AgentCommission: 100, CommissionPaid: true},
				{ID: "s4", Date: "2026-01-05", WorkTime: "01:00", StandardRate: 2000, TotalAmount: 2000, MachineID: "v1", AgentID: "a1", AgentCommission: 200},
			},
		},
	}
}

func TestAgentRecords(t *testing.T) {
	records := AgentRecords("a1", ledgerBills(), testCatalog())
	require.Len(t, records, 3)

	assert.Equal(t, "s3", records[0].SessionID)
	assert.Equal(t, "Unknown", records[0].VehicleType)
	assert.True(t, records[0].IsPaid)

	// equal dates keep bill order
	assert.Equal(t, "s1", records[1].SessionID)
	assert.Equal(t, "s4", records[2].SessionID)
	assert.Equal(t, "Harvester", records[1].VehicleType)
	assert.Equal(t, "Suresh", records[1].CustomerName)
	assert.Equal(t, "01:00", records[1].Hours)

	assert.Empty(t, AgentRecords("nobody", ledgerBills(), testCatalog()))
}

func TestFilterRecordsAndTotals(t *testing.T) {
	records := AgentRecords("a1", ledgerBills(), testCatalog())

	assert.Len(t, FilterRecords(records, LedgerAll), 3)
	assert.Len(t, FilterRecords(records, LedgerPending), 2)
	assert.Len(t, FilterRecords(records, LedgerPaid), 1)
	assert.Len(t, FilterRecords(records, "bogus"), 3)

	totals := Totals(records)
	assert.Equal(t, 500.0, totals.Lifetime)
	assert.Equal(t, 400.0, totals.Outstanding)
	assert.Equal(t, 2, totals.PendingCount)
	assert.Equal(t, 1, totals.PaidCount)
}

func TestToggleCommission_ScenarioE(t *testing.T) {
	bills := ledgerBills()

	once, found := ToggleCommission(bills, "BILL-1", "s1")
	require.True(t, found)
	assert.True(t, once[0].Sessions[0].CommissionPaid)
	assert.False(t, bills[0].Sessions[0].CommissionPaid, "input is not mutated")
	assert.Equal(t, bills[0].Sessions[1], once[0].Sessions[1])
	assert.Equal(t, bills[1], once[1])

	twice, found := ToggleCommission(once, "BILL-1", "s1")
	require.True(t, found)
	assert.Equal(t, bills, twice)
}

func TestToggleCommission_NotFound(t *testing.T) {
	bills := ledgerBills()

	out, found := ToggleCommission(bills, "BILL-1", "s3")
	assert.False(t, found, "session belongs to another bill")
	assert.Equal(t, bills, out)

	_, found = ToggleCommission(bills, "BILL-404", "s1")
	assert.False(t, found)
}

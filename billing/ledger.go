package billing

import (
	"sort"
	"time"

	"harvesterbilling/models"
)

type LedgerStatus string

const (
	LedgerAll     LedgerStatus = "all"
	LedgerPending LedgerStatus = "pending"
	LedgerPaid    LedgerStatus = "paid"
)

const unknownVehicleType = "Unknown"

// LedgerTotals summarises an agent's commission records.
type LedgerTotals struct {
	Lifetime     float64 `json:"lifetime"`
	Outstanding  float64 `json:"outstanding"`
	PendingCount int     `json:"pendingCount"`
	PaidCount    int     `json:"paidCount"`
}

// AgentRecords collects every session attributed to the agent across all bills,
// newest session date first. Sessions on the same date keep bill order.
func AgentRecords(agentID string, bills []models.Bill, c Catalog) []models.CommissionRecord {
	records := []models.CommissionRecord{}
	for _, bill := range bills {
		for _, s := range bill.Sessions {
			if s.AgentID == "" || s.AgentID != agentID {
				continue
			}
			vehicleType := unknownVehicleType
			if v, ok := c.Vehicle(s.MachineID); ok {
				vehicleType = string(v.Type)
			}
			records = append(records, models.CommissionRecord{
				BillID:       bill.ID,
				SessionID:    s.ID,
				CustomerName: bill.Customer.Name,
				Date:         s.Date,
				VehicleType:  vehicleType,
				Hours:        s.WorkTime,
				RatePerHour:  s.StandardRate,
				SessionTotal: s.TotalAmount,
				Amount:       s.AgentCommission,
				IsPaid:       s.CommissionPaid,
			})
		}
	}

	sort.SliceStable(records, func(i, j int) bool {
		return recordTime(records[i].Date).After(recordTime(records[j].Date))
	})
	return records
}

// recordTime parses a session date; unparseable dates sort last.
func recordTime(date string) time.Time {
	for _, layout := range []string{DateLayout, time.RFC3339, ISOTimeLayout} {
		if t, err := time.Parse(layout, date); err == nil {
			return t
		}
	}
	return time.Time{}
}

// FilterRecords keeps the records matching status. Unknown statuses behave as "all".
func FilterRecords(records []models.CommissionRecord, status LedgerStatus) []models.CommissionRecord {
	if status != LedgerPending && status != LedgerPaid {
		return records
	}
	out := []models.CommissionRecord{}
	for _, r := range records {
		if r.IsPaid == (status == LedgerPaid) {
			out = append(out, r)
		}
	}
	return out
}

func Totals(records []models.CommissionRecord) LedgerTotals {
	var t LedgerTotals
	for _, r := range records {
		t.Lifetime += r.Amount
		if r.IsPaid {
			t.PaidCount++
			continue
		}
		t.PendingCount++
		t.Outstanding += r.Amount
	}
	return t
}

// ToggleCommission flips the paid flag of exactly one session. It returns a new
// slice; the input bills are not modified. found is false when no session matched.
func ToggleCommission(bills []models.Bill, billID, sessionID string) ([]models.Bill, bool) {
	found := false
	out := make([]models.Bill, len(bills))
	for i, bill := range bills {
		out[i] = bill
		if bill.ID != billID {
			continue
		}
		sessions := make([]models.WorkingSession, len(bill.Sessions))
		for j, s := range bill.Sessions {
			if s.ID == sessionID {
				s.CommissionPaid = !s.CommissionPaid
				found = true
			}
			sessions[j] = s
		}
		out[i].Sessions = sessions
	}
	return out, found
}

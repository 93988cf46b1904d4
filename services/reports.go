package services

import (
	"context"

	"harvesterbilling/billing"
	"harvesterbilling/models"
	"harvesterbilling/repository"
)

type ReportService struct {
	store *repository.Store
}

func (s *ReportService) load(ctx context.Context, accountID string) ([]models.Bill, []models.Expense, []models.Vehicle, error) {
	acct := s.store.Account(accountID)
	bills, err := acct.Bills.List(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	expenses, err := acct.Expenses.List(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	vehicles, err := acct.Vehicles.List(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	return bills, expenses, vehicles, nil
}

func (s *ReportService) Dashboard(ctx context.Context, accountID string) (*models.DashboardStats, error) {
	bills, expenses, _, err := s.load(ctx, accountID)
	if err != nil {
		return nil, err
	}
	stats := DashboardStats(bills, expenses)
	return &stats, nil
}

// DashboardStats counts distinct customers by customer id.
func DashboardStats(bills []models.Bill, expenses []models.Expense) models.DashboardStats {
	sum := Summary(bills, expenses)
	customers := make(map[string]struct{})
	for _, b := range bills {
		customers[b.Customer.ID] = struct{}{}
	}
	return models.DashboardStats{
		TotalRevenue:   sum.TotalRevenue,
		TotalDue:       sum.TotalDue,
		TotalExpenses:  sum.TotalExpenses,
		ActiveSessions: len(bills),
		CustomerCount:  len(customers),
	}
}

// Summary adds up revenue, dues and expenses. Negative dues (credit) reduce the total due.
func Summary(bills []models.Bill, expenses []models.Expense) models.FinancialSummary {
	var s models.FinancialSummary
	for _, b := range bills {
		s.TotalRevenue += b.TotalAmount
		s.TotalDue += b.DueAmount
	}
	for _, e := range expenses {
		s.TotalExpenses += e.Amount
	}
	s.NetProfit = s.TotalRevenue - s.TotalExpenses
	return s
}

func (s *ReportService) Vehicles(ctx context.Context, accountID string) (*models.VehicleReport, error) {
	bills, expenses, vehicles, err := s.load(ctx, accountID)
	if err != nil {
		return nil, err
	}
	report := VehicleReport(bills, expenses, vehicles)
	return &report, nil
}

// VehicleReport attributes session revenue and work time to each vehicle. A bill's
// whole due counts against every vehicle that worked on it.
func VehicleReport(bills []models.Bill, expenses []models.Expense, vehicles []models.Vehicle) models.VehicleReport {
	rows := make([]models.VehicleReportRow, 0, len(vehicles))
	for _, v := range vehicles {
		row := models.VehicleReportRow{ID: v.ID, Name: v.Name, Type: v.Type, Number: v.Number}
		var minutes int64
		for _, b := range bills {
			touched := false
			for _, s := range b.Sessions {
				if s.MachineID != v.ID {
					continue
				}
				touched = true
				row.Revenue += s.TotalAmount
				minutes += billing.WorkMinutes(s.WorkTime)
			}
			if touched {
				row.Due += b.DueAmount
			}
		}
		for _, e := range expenses {
			if e.VehicleID == v.ID {
				row.Expenses += e.Amount
			}
		}
		row.TotalHours = float64(minutes/60) + float64(minutes%60)/60
		row.FormattedTime = billing.FormatMinutes(minutes)
		rows = append(rows, row)
	}
	return models.VehicleReport{Summary: Summary(bills, expenses), Rows: rows}
}

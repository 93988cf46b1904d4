package models

type DashboardStats struct {
	TotalRevenue   float64 `json:"totalRevenue"`
	TotalDue       float64 `json:"totalDue"`
	TotalExpenses  float64 `json:"totalExpenses"`
	ActiveSessions int     `json:"activeSessions"`
	CustomerCount  int     `json:"customerCount"`
}

type FinancialSummary struct {
	TotalRevenue  float64 `json:"totalRev"`
	TotalDue      float64 `json:"totalDue"`
	TotalExpenses float64 `json:"totalExp"`
	NetProfit     float64 `json:"netProfit"`
}

type VehicleReportRow struct {
	ID            string      `json:"id"`
	Name          string      `json:"name"`
	Type          VehicleType `json:"type"`
	Number        string      `json:"number"`
	Revenue       float64     `json:"revenue"`
	Due           float64     `json:"due"`
	Expenses      float64     `json:"expenses"`
	TotalHours    float64     `json:"totalHours"`
	FormattedTime string      `json:"formattedTime"`
}

type VehicleReport struct {
	Summary FinancialSummary   `json:"summary"`
	Rows    []VehicleReportRow `json:"rows"`
}

package models

// CommissionRecord is one row of an agent's ledger, derived from a bill session.
type CommissionRecord struct {
	BillID       string  `json:"billId"`
	SessionID    string  `json:"sessionId"`
	CustomerName string  `json:"customerName"`
	Date         string  `json:"date"`
	VehicleType  string  `json:"vehicleType"`
	Hours        string  `json:"hours"`
	RatePerHour  float64 `json:"ratePerHour"`
	SessionTotal float64 `json:"sessionTotal"`
	Amount       float64 `json:"amount"`
	IsPaid       bool    `json:"isPaid"`
}

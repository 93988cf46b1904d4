package models

type DriverPayment struct {
	Date   string      `json:"date"`
	Amount float64     `json:"amount"`
	Type   PaymentType `json:"type"`
}

// Driver.PendingAmount is salary minus advance, computed once at creation.
type Driver struct {
	ID             string          `json:"id"`
	Name           string          `json:"name" validate:"required"`
	Mobile         string          `json:"mobile"`
	WorkStartDate  string          `json:"workStartDate"`
	WorkEndDate    string          `json:"workEndDate,omitempty"`
	SalaryPerMonth float64         `json:"salaryPerMonth" validate:"gt=0"`
	AdvanceAmount  float64         `json:"advanceAmount"`
	PendingAmount  float64         `json:"pendingAmount"`
	PaymentHistory []DriverPayment `json:"paymentHistory"`
}

func (d Driver) EntityID() string { return d.ID }

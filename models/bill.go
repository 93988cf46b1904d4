package models

type PaymentType string

const (
	PaymentCash      PaymentType = "Cash"
	PaymentPhonePe   PaymentType = "PhonePe"
	PaymentGooglePay PaymentType = "Google Pay"
	PaymentOnline    PaymentType = "Online"
)

var PaymentTypes = []PaymentType{PaymentCash, PaymentPhonePe, PaymentGooglePay, PaymentOnline}

// Bill is one invoice aggregating one customer's sessions for one settlement.
// DueAmount = TotalAmount - PaidAmount and is negative when the customer overpaid.
type Bill struct {
	ID          string           `json:"id"`
	Customer    Customer         `json:"customer"`
	Sessions    []WorkingSession `json:"sessions"`
	TotalAmount float64          `json:"totalAmount"`
	PaidAmount  float64          `json:"paidAmount"`
	DueAmount   float64          `json:"dueAmount"`
	PaymentType PaymentType      `json:"paymentType"`
	CreatedAt   string           `json:"createdAt"`
}

func (b Bill) EntityID() string { return b.ID }

// BillDraft is the interactively built bill before it is saved.
// EditingID is set when the draft replaces an existing bill.
type BillDraft struct {
	EditingID   string           `json:"editingId,omitempty"`
	Customer    Customer         `json:"customer"`
	Sessions    []WorkingSession `json:"sessions"`
	PaidAmount  float64          `json:"paidAmount"`
	PaymentType PaymentType      `json:"paymentType"`
}

package models

type ExpenseCategory string

const (
	ExpenseFood    ExpenseCategory = "Food"
	ExpenseDiesel  ExpenseCategory = "Diesel"
	ExpensePetrol  ExpenseCategory = "Petrol"
	ExpenseTaxToll ExpenseCategory = "Tax & Tollgate"
	ExpenseRTO     ExpenseCategory = "RTO"
	ExpenseOthers  ExpenseCategory = "Others"
)

type Expense struct {
	ID          string          `json:"id"`
	VehicleID   string          `json:"vehicleId" validate:"required"`
	Category    ExpenseCategory `json:"category" validate:"required,oneof=Food Diesel Petrol 'Tax & Tollgate' RTO Others"`
	Amount      float64         `json:"amount" validate:"gt=0"`
	Date        string          `json:"date"`
	BillCopyURL string          `json:"billCopyUrl,omitempty"`
}

func (e Expense) EntityID() string { return e.ID }

package models

// Customer is embedded in each bill. Name+mobile is the informal dedup key; it is not enforced.
type Customer struct {
	ID      string `json:"id"`
	Name    string `json:"name" validate:"required"`
	Mobile  string `json:"mobile" validate:"required"`
	Village string `json:"village"`
}

package models

// AppSettings is the per-account business profile. The cloud fields keep the
// key names of the original browser app so stored snapshots stay compatible.
type AppSettings struct {
	CompanyName      string `json:"companyName"`
	Description      string `json:"description"`
	OwnerName        string `json:"ownerName"`
	Address          string `json:"address"`
	Mobile           string `json:"mobile"`
	Email            string `json:"email"`
	UPIID            string `json:"upiId"`
	Logo             string `json:"logo,omitempty"`
	Theme            string `json:"theme" validate:"omitempty,oneof=light dark"`
	CloudSyncEnabled bool   `json:"googleDriveEnabled,omitempty"`
	LastSync         string `json:"googleDriveLastSync,omitempty"`
	CloudClientID    string `json:"googleClientId"`
}

// InitialSettings is used when an account has no stored settings yet.
func InitialSettings() AppSettings {
	return AppSettings{Theme: "light"}
}

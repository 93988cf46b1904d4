package repository

import "fmt"

const (
	UsersKey       = "harvester_users"
	CloudTokenKey  = "harvester_gdrive_token"
	AccountsPrefix = "u_"
	GlobalPrefix   = "harvester_"
)

const (
	SettingsSuffix      = "settings"
	BillsSuffix         = "bills"
	VehiclesSuffix      = "vehicles"
	DriversSuffix       = "drivers"
	AgentsSuffix        = "agents"
	ExpensesSuffix      = "expenses"
	NotificationsSuffix = "notifications"
)

// AccountPrefix is the namespace of every key owned by one account.
func AccountPrefix(accountID string) string {
	return fmt.Sprintf("%s%s_", AccountsPrefix, accountID)
}

func AccountKey(accountID, suffix string) string {
	return AccountPrefix(accountID) + suffix
}

package repository

import "harvesterbilling/models"

// Store hands out typed views over a KVStore. All views share one lock table,
// so two views on the same key serialise their writes.
type Store struct {
	KV    KVStore
	locks *keyLocks
}

func NewStore(kv KVStore) *Store {
	return &Store{KV: kv, locks: newKeyLocks()}
}

// Account groups the collections of one account namespace.
type Account struct {
	ID            string
	Settings      *Document[models.AppSettings]
	Bills         *Collection[models.Bill]
	Vehicles      *Collection[models.Vehicle]
	Drivers       *Collection[models.Driver]
	Agents        *Collection[models.Agent]
	Expenses      *Collection[models.Expense]
	Notifications *Collection[models.AppNotification]
}

func (s *Store) Account(accountID string) *Account {
	key := func(suffix string) string { return AccountKey(accountID, suffix) }
	return &Account{
		ID:            accountID,
		Settings:      newDocument(s.KV, s.locks, key(SettingsSuffix), models.InitialSettings),
		Bills:         newCollection[models.Bill](s.KV, s.locks, key(BillsSuffix)),
		Vehicles:      newCollection[models.Vehicle](s.KV, s.locks, key(VehiclesSuffix)),
		Drivers:       newCollection[models.Driver](s.KV, s.locks, key(DriversSuffix)),
		Agents:        newCollection[models.Agent](s.KV, s.locks, key(AgentsSuffix)),
		Expenses:      newCollection[models.Expense](s.KV, s.locks, key(ExpensesSuffix)),
		Notifications: newCollection[models.AppNotification](s.KV, s.locks, key(NotificationsSuffix)),
	}
}

// Users is the registry of login accounts shared by the whole installation.
func (s *Store) Users() *Collection[models.AppUser] {
	return newCollection[models.AppUser](s.KV, s.locks, UsersKey)
}

package services

import (
	"time"

	"harvesterbilling/billing"
	"harvesterbilling/repository"
)

// CloudSyncer pushes a backup in the background after writes that the
// browser app synced eagerly (login, vehicles, agents, commission toggles).
type CloudSyncer interface {
	PushAsync(accountID string)
}

type noopSyncer struct{}

func (noopSyncer) PushAsync(string) {}

// Options carries the installation-wide defaults.
type Options struct {
	Payee            billing.Payee
	CountryCode      string
	OverdueAfterDays int
	// Clock defaults to time.Now.
	Clock func() time.Time
}

// Services bundles everything the HTTP layer needs.
type Services struct {
	Accounts      *AccountService
	Fleet         *FleetService
	Bills         *BillService
	Notifications *NotificationService
	Reports       *ReportService
}

func New(store *repository.Store, users repository.UserRepository, syncer CloudSyncer, opts Options) *Services {
	if syncer == nil {
		syncer = noopSyncer{}
	}
	if opts.OverdueAfterDays <= 0 {
		opts.OverdueAfterDays = DefaultOverdueAfterDays
	}
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}

	notes := &NotificationService{store: store, users: users, now: clock, overdueAfterDays: opts.OverdueAfterDays}
	return &Services{
		Accounts:      &AccountService{store: store, users: users, syncer: syncer},
		Fleet:         &FleetService{store: store, syncer: syncer, notes: notes, now: clock},
		Bills:         &BillService{store: store, syncer: syncer, notes: notes, opts: opts, now: clock},
		Notifications: notes,
		Reports:       &ReportService{store: store},
	}
}

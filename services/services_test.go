package services

import (
	"sync"
	"testing"
	"time"

	"harvesterbilling/billing"
	"harvesterbilling/repository"
)

type recordingSyncer struct {
	mu    sync.Mutex
	calls []string
}

func (r *recordingSyncer) PushAsync(accountID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, accountID)
}

func (r *recordingSyncer) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.calls)
}

var testNow = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

func newTestServices(t *testing.T) (*Services, *repository.Store, *recordingSyncer) {
	t.Helper()
	store := repository.NewStore(repository.NewMemoryKVStore())
	syncer := &recordingSyncer{}
	svc := New(store, repository.NewKVUserRepo(store), syncer, Options{
		Payee:       billing.Payee{UPIID: "default@ybl", Name: "Harvester Services", Currency: "INR"},
		CountryCode: "+91",
		Clock:       func() time.Time { return testNow },
	})
	return svc, store, syncer
}

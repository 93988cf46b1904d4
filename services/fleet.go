package services

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	"harvesterbilling/apperrors"
	"harvesterbilling/billing"
	"harvesterbilling/models"
	"harvesterbilling/repository"
)

const highExpenseThreshold = 5000

// FleetService manages settings, vehicles, drivers, agents and expenses of an account.
type FleetService struct {
	store  *repository.Store
	syncer CloudSyncer
	notes  *NotificationService
	now    func() time.Time
}

func (s *FleetService) GetSettings(ctx context.Context, accountID string) (models.AppSettings, error) {
	return s.store.Account(accountID).Settings.Get(ctx)
}

// UpdateSettings replaces the profile. Cloud sync bookkeeping is kept from the stored copy.
func (s *FleetService) UpdateSettings(ctx context.Context, accountID string, in models.AppSettings) (models.AppSettings, error) {
	if in.Theme == "" {
		in.Theme = "light"
	}
	if err := validateStruct(in); err != nil {
		return in, err
	}
	return s.store.Account(accountID).Settings.Update(ctx, func(st *models.AppSettings) error {
		lastSync, enabled := st.LastSync, st.CloudSyncEnabled
		*st = in
		st.LastSync, st.CloudSyncEnabled = lastSync, enabled
		return nil
	})
}

func (s *FleetService) ListVehicles(ctx context.Context, accountID string) ([]models.Vehicle, error) {
	return s.store.Account(accountID).Vehicles.List(ctx)
}

// SaveVehicle creates the vehicle when it has no id, otherwise replaces it.
func (s *FleetService) SaveVehicle(ctx context.Context, accountID string, v models.Vehicle) (*models.Vehicle, error) {
	if err := validateStruct(v); err != nil {
		return nil, err
	}
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	if err := s.store.Account(accountID).Vehicles.Upsert(ctx, v); err != nil {
		return nil, err
	}
	s.syncer.PushAsync(accountID)
	return &v, nil
}

func (s *FleetService) DeleteVehicle(ctx context.Context, accountID, id string) error {
	if err := deleteByID(ctx, s.store.Account(accountID).Vehicles, id); err != nil {
		return err
	}
	s.syncer.PushAsync(accountID)
	return nil
}

func (s *FleetService) ListDrivers(ctx context.Context, accountID string) ([]models.Driver, error) {
	return s.store.Account(accountID).Drivers.List(ctx)
}

// SaveDriver computes the pending amount for new drivers only; edits keep the stored value.
func (s *FleetService) SaveDriver(ctx context.Context, accountID string, d models.Driver) (*models.Driver, error) {
	if err := validateStruct(d); err != nil {
		return nil, err
	}
	drivers := s.store.Account(accountID).Drivers

	var saved models.Driver
	_, err := drivers.Mutate(ctx, func(items []models.Driver) ([]models.Driver, error) {
		if d.ID != "" {
			for i := range items {
				if items[i].ID == d.ID {
					d.PendingAmount = items[i].PendingAmount
					d.PaymentHistory = items[i].PaymentHistory
					items[i] = d
					saved = d
					return items, nil
				}
			}
		} else {
			d.ID = uuid.NewString()
		}
		d.PendingAmount = d.SalaryPerMonth - d.AdvanceAmount
		if d.PaymentHistory == nil {
			d.PaymentHistory = []models.DriverPayment{}
		}
		saved = d
		return append(items, d), nil
	})
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

// AddDriverPayment appends to the driver's payment history.
func (s *FleetService) AddDriverPayment(ctx context.Context, accountID, driverID string, p models.DriverPayment) (*models.Driver, error) {
	if p.Amount <= 0 {
		return nil, apperrors.Validation("amount: must be greater than 0")
	}
	if p.Date == "" {
		p.Date = s.now().Format(billing.DateLayout)
	}
	if p.Type == "" {
		p.Type = models.PaymentCash
	}

	var saved *models.Driver
	_, err := s.store.Account(accountID).Drivers.Mutate(ctx, func(items []models.Driver) ([]models.Driver, error) {
		for i := range items {
			if items[i].ID == driverID {
				items[i].PaymentHistory = append(items[i].PaymentHistory, p)
				d := items[i]
				saved = &d
				return items, nil
			}
		}
		return nil, apperrors.ErrNotFound
	})
	return saved, err
}

func (s *FleetService) DeleteDriver(ctx context.Context, accountID, id string) error {
	return deleteByID(ctx, s.store.Account(accountID).Drivers, id)
}

func (s *FleetService) ListAgents(ctx context.Context, accountID string) ([]models.Agent, error) {
	return s.store.Account(accountID).Agents.List(ctx)
}

// SaveAgent fills the default commission rates when none are given.
func (s *FleetService) SaveAgent(ctx context.Context, accountID string, a models.Agent) (*models.Agent, error) {
	if err := validateStruct(a); err != nil {
		return nil, err
	}
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if len(a.VehicleCommissions) == 0 {
		a.VehicleCommissions = models.DefaultVehicleCommissions()
	}
	for vt, rate := range a.VehicleCommissions {
		if rate < 0 {
			return nil, apperrors.Validation(fmt.Sprintf("vehicleCommissions: rate for %s must not be negative", vt))
		}
	}
	if err := s.store.Account(accountID).Agents.Upsert(ctx, a); err != nil {
		return nil, err
	}
	s.syncer.PushAsync(accountID)
	return &a, nil
}

// DeleteAgent leaves sessions referencing the agent untouched.
func (s *FleetService) DeleteAgent(ctx context.Context, accountID, id string) error {
	if err := deleteByID(ctx, s.store.Account(accountID).Agents, id); err != nil {
		return err
	}
	s.syncer.PushAsync(accountID)
	return nil
}

func (s *FleetService) ListExpenses(ctx context.Context, accountID string) ([]models.Expense, error) {
	return s.store.Account(accountID).Expenses.List(ctx)
}

// AddExpense records the expense newest-first and raises a notification for
// diesel refills or unusually large amounts.
func (s *FleetService) AddExpense(ctx context.Context, accountID string, e models.Expense) (*models.Expense, error) {
	if e.Category == "" {
		e.Category = models.ExpenseDiesel
	}
	if err := validateStruct(e); err != nil {
		return nil, err
	}
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Date == "" {
		e.Date = s.now().Format(billing.DateLayout)
	}

	acct := s.store.Account(accountID)
	if err := acct.Expenses.Prepend(ctx, e); err != nil {
		return nil, err
	}

	vehicle, err := acct.Vehicles.GetByID(ctx, e.VehicleID)
	if err != nil {
		return &e, err
	}
	if n := expenseNotification(e, vehicle); n != nil {
		if err := s.notes.Add(ctx, accountID, *n); err != nil {
			return &e, err
		}
	}
	return &e, nil
}

func expenseNotification(e models.Expense, vehicle *models.Vehicle) *models.AppNotification {
	name, number := "Unknown vehicle", "-"
	if vehicle != nil {
		name, number = vehicle.Name, vehicle.Number
	}
	amount := strconv.FormatFloat(e.Amount, 'f', -1, 64)

	switch {
	case e.Category == models.ExpenseDiesel:
		return &models.AppNotification{
			Title:   "Diesel Refill: " + name,
			Message: fmt.Sprintf("Operational cost of ₹%s recorded for %s.", amount, number),
			Type:    models.NotificationExpense,
		}
	case e.Amount > highExpenseThreshold:
		return &models.AppNotification{
			Title:   "High Expense Recorded",
			Message: fmt.Sprintf("A significant cost of ₹%s was logged under %s.", amount, e.Category),
			Type:    models.NotificationExpense,
		}
	}
	return nil
}

func (s *FleetService) DeleteExpense(ctx context.Context, accountID, id string) error {
	return deleteByID(ctx, s.store.Account(accountID).Expenses, id)
}

func deleteByID[T repository.Entity](ctx context.Context, c *repository.Collection[T], id string) error {
	found, err := c.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !found {
		return apperrors.ErrNotFound
	}
	return nil
}

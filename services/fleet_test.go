package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"harvesterbilling/apperrors"
	"harvesterbilling/models"
)

const acct = "acct-1"

func TestVehicles(t *testing.T) {
	ctx := context.Background()
	svc, _, syncer := newTestServices(t)

	_, err := svc.Fleet.SaveVehicle(ctx, acct, models.Vehicle{Name: "Bike", Type: "3-wheel"})
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	v, err := svc.Fleet.SaveVehicle(ctx, acct, models.Vehicle{Name: "Kartar", Type: models.VehicleHarvester, Number: "AP 01"})
	require.NoError(t, err)
	assert.NotEmpty(t, v.ID)

	v.Number = "AP 02"
	_, err = svc.Fleet.SaveVehicle(ctx, acct, *v)
	require.NoError(t, err)

	vehicles, err := svc.Fleet.ListVehicles(ctx, acct)
	require.NoError(t, err)
	require.Len(t, vehicles, 1)
	assert.Equal(t, "AP 02", vehicles[0].Number)

	require.NoError(t, svc.Fleet.DeleteVehicle(ctx, acct, v.ID))
	assert.ErrorIs(t, svc.Fleet.DeleteVehicle(ctx, acct, v.ID), apperrors.ErrNotFound)
	assert.Equal(t, 3, syncer.count())
}

func TestDrivers_PendingFixedAtCreation(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestServices(t)

	d, err := svc.Fleet.SaveDriver(ctx, acct, models.Driver{Name: "Raju", SalaryPerMonth: 15000, AdvanceAmount: 4000})
	require.NoError(t, err)
	assert.Equal(t, 11000.0, d.PendingAmount)
	assert.NotNil(t, d.PaymentHistory)

	d.AdvanceAmount = 9000
	d.PendingAmount = 1
	edited, err := svc.Fleet.SaveDriver(ctx, acct, *d)
	require.NoError(t, err)
	assert.Equal(t, 11000.0, edited.PendingAmount, "edits do not recompute the pending amount")
	assert.Equal(t, 9000.0, edited.AdvanceAmount)

	_, err = svc.Fleet.SaveDriver(ctx, acct, models.Driver{Name: "Zero"})
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestDrivers_Payments(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestServices(t)
	d, err := svc.Fleet.SaveDriver(ctx, acct, models.Driver{Name: "Raju", SalaryPerMonth: 15000})
	require.NoError(t, err)

	updated, err := svc.Fleet.AddDriverPayment(ctx, acct, d.ID, models.DriverPayment{Amount: 5000})
	require.NoError(t, err)
	require.Len(t, updated.PaymentHistory, 1)
	assert.Equal(t, "2026-03-10", updated.PaymentHistory[0].Date)
	assert.Equal(t, models.PaymentCash, updated.PaymentHistory[0].Type)

	_, err = svc.Fleet.AddDriverPayment(ctx, acct, "missing", models.DriverPayment{Amount: 1})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	_, err = svc.Fleet.AddDriverPayment(ctx, acct, d.ID, models.DriverPayment{})
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestAgents_DefaultRates(t *testing.T) {
	ctx := context.Background()
	svc, _, syncer := newTestServices(t)

	a, err := svc.Fleet.SaveAgent(ctx, acct, models.Agent{Name: "Ramesh", Mobile: "9000000001"})
	require.NoError(t, err)
	assert.Equal(t, 50.0, a.VehicleCommissions[models.VehicleTwoWheel])
	assert.Equal(t, 100.0, a.VehicleCommissions[models.VehicleFourWheel])
	assert.Equal(t, 150.0, a.VehicleCommissions[models.VehicleTrack])
	assert.Equal(t, 200.0, a.VehicleCommissions[models.VehicleHarvester])

	_, err = svc.Fleet.SaveAgent(ctx, acct, models.Agent{Name: "Neg", Mobile: "1",
		VehicleCommissions: map[models.VehicleType]float64{models.VehicleTrack: -1}})
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	require.NoError(t, svc.Fleet.DeleteAgent(ctx, acct, a.ID))
	assert.Equal(t, 2, syncer.count())
}

func TestExpenses_NewestFirstAndNotifications(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestServices(t)
	v, err := svc.Fleet.SaveVehicle(ctx, acct, models.Vehicle{Name: "Kartar", Type: models.VehicleHarvester, Number: "AP 01"})
	require.NoError(t, err)

	_, err = svc.Fleet.AddExpense(ctx, acct, models.Expense{VehicleID: v.ID, Category: models.ExpenseDiesel, Amount: 3000})
	require.NoError(t, err)
	_, err = svc.Fleet.AddExpense(ctx, acct, models.Expense{VehicleID: v.ID, Category: models.ExpenseRTO, Amount: 7000})
	require.NoError(t, err)
	_, err = svc.Fleet.AddExpense(ctx, acct, models.Expense{VehicleID: v.ID, Category: models.ExpenseFood, Amount: 200})
	require.NoError(t, err)
	_, err = svc.Fleet.AddExpense(ctx, acct, models.Expense{VehicleID: v.ID, Category: models.ExpenseTaxToll, Amount: 5000})
	require.NoError(t, err)

	expenses, err := svc.Fleet.ListExpenses(ctx, acct)
	require.NoError(t, err)
	require.Len(t, expenses, 4)
	assert.Equal(t, models.ExpenseTaxToll, expenses[0].Category)
	assert.Equal(t, models.ExpenseDiesel, expenses[3].Category)

	notes, err := svc.Notifications.List(ctx, acct)
	require.NoError(t, err)
	require.Len(t, notes, 2)
	assert.Equal(t, "High Expense Recorded", notes[0].Title)
	assert.Equal(t, "A significant cost of ₹7000 was logged under RTO.", notes[0].Message)
	assert.Equal(t, "Diesel Refill: Kartar", notes[1].Title)
	assert.Equal(t, "Operational cost of ₹3000 recorded for AP 01.", notes[1].Message)

	_, err = svc.Fleet.AddExpense(ctx, acct, models.Expense{Category: models.ExpenseFood, Amount: 10})
	assert.ErrorIs(t, err, apperrors.ErrValidation, "vehicle is required")
	_, err = svc.Fleet.AddExpense(ctx, acct, models.Expense{VehicleID: v.ID, Amount: 0})
	assert.ErrorIs(t, err, apperrors.ErrValidation, "amount is required")
}

func TestSettings_KeepsSyncFields(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := newTestServices(t)
	require.NoError(t, store.Account(acct).Settings.Put(ctx, models.AppSettings{LastSync: "2026-01-01T00:00:00.000Z", CloudSyncEnabled: true}))

	got, err := svc.Fleet.UpdateSettings(ctx, acct, models.AppSettings{CompanyName: "Sri", Theme: "dark"})
	require.NoError(t, err)
	assert.Equal(t, "Sri", got.CompanyName)
	assert.Equal(t, "2026-01-01T00:00:00.000Z", got.LastSync)
	assert.True(t, got.CloudSyncEnabled)

	_, err = svc.Fleet.UpdateSettings(ctx, acct, models.AppSettings{Theme: "neon"})
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	stored, err := svc.Fleet.GetSettings(ctx, acct)
	require.NoError(t, err)
	assert.Equal(t, "dark", stored.Theme)
}

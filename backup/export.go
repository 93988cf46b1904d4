package backup

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"harvesterbilling/apperrors"
	"harvesterbilling/billing"
	"harvesterbilling/models"
	"harvesterbilling/repository"
)

// AccountExport is the downloadable backup of one account.
type AccountExport struct {
	Settings models.AppSettings `json:"settings"`
	Bills    []models.Bill      `json:"bills"`
	Expenses []models.Expense   `json:"expenses"`
	Vehicles []models.Vehicle   `json:"vehicles"`
	Drivers  []models.Driver    `json:"drivers"`
	Agents   []models.Agent     `json:"agents"`
}

func ExportFileName(loginID string, now time.Time) string {
	return fmt.Sprintf("harvester_backup_%s_%s.json", loginID, now.Format(billing.DateLayout))
}

func ExportAccount(ctx context.Context, acct *repository.Account) (*AccountExport, error) {
	var (
		out AccountExport
		err error
	)
	if out.Settings, err = acct.Settings.Get(ctx); err != nil {
		return nil, err
	}
	if out.Bills, err = acct.Bills.List(ctx); err != nil {
		return nil, err
	}
	if out.Expenses, err = acct.Expenses.List(ctx); err != nil {
		return nil, err
	}
	if out.Vehicles, err = acct.Vehicles.List(ctx); err != nil {
		return nil, err
	}
	if out.Drivers, err = acct.Drivers.List(ctx); err != nil {
		return nil, err
	}
	if out.Agents, err = acct.Agents.List(ctx); err != nil {
		return nil, err
	}
	return &out, nil
}

// importFile uses raw messages so absent sections can be told apart from empty ones.
type importFile struct {
	Settings json.RawMessage `json:"settings"`
	Bills    json.RawMessage `json:"bills"`
	Expenses json.RawMessage `json:"expenses"`
	Vehicles json.RawMessage `json:"vehicles"`
	Drivers  json.RawMessage `json:"drivers"`
	Agents   json.RawMessage `json:"agents"`
}

func decodeSection[T any](name string, raw json.RawMessage, out *T) (bool, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return false, nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return false, apperrors.Validation(fmt.Sprintf("invalid backup file: %s: %v", name, err))
	}
	return true, nil
}

// ImportAccount restores an AccountExport into the account. Every section is
// decoded before anything is written, so a malformed file leaves state untouched.
// Sections missing from the file are left as they are.
func ImportAccount(ctx context.Context, acct *repository.Account, raw []byte) error {
	var f importFile
	if err := json.Unmarshal(raw, &f); err != nil {
		return apperrors.Validation("invalid backup file: " + err.Error())
	}

	var data AccountExport
	var writes []func() error

	if ok, err := decodeSection("settings", f.Settings, &data.Settings); err != nil {
		return err
	} else if ok {
		writes = append(writes, func() error { return acct.Settings.Put(ctx, data.Settings) })
	}
	if ok, err := decodeSection("bills", f.Bills, &data.Bills); err != nil {
		return err
	} else if ok {
		writes = append(writes, func() error { return acct.Bills.Replace(ctx, data.Bills) })
	}
	if ok, err := decodeSection("expenses", f.Expenses, &data.Expenses); err != nil {
		return err
	} else if ok {
		writes = append(writes, func() error { return acct.Expenses.Replace(ctx, data.Expenses) })
	}
	if ok, err := decodeSection("vehicles", f.Vehicles, &data.Vehicles); err != nil {
		return err
	} else if ok {
		writes = append(writes, func() error { return acct.Vehicles.Replace(ctx, data.Vehicles) })
	}
	if ok, err := decodeSection("drivers", f.Drivers, &data.Drivers); err != nil {
		return err
	} else if ok {
		writes = append(writes, func() error { return acct.Drivers.Replace(ctx, data.Drivers) })
	}
	if ok, err := decodeSection("agents", f.Agents, &data.Agents); err != nil {
		return err
	} else if ok {
		writes = append(writes, func() error { return acct.Agents.Replace(ctx, data.Agents) })
	}

	if len(writes) == 0 {
		return apperrors.Validation("invalid backup file: no sections found")
	}
	for _, w := range writes {
		if err := w(); err != nil {
			return err
		}
	}
	return nil
}

package services

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"harvesterbilling/apperrors"
	"harvesterbilling/billing"
	"harvesterbilling/logger"
	"harvesterbilling/metrics"
	"harvesterbilling/models"
	"harvesterbilling/repository"
)

const (
	MaxNotifications        = 50
	DefaultOverdueAfterDays = 3
)

type NotificationService struct {
	store            *repository.Store
	users            repository.UserRepository
	now              func() time.Time
	overdueAfterDays int
}

// Add prepends the notification and keeps only the newest MaxNotifications.
func (s *NotificationService) Add(ctx context.Context, accountID string, n models.AppNotification) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	if n.Title == "" {
		n.Title = "Alert"
	}
	if n.Type == "" {
		n.Type = models.NotificationSystem
	}
	if n.Timestamp == "" {
		n.Timestamp = s.now().UTC().Format(billing.ISOTimeLayout)
	}
	n.IsRead = false

	_, err := s.store.Account(accountID).Notifications.Mutate(ctx, func(items []models.AppNotification) ([]models.AppNotification, error) {
		items = append([]models.AppNotification{n}, items...)
		if len(items) > MaxNotifications {
			items = items[:MaxNotifications]
		}
		return items, nil
	})
	return err
}

func (s *NotificationService) List(ctx context.Context, accountID string) ([]models.AppNotification, error) {
	return s.store.Account(accountID).Notifications.List(ctx)
}

func (s *NotificationService) UnreadCount(ctx context.Context, accountID string) (int, error) {
	items, err := s.List(ctx, accountID)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, it := range items {
		if !it.IsRead {
			n++
		}
	}
	return n, nil
}

func (s *NotificationService) MarkRead(ctx context.Context, accountID, id string) error {
	found := false
	_, err := s.store.Account(accountID).Notifications.Mutate(ctx, func(items []models.AppNotification) ([]models.AppNotification, error) {
		for i := range items {
			if items[i].ID == id {
				items[i].IsRead = true
				found = true
			}
		}
		return items, nil
	})
	if err != nil {
		return err
	}
	if !found {
		return apperrors.ErrNotFound
	}
	return nil
}

func (s *NotificationService) ClearAll(ctx context.Context, accountID string) error {
	return s.store.KV.Remove(ctx, s.store.Account(accountID).Notifications.Key())
}

// billAgeDays counts started days since the bill was created; unparseable dates yield 0.
func billAgeDays(createdAt string, now time.Time) int {
	t, err := time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return 0
	}
	return int(math.Ceil(now.Sub(t).Hours() / 24))
}

// ScanOverdue raises one overdue reminder per customer whose bill still has a
// balance after the configured number of days. Customers that already have an
// overdue reminder naming them are skipped.
func (s *NotificationService) ScanOverdue(ctx context.Context, accountID string) (int, error) {
	acct := s.store.Account(accountID)
	bills, err := acct.Bills.List(ctx)
	if err != nil {
		return 0, err
	}
	existing, err := acct.Notifications.List(ctx)
	if err != nil {
		return 0, err
	}

	notified := func(name string) bool {
		for _, n := range existing {
			if n.Type == models.NotificationOverdue && strings.Contains(n.Title, name) {
				return true
			}
		}
		return false
	}

	now := s.now()
	raised := 0
	for _, bill := range bills {
		if bill.DueAmount <= 0 {
			continue
		}
		days := billAgeDays(bill.CreatedAt, now)
		if days <= s.overdueAfterDays {
			continue
		}
		name := bill.Customer.Name
		if notified(name) {
			continue
		}
		n := models.AppNotification{
			Title: "Overdue: " + name,
			Message: fmt.Sprintf("Bill of ₹%s is pending for %d days. Contact %s.",
				strconv.FormatFloat(bill.DueAmount, 'f', -1, 64), days, bill.Customer.Mobile),
			Type: models.NotificationOverdue,
		}
		if err := s.Add(ctx, accountID, n); err != nil {
			return raised, err
		}
		existing = append(existing, n)
		raised++
	}
	return raised, nil
}

// ScanAllAccounts runs ScanOverdue for every registered account. A failing
// account is logged and does not stop the others.
func (s *NotificationService) ScanAllAccounts(ctx context.Context) error {
	users, err := s.users.ListUsers(ctx)
	if err != nil {
		return err
	}
	for _, u := range users {
		raised, err := s.ScanOverdue(ctx, u.ID)
		if err != nil {
			logger.Error("overdue scan failed", zap.String("account_id", u.ID), zap.Error(err))
			continue
		}
		if raised > 0 {
			metrics.OverdueNotifications.Add(float64(raised))
			logger.Info("overdue reminders raised", zap.String("account_id", u.ID), zap.Int("count", raised))
		}
	}
	return nil
}

// RunOverdueScanner scans immediately and then on every tick until ctx is done.
func (s *NotificationService) RunOverdueScanner(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if err := s.ScanAllAccounts(ctx); err != nil {
			logger.Error("overdue scan failed", zap.Error(err))
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

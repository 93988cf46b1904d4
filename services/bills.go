package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"harvesterbilling/apperrors"
	"harvesterbilling/billing"
	"harvesterbilling/logger"
	"harvesterbilling/metrics"
	"harvesterbilling/models"
	"harvesterbilling/repository"
)

type BillService struct {
	store  *repository.Store
	syncer CloudSyncer
	notes  *NotificationService
	opts   Options
	now    func() time.Time
}

func (s *BillService) catalog(ctx context.Context, acct *repository.Account) (billing.Catalog, error) {
	vehicles, err := acct.Vehicles.List(ctx)
	if err != nil {
		return billing.Catalog{}, err
	}
	agents, err := acct.Agents.List(ctx)
	if err != nil {
		return billing.Catalog{}, err
	}
	return billing.NewCatalog(vehicles, agents), nil
}

// Preview is the live bill form state: recomputed sessions and totals without saving.
type Preview struct {
	Bill          models.Bill `json:"bill"`
	TotalHours    float64     `json:"totalHours"`
	TotalDuration string      `json:"totalDuration"`
}

func (s *BillService) Preview(ctx context.Context, accountID string, draft models.BillDraft) (*Preview, error) {
	c, err := s.catalog(ctx, s.store.Account(accountID))
	if err != nil {
		return nil, err
	}
	bill := billing.Aggregate(draft, c)
	hours := billing.TotalHours(bill.Sessions)
	return &Preview{Bill: bill, TotalHours: hours, TotalDuration: billing.FormatDuration(hours)}, nil
}

// NewSession returns a blank session preselecting the account's first vehicle.
func (s *BillService) NewSession(ctx context.Context, accountID string) (models.WorkingSession, error) {
	c, err := s.catalog(ctx, s.store.Account(accountID))
	if err != nil {
		return models.WorkingSession{}, err
	}
	return billing.NewSession(c, s.now()), nil
}

// Save validates and stores the draft. An edit replaces the stored bill by id and
// keeps its creation time; an edit of an unknown id is stored as a new bill.
func (s *BillService) Save(ctx context.Context, accountID string, draft models.BillDraft) (*models.Bill, error) {
	acct := s.store.Account(accountID)
	c, err := s.catalog(ctx, acct)
	if err != nil {
		return nil, err
	}
	bill, err := billing.BuildBill(draft, c, s.now())
	if err != nil {
		return nil, err
	}

	kind := "created"
	_, err = acct.Bills.Mutate(ctx, func(bills []models.Bill) ([]models.Bill, error) {
		for i := range bills {
			if bills[i].ID == bill.ID {
				if bills[i].CreatedAt != "" {
					bill.CreatedAt = bills[i].CreatedAt
				}
				bills[i] = bill
				kind = "edited"
				return bills, nil
			}
		}
		return append(bills, bill), nil
	})
	if err != nil {
		return nil, err
	}
	metrics.BillsSaved.WithLabelValues(kind).Inc()
	logger.Info("bill saved",
		zap.String("account_id", accountID),
		zap.String("bill_id", bill.ID),
		zap.String("kind", kind),
		zap.Float64("total", bill.TotalAmount),
		zap.Float64("due", bill.DueAmount))

	if err := s.notes.Add(ctx, accountID, billNotification(bill)); err != nil {
		logger.Warn("bill notification not stored", zap.String("bill_id", bill.ID), zap.Error(err))
	}
	return &bill, nil
}

func billNotification(b models.Bill) models.AppNotification {
	if b.DueAmount > 0 {
		return models.AppNotification{
			Title:   "Outstanding Due Recorded",
			Message: fmt.Sprintf("Bill for %s saved. Balance: Rs. %s", b.Customer.Name, billing.FormatRupees(b.DueAmount)),
			Type:    models.NotificationOverdue,
		}
	}
	return models.AppNotification{
		Title:   "Full Payment Logged",
		Message: fmt.Sprintf("Bill for %s fully settled.", b.Customer.Name),
		Type:    models.NotificationSuccess,
	}
}

func (s *BillService) Get(ctx context.Context, accountID, id string) (*models.Bill, error) {
	b, err := s.store.Account(accountID).Bills.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, apperrors.ErrNotFound
	}
	return b, nil
}

func (s *BillService) Delete(ctx context.Context, accountID, id string) error {
	return deleteByID(ctx, s.store.Account(accountID).Bills, id)
}

// BillQuery filters the bill history. Status is all, due or paid; SortKey is
// customer, totalAmount or createdAt; SortDir is asc or desc.
type BillQuery struct {
	Search  string
	Status  string
	SortKey string
	SortDir string
}

func (s *BillService) List(ctx context.Context, accountID string, q BillQuery) ([]models.Bill, error) {
	bills, err := s.store.Account(accountID).Bills.List(ctx)
	if err != nil {
		return nil, err
	}
	return FilterBills(bills, q), nil
}

// FilterBills applies search, status filter and sort. Paid means nothing is due,
// including bills in credit.
func FilterBills(bills []models.Bill, q BillQuery) []models.Bill {
	term := strings.ToLower(strings.TrimSpace(q.Search))
	out := []models.Bill{}
	for _, b := range bills {
		if term != "" &&
			!strings.Contains(strings.ToLower(b.Customer.Name), term) &&
			!strings.Contains(strings.ToLower(b.Customer.Village), term) &&
			!strings.Contains(strings.ToLower(b.ID), term) {
			continue
		}
		switch q.Status {
		case "due":
			if b.DueAmount <= 0 {
				continue
			}
		case "paid":
			if b.DueAmount > 0 {
				continue
			}
		}
		out = append(out, b)
	}

	key := q.SortKey
	if key == "" {
		key = "createdAt"
	}
	asc := q.SortDir == "asc"
	less := func(i, j int) bool {
		a, b := out[i], out[j]
		switch key {
		case "customer":
			return strings.ToLower(a.Customer.Name) < strings.ToLower(b.Customer.Name)
		case "totalAmount":
			return a.TotalAmount < b.TotalAmount
		default:
			return a.CreatedAt < b.CreatedAt
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if asc {
			return less(i, j)
		}
		return less(j, i)
	})
	return out
}

// ShareLinks is everything needed to send a bill summary to the customer.
type ShareLinks struct {
	Message     string `json:"message"`
	SMSMessage  string `json:"smsMessage"`
	WhatsAppURL string `json:"whatsappUrl"`
	SMSURL      string `json:"smsUrl"`
	PaymentURI  string `json:"paymentUri"`
}

func (s *BillService) payee(ctx context.Context, acct *repository.Account) (billing.Payee, error) {
	settings, err := acct.Settings.Get(ctx)
	if err != nil {
		return billing.Payee{}, err
	}
	return billing.PayeeFor(settings, s.opts.Payee), nil
}

// Share renders the share messages for a stored bill, or for an unsaved draft when billID is empty.
func (s *BillService) Share(ctx context.Context, accountID, billID string, draft *models.BillDraft, ios bool) (*ShareLinks, error) {
	acct := s.store.Account(accountID)
	c, err := s.catalog(ctx, acct)
	if err != nil {
		return nil, err
	}
	payee, err := s.payee(ctx, acct)
	if err != nil {
		return nil, err
	}

	var bill models.Bill
	ref := billID
	switch {
	case billID != "":
		b, err := s.Get(ctx, accountID, billID)
		if err != nil {
			return nil, err
		}
		bill = *b
	case draft != nil:
		bill = billing.Aggregate(*draft, c)
		ref = draft.EditingID
		if ref == "" {
			ref = billing.DraftRef(s.now())
		}
	default:
		return nil, apperrors.Validation("bill id or draft is required")
	}
	if strings.TrimSpace(bill.Customer.Mobile) == "" {
		return nil, apperrors.Validation("Customer mobile number is missing.")
	}

	in := billing.ShareInput{Bill: bill, Catalog: c, Payee: payee, Ref: ref}
	full := billing.ShareMessage(in, false)
	compact := billing.ShareMessage(in, true)
	return &ShareLinks{
		Message:     full,
		SMSMessage:  compact,
		WhatsAppURL: billing.WhatsAppLink(bill.Customer.Mobile, s.opts.CountryCode, full),
		SMSURL:      billing.SMSLink(bill.Customer.Mobile, compact, ios),
		PaymentURI:  billing.InvoicePaymentURI(payee, bill),
	}, nil
}

// InvoiceContext gathers what invoice rendering needs for a stored bill.
type InvoiceContext struct {
	Bill       models.Bill
	Settings   models.AppSettings
	Catalog    billing.Catalog
	PaymentURI string
}

func (s *BillService) Invoice(ctx context.Context, accountID, billID string) (*InvoiceContext, error) {
	acct := s.store.Account(accountID)
	bill, err := s.Get(ctx, accountID, billID)
	if err != nil {
		return nil, err
	}
	c, err := s.catalog(ctx, acct)
	if err != nil {
		return nil, err
	}
	settings, err := acct.Settings.Get(ctx)
	if err != nil {
		return nil, err
	}
	payee := billing.PayeeFor(settings, s.opts.Payee)
	if settings.CompanyName == "" {
		settings.CompanyName = payee.Name
	}
	return &InvoiceContext{
		Bill:       *bill,
		Settings:   settings,
		Catalog:    c,
		PaymentURI: billing.InvoicePaymentURI(payee, *bill),
	}, nil
}

// AgentLedger is an agent's commission history with totals.
type AgentLedger struct {
	Agent   models.Agent              `json:"agent"`
	Records []models.CommissionRecord `json:"records"`
	Totals  billing.LedgerTotals      `json:"totals"`
}

func (s *BillService) Ledger(ctx context.Context, accountID, agentID string, status billing.LedgerStatus) (*AgentLedger, error) {
	acct := s.store.Account(accountID)
	agent, err := acct.Agents.GetByID(ctx, agentID)
	if err != nil {
		return nil, err
	}
	if agent == nil {
		return nil, apperrors.ErrNotFound
	}
	bills, err := acct.Bills.List(ctx)
	if err != nil {
		return nil, err
	}
	c, err := s.catalog(ctx, acct)
	if err != nil {
		return nil, err
	}
	records := billing.AgentRecords(agentID, bills, c)
	return &AgentLedger{
		Agent:   *agent,
		Records: billing.FilterRecords(records, status),
		Totals:  billing.Totals(records),
	}, nil
}

// ToggleCommission flips the settlement flag of one session and persists all bills.
func (s *BillService) ToggleCommission(ctx context.Context, accountID, billID, sessionID string) error {
	found := false
	_, err := s.store.Account(accountID).Bills.Mutate(ctx, func(bills []models.Bill) ([]models.Bill, error) {
		var updated []models.Bill
		updated, found = billing.ToggleCommission(bills, billID, sessionID)
		if !found {
			return nil, apperrors.ErrNotFound
		}
		return updated, nil
	})
	if err != nil {
		return err
	}
	s.syncer.PushAsync(accountID)
	return nil
}

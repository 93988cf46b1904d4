package billing

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"harvesterbilling/apperrors"
	"harvesterbilling/models"
)

const (
	DefaultWorkTime     = "00:00"
	DefaultStandardRate = 2000

	// ISOTimeLayout matches the millisecond UTC timestamps stored by the browser app.
	ISOTimeLayout = "2006-01-02T15:04:05.000Z07:00"
	DateLayout    = "2006-01-02"

	msgIncompleteBill = "Please fill in customer details and add sessions."
)

// Catalog indexes an account's vehicles and agents. Lookups are tolerant:
// a dangling reference is reported as missing, never as an error.
type Catalog struct {
	vehicles map[string]models.Vehicle
	agents   map[string]models.Agent
	order    []string
}

func NewCatalog(vehicles []models.Vehicle, agents []models.Agent) Catalog {
	c := Catalog{
		vehicles: make(map[string]models.Vehicle, len(vehicles)),
		agents:   make(map[string]models.Agent, len(agents)),
	}
	for _, v := range vehicles {
		if _, dup := c.vehicles[v.ID]; !dup {
			c.order = append(c.order, v.ID)
		}
		c.vehicles[v.ID] = v
	}
	for _, a := range agents {
		c.agents[a.ID] = a
	}
	return c
}

func (c Catalog) Vehicle(id string) (models.Vehicle, bool) {
	v, ok := c.vehicles[id]
	return v, ok
}

func (c Catalog) Agent(id string) (models.Agent, bool) {
	a, ok := c.agents[id]
	return a, ok
}

// FirstVehicleID is the machine preselected for a new session, or "" without vehicles.
func (c Catalog) FirstVehicleID() string {
	if len(c.order) == 0 {
		return ""
	}
	return c.order[0]
}

// Commission returns hours × the agent's per-hour rate for the machine's vehicle type.
// It is 0 when there is no agent, the agent or vehicle is unknown, or no rate is configured.
func Commission(c Catalog, agentID, machineID string, hours float64) float64 {
	if agentID == "" {
		return 0
	}
	agent, ok := c.Agent(agentID)
	if !ok {
		return 0
	}
	vehicle, ok := c.Vehicle(machineID)
	if !ok {
		return 0
	}
	return hours * agent.VehicleCommissions[vehicle.Type]
}

// RecomputeSession re-derives the session amount and the agent commission.
// An unknown agent keeps the previously stored agent name.
func RecomputeSession(c Catalog, s models.WorkingSession) models.WorkingSession {
	hours := DecimalHours(s.WorkTime)
	s.TotalAmount = hours * s.StandardRate

	if s.AgentID == "" {
		s.AgentName = ""
		s.AgentCommission = 0
		return s
	}
	if agent, ok := c.Agent(s.AgentID); ok {
		s.AgentName = agent.Name
	}
	s.AgentCommission = Commission(c, s.AgentID, s.MachineID, hours)
	return s
}

// NewSession returns a draft session with the form defaults.
func NewSession(c Catalog, now time.Time) models.WorkingSession {
	return models.WorkingSession{
		ID:           uuid.NewString(),
		Date:         now.Format(DateLayout),
		WorkTime:     DefaultWorkTime,
		StandardRate: DefaultStandardRate,
		MachineID:    c.FirstVehicleID(),
	}
}

// TotalAmount sums the stored session amounts.
func TotalAmount(sessions []models.WorkingSession) float64 {
	var total float64
	for _, s := range sessions {
		total += s.TotalAmount
	}
	return total
}

// TotalHours sums the decimal work hours of all sessions.
func TotalHours(sessions []models.WorkingSession) float64 {
	var hours float64
	for _, s := range sessions {
		hours += DecimalHours(s.WorkTime)
	}
	return hours
}

// ValidateDraft rejects drafts without customer name, mobile or sessions.
func ValidateDraft(d models.BillDraft) error {
	if strings.TrimSpace(d.Customer.Name) == "" || strings.TrimSpace(d.Customer.Mobile) == "" || len(d.Sessions) == 0 {
		return apperrors.Validation(msgIncompleteBill)
	}
	return nil
}

// Aggregate recomputes every session of the draft and derives the bill totals.
// It does not validate; it backs both previews and saves.
func Aggregate(d models.BillDraft, c Catalog) models.Bill {
	sessions := make([]models.WorkingSession, len(d.Sessions))
	for i, s := range d.Sessions {
		if s.ID == "" {
			s.ID = uuid.NewString()
		}
		sessions[i] = RecomputeSession(c, s)
	}

	total := TotalAmount(sessions)
	paymentType := d.PaymentType
	if paymentType == "" {
		paymentType = models.PaymentCash
	}
	return models.Bill{
		ID:          d.EditingID,
		Customer:    d.Customer,
		Sessions:    sessions,
		TotalAmount: total,
		PaidAmount:  d.PaidAmount,
		DueAmount:   total - d.PaidAmount,
		PaymentType: paymentType,
	}
}

// BuildBill validates the draft and produces the bill to persist.
// New bills get a BILL-<unix millis> id; an edit keeps the draft's id.
func BuildBill(d models.BillDraft, c Catalog, now time.Time) (models.Bill, error) {
	if err := ValidateDraft(d); err != nil {
		return models.Bill{}, err
	}
	b := Aggregate(d, c)
	if b.ID == "" {
		b.ID = fmt.Sprintf("BILL-%d", now.UnixMilli())
	}
	if b.Customer.ID == "" {
		b.Customer.ID = uuid.NewString()
	}
	b.CreatedAt = now.UTC().Format(ISOTimeLayout)
	return b, nil
}

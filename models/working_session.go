package models

// WorkingSession is one billable unit of work on one machine.
// TotalAmount and AgentCommission hold the last computed values; they are
// re-derived whenever WorkTime, StandardRate, MachineID or AgentID change.
type WorkingSession struct {
	ID              string  `json:"id"`
	Date            string  `json:"date"`
	WorkTime        string  `json:"workTime"` // HH:MM
	StandardRate    float64 `json:"standardRate"`
	TotalAmount     float64 `json:"totalAmount"`
	MachineID       string  `json:"machineId"`
	BillCopyURL     string  `json:"billCopyUrl,omitempty"`
	AgentName       string  `json:"agentName,omitempty"`
	AgentID         string  `json:"agentId,omitempty"`
	AgentCommission float64 `json:"agentCommission,omitempty"`
	CommissionPaid  bool    `json:"commissionPaid,omitempty"`
}

func (s WorkingSession) EntityID() string { return s.ID }

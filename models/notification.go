package models

type NotificationType string

const (
	NotificationOverdue NotificationType = "overdue"
	NotificationExpense NotificationType = "expense"
	NotificationSystem  NotificationType = "system"
	NotificationSuccess NotificationType = "success"
)

type AppNotification struct {
	ID        string           `json:"id"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	Type      NotificationType `json:"type"`
	Timestamp string           `json:"timestamp"`
	IsRead    bool             `json:"isRead"`
	Link      string           `json:"link,omitempty"`
}

func (n AppNotification) EntityID() string { return n.ID }

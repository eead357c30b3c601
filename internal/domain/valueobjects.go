package domain

// Channel is the delivery transport for a notification
type Channel string

const (
	ChannelSMS      Channel = "SMS"
	ChannelWhatsApp Channel = "WHATSAPP"
	ChannelEmail    Channel = "EMAIL"
	ChannelInApp    Channel = "IN_APP"
)

func (c Channel) Valid() bool {
	switch c {
	case ChannelSMS, ChannelWhatsApp, ChannelEmail, ChannelInApp:
		return true
	}
	return false
}

// Status is the lifecycle state of a notification
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusSent      Status = "SENT"
	StatusDelivered Status = "DELIVERED"
	StatusRead      Status = "READ"
	StatusFailed    Status = "FAILED"
)

// Priority scales the retry budget of a notification
type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityNormal Priority = "NORMAL"
	PriorityHigh   Priority = "HIGH"
	PriorityUrgent Priority = "URGENT"
)

// RetryPolicy maps priority to the max number of automatic resend attempts.
// Kept as data so operators can tune budgets without touching control flow.
type RetryPolicy map[Priority]int

// DefaultRetryPolicy orders budgets strictly by urgency.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		PriorityLow:    2,
		PriorityNormal: 3,
		PriorityHigh:   4,
		PriorityUrgent: 5,
	}
}

// MaxRetries returns the budget for a priority, 3 when the priority is unset
// or unknown.
func (p RetryPolicy) MaxRetries(priority Priority) int {
	if n, ok := p[priority]; ok {
		return n
	}
	return 3
}

// NotificationType describes the business purpose of a notification
type NotificationType string

const (
	// Authentication and security
	TypeUserCredentials NotificationType = "USER_CREDENTIALS"
	TypePasswordReset   NotificationType = "PASSWORD_RESET"
	TypeTwoFactorAuth   NotificationType = "TWO_FACTOR_AUTH"

	// Receipts and billing
	TypeReceiptGenerated NotificationType = "RECEIPT_GENERATED"
	TypeReceiptReminder  NotificationType = "RECEIPT_REMINDER"
	TypePaymentReceived  NotificationType = "PAYMENT_RECEIVED"
	TypePaymentOverdue   NotificationType = "PAYMENT_OVERDUE"

	// Incidents
	TypeIncidentCreated  NotificationType = "INCIDENT_CREATED"
	TypeIncidentUpdated  NotificationType = "INCIDENT_UPDATED"
	TypeIncidentResolved NotificationType = "INCIDENT_RESOLVED"

	// Water quality
	TypeWaterQualityAlert  NotificationType = "WATER_QUALITY_ALERT"
	TypeWaterQualityReport NotificationType = "WATER_QUALITY_REPORT"

	// System
	TypeServiceInterruption  NotificationType = "SERVICE_INTERRUPTION"
	TypeMaintenanceScheduled NotificationType = "MAINTENANCE_SCHEDULED"
	TypeSystemAnnouncement   NotificationType = "SYSTEM_ANNOUNCEMENT"

	// Inventory
	TypeLowStockAlert   NotificationType = "LOW_STOCK_ALERT"
	TypeInventoryUpdate NotificationType = "INVENTORY_UPDATE"
)

// IsUrgent flags types that must cut through quiet hours and get the largest
// retry budget treatment.
func (t NotificationType) IsUrgent() bool {
	switch t {
	case TypePaymentOverdue, TypeWaterQualityAlert, TypeServiceInterruption, TypeTwoFactorAuth:
		return true
	}
	return false
}

// RequiresImmediate flags types that should never be batched or deferred.
func (t NotificationType) RequiresImmediate() bool {
	return t == TypeTwoFactorAuth || t == TypeUserCredentials
}

// TemplateStatus is the lifecycle state of a notification template
type TemplateStatus string

const (
	TemplateDraft    TemplateStatus = "DRAFT"
	TemplateActive   TemplateStatus = "ACTIVE"
	TemplateInactive TemplateStatus = "INACTIVE"
)

package domain

import "time"

// NotificationKind classifies a transient user-facing message.
type NotificationKind string

// Notification kinds.
const (
	NotifyInfo    NotificationKind = "info"
	NotifySuccess NotificationKind = "success"
	NotifyWarning NotificationKind = "warning"
	NotifyError   NotificationKind = "error"
)

// Notification is a short-lived user-facing message. Each one expires on
// its own timer or is dismissed explicitly, whichever comes first.
type Notification struct {
	ID        int64
	Message   string
	Kind      NotificationKind
	CreatedAt time.Time
}

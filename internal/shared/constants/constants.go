package constants

// Database table names
const (
	TableSubscriptions        = "subscriptions"
	TableInvoiceNotifications = "invoice_notifications"
)

package access

type AccessState string

const (
	AccessTrial   AccessState = "trial"
	AccessFull    AccessState = "full"
	AccessLimited AccessState = "limited"
	AccessLocked  AccessState = "locked"
)

// Capabilities gate the premium tenant modules.
const (
	CapCRM        = "crm"
	CapSchedule   = "schedule"
	CapAskAuvora  = "ask_auvora"
	CapMessaging  = "messaging"
	CapSocial     = "social"
	CapQuickBooks = "quickbooks"
)

package access

import (
	"auvora-crm/internal/domain/plans"
)

func CapabilitiesFor(state AccessState, plan *plans.Plan) []string {
	switch state {
	case AccessLocked:
		return []string{}
	case AccessLimited:
		return []string{CapCRM}
	case AccessTrial:
		return []string{CapCRM, CapSchedule, CapAskAuvora, CapMessaging}
	}

	switch plans.PlanTier(plan) {
	case plans.TierGrowth:
		return []string{CapCRM, CapSchedule, CapAskAuvora, CapMessaging, CapSocial}
	case plans.TierEnterprise:
		return []string{CapCRM, CapSchedule, CapAskAuvora, CapMessaging, CapSocial, CapQuickBooks}
	default:
		return []string{CapCRM, CapSchedule, CapAskAuvora}
	}
}

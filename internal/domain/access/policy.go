package access

import (
	"time"

	"auvora-crm/internal/domain/tenants"
)

type Policy struct {
	State        AccessState
	Capabilities []string
	Limits       *Limits
}

// Limits cap record counts while a tenant is limited.
type Limits struct {
	MaxMembers int `json:"max_members"`
	MaxStaff   int `json:"max_staff"`
}

func ComputePolicy(now time.Time, t tenants.Tenant) Policy {
	state := ComputeEffectiveAccessState(now, t)

	return Policy{
		State:        state,
		Capabilities: CapabilitiesFor(state, t.Plan),
		Limits:       LimitsFor(state),
	}
}

func LimitsFor(state AccessState) *Limits {
	if state != AccessLimited && state != AccessLocked {
		return nil
	}
	return &Limits{MaxMembers: 50, MaxStaff: 3}
}

func (p Policy) Has(capability string) bool {
	for _, c := range p.Capabilities {
		if c == capability {
			return true
		}
	}
	return false
}

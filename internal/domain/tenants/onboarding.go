package tenants

import (
	"errors"
	"fmt"
	"strings"
)

type OnboardingStatus string

const (
	OnboardingPending     OnboardingStatus = "pending"
	OnboardingProvisioned OnboardingStatus = "provisioned"
	OnboardingBranded     OnboardingStatus = "branded"
	OnboardingImported    OnboardingStatus = "imported"
	OnboardingTesting     OnboardingStatus = "testing"
	OnboardingReady       OnboardingStatus = "ready"
	OnboardingLive        OnboardingStatus = "live"
)

var ErrInvalidOnboardingStatus = errors.New("invalid onboarding status")

// OnboardingSteps is the setup pipeline in order.
var OnboardingSteps = []OnboardingStatus{
	OnboardingPending,
	OnboardingProvisioned,
	OnboardingBranded,
	OnboardingImported,
	OnboardingTesting,
	OnboardingReady,
	OnboardingLive,
}

var stepLabels = map[OnboardingStatus]string{
	OnboardingPending:     "Pending",
	OnboardingProvisioned: "Provisioned",
	OnboardingBranded:     "Branded",
	OnboardingImported:    "Data imported",
	OnboardingTesting:     "Testing",
	OnboardingReady:       "Ready",
	OnboardingLive:        "Live",
}

const (
	StepComplete = "complete"
	StepCurrent  = "current"
	StepUpcoming = "upcoming"
)

type OnboardingStep struct {
	Key   OnboardingStatus `json:"key"`
	Label string           `json:"label"`
	State string           `json:"state"`
}

func ParseOnboardingStatus(s string) (OnboardingStatus, error) {
	st := OnboardingStatus(strings.ToLower(strings.TrimSpace(s)))
	if st.Index() < 0 {
		return "", fmt.Errorf("%w: %q", ErrInvalidOnboardingStatus, s)
	}
	return st, nil
}

// Index is the position of s in OnboardingSteps, or -1.
func (s OnboardingStatus) Index() int {
	for i, step := range OnboardingSteps {
		if step == s {
			return i
		}
	}
	return -1
}

// OnboardingProgress marks every step before current as complete.
// An unknown status is treated as pending.
func OnboardingProgress(current OnboardingStatus) []OnboardingStep {
	idx := current.Index()
	if idx < 0 {
		idx = 0
	}

	out := make([]OnboardingStep, 0, len(OnboardingSteps))
	for i, step := range OnboardingSteps {
		state := StepUpcoming
		switch {
		case i < idx:
			state = StepComplete
		case i == idx:
			state = StepCurrent
		}
		out = append(out, OnboardingStep{Key: step, Label: stepLabels[step], State: state})
	}
	return out
}

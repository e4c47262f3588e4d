package ask

import (
	"time"

	"auvora-crm/internal/domain/billing"
	"auvora-crm/internal/domain/messaging"
	"auvora-crm/internal/domain/schedule"
	"auvora-crm/internal/domain/studio"
)

// TenantData is everything the studio widget reads, loaded per question.
type TenantData struct {
	Members    []studio.Member
	Goals      []studio.Goal
	Classes    []studio.Class
	Promotions []studio.Promotion
	Staff      []schedule.Staff
	Shifts     []schedule.StaffShift
	Messages   []messaging.Message
	Invoices   []billing.Invoice
}

type TenantSnapshot struct {
	Period Period `json:"period"`

	TotalMembers      int     `json:"total_members"`
	ActiveMembers     int     `json:"active_members"`
	TrialMembers      int     `json:"trial_members"`
	FrozenMembers     int     `json:"frozen_members"`
	NewMembers        int     `json:"new_members"`
	CancelledMembers  int     `json:"cancelled_members"`
	ChurnRate         float64 `json:"churn_rate"`
	MRR               float64 `json:"mrr"`
	AverageRate       float64 `json:"average_rate"`
	VisitsInPeriod    int     `json:"visits_in_period"`
	ClassesInPeriod   int     `json:"classes_in_period"`
	Attended          int     `json:"attended"`
	AverageFillRate   float64 `json:"average_fill_rate"`
	TopClass          string  `json:"top_class"`
	TopClassFillRate  float64 `json:"top_class_fill_rate"`
	ActiveStaff       int     `json:"active_staff"`
	ShiftsInPeriod    int     `json:"shifts_in_period"`
	ShiftHours        float64 `json:"shift_hours"`
	ShiftConflicts    int     `json:"shift_conflicts"`
	ActivePromotions  int     `json:"active_promotions"`
	TopPromotion      string  `json:"top_promotion"`
	TopPromotionUses  int     `json:"top_promotion_uses"`
	OpenGoals         int     `json:"open_goals"`
	AchievedGoals     int     `json:"achieved_goals"`
	AverageGoalPct    float64 `json:"average_goal_pct"`
	MessagesSent      int     `json:"messages_sent"`
	MessagesFailed    int     `json:"messages_failed"`
	OverdueInvoices   int     `json:"overdue_invoices"`
	OverdueAmount     float64 `json:"overdue_amount"`
}

// BuildTenantSnapshot reduces the raw records to the figures the answers
// quote.
func BuildTenantSnapshot(p Period, now time.Time, d TenantData) TenantSnapshot {
	s := TenantSnapshot{Period: p, TotalMembers: len(d.Members)}

	var rateSum float64
	for _, m := range d.Members {
		switch m.Status {
		case studio.MemberActive:
			s.ActiveMembers++
			s.MRR += m.MonthlyRate
			rateSum += m.MonthlyRate
		case studio.MemberTrial:
			s.TrialMembers++
		case studio.MemberFrozen:
			s.FrozenMembers++
		}
		if p.Contains(m.JoinedAt) {
			s.NewMembers++
		}
		if m.CancelledAt != nil && p.Contains(*m.CancelledAt) {
			s.CancelledMembers++
		}
		if m.LastVisitAt != nil && p.Contains(*m.LastVisitAt) {
			s.VisitsInPeriod++
		}
	}
	if s.ActiveMembers > 0 {
		s.AverageRate = rateSum / float64(s.ActiveMembers)
	}
	if base := s.ActiveMembers + s.CancelledMembers; base > 0 {
		s.ChurnRate = float64(s.CancelledMembers) / float64(base)
	}

	var fillSum float64
	for _, c := range d.Classes {
		if !p.Contains(c.StartsAt) {
			continue
		}
		s.ClassesInPeriod++
		s.Attended += c.Attended
		fill := c.FillRate()
		fillSum += fill
		if s.TopClass == "" || fill > s.TopClassFillRate {
			s.TopClass = c.Name
			s.TopClassFillRate = fill
		}
	}
	if s.ClassesInPeriod > 0 {
		s.AverageFillRate = fillSum / float64(s.ClassesInPeriod)
	}

	for _, st := range d.Staff {
		if st.Active {
			s.ActiveStaff++
		}
	}
	var inPeriod []schedule.StaffShift
	for _, sh := range d.Shifts {
		if p.Contains(sh.StartsAt) {
			inPeriod = append(inPeriod, sh)
			s.ShiftHours += sh.Duration().Hours()
		}
	}
	s.ShiftsInPeriod = len(inPeriod)
	s.ShiftConflicts = len(schedule.Conflicts(inPeriod))

	for _, pr := range d.Promotions {
		if pr.ActiveAt(now) {
			s.ActivePromotions++
		}
		if pr.Redemptions > s.TopPromotionUses {
			s.TopPromotion = pr.Name
			s.TopPromotionUses = pr.Redemptions
		}
	}

	var pctSum float64
	for _, g := range d.Goals {
		switch g.Status {
		case studio.GoalOpen:
			s.OpenGoals++
			pctSum += g.Percent()
		case studio.GoalAchieved:
			s.AchievedGoals++
		}
	}
	if s.OpenGoals > 0 {
		s.AverageGoalPct = pctSum / float64(s.OpenGoals)
	}

	for _, m := range d.Messages {
		if !p.Contains(m.CreatedAt) {
			continue
		}
		switch m.Status {
		case messaging.StatusSent:
			s.MessagesSent++
		case messaging.StatusFailed:
			s.MessagesFailed++
		}
	}

	for _, inv := range d.Invoices {
		if inv.Status == billing.InvoiceOverdue || inv.IsOverdue(now) {
			s.OverdueInvoices++
			s.OverdueAmount += inv.Amount
		}
	}

	return s
}

package ask

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

type Answer struct {
	Intent string         `json:"intent"`
	Period Period         `json:"period"`
	Answer string         `json:"answer"`
	Data   map[string]any `json:"data,omitempty"`
}

const tenantHelp = "Try asking about revenue, new members, churn, attendance, your most popular class, staff schedules, promotions, member goals or overdue invoices."

const adminHelp = "Try asking about MRR, overdue invoices, the onboarding pipeline, live tenants, leads, conversion, demos or the industry mix."

// AnswerTenant fills the template for intent with figures from s.
func AnswerTenant(intent string, s TenantSnapshot) Answer {
	p := s.Period.Label
	a := Answer{Intent: intent, Period: s.Period}

	switch intent {
	case IntentRevenue:
		a.Answer = fmt.Sprintf("Your monthly recurring revenue is %s from %d active members (average %s per member).",
			money(s.MRR), s.ActiveMembers, money(s.AverageRate))
		a.Data = map[string]any{"mrr": s.MRR, "active_members": s.ActiveMembers, "average_rate": s.AverageRate}
	case IntentOverdue:
		if s.OverdueInvoices == 0 {
			a.Answer = "You have no overdue invoices."
		} else {
			a.Answer = fmt.Sprintf("You have %d overdue %s totaling %s.",
				s.OverdueInvoices, plural(s.OverdueInvoices, "invoice", "invoices"), money(s.OverdueAmount))
		}
		a.Data = map[string]any{"overdue_invoices": s.OverdueInvoices, "overdue_amount": s.OverdueAmount}
	case IntentNewMembers:
		a.Answer = fmt.Sprintf("%d new %s joined %s.", s.NewMembers, plural(s.NewMembers, "member", "members"), p)
		a.Data = map[string]any{"new_members": s.NewMembers}
	case IntentChurn:
		a.Answer = fmt.Sprintf("%d %s cancelled %s, a churn rate of %s.",
			s.CancelledMembers, plural(s.CancelledMembers, "member", "members"), p, percent(s.ChurnRate))
		a.Data = map[string]any{"cancelled_members": s.CancelledMembers, "churn_rate": s.ChurnRate}
	case IntentFrozen:
		a.Answer = fmt.Sprintf("%d %s currently frozen.", s.FrozenMembers, plural(s.FrozenMembers, "membership is", "memberships are"))
		a.Data = map[string]any{"frozen_members": s.FrozenMembers}
	case IntentTrial:
		a.Answer = fmt.Sprintf("%d %s currently on a trial.", s.TrialMembers, plural(s.TrialMembers, "member is", "members are"))
		a.Data = map[string]any{"trial_members": s.TrialMembers}
	case IntentMembers:
		a.Answer = fmt.Sprintf("You have %d members: %d active, %d on trial and %d frozen.",
			s.TotalMembers, s.ActiveMembers, s.TrialMembers, s.FrozenMembers)
		a.Data = map[string]any{"total_members": s.TotalMembers, "active_members": s.ActiveMembers,
			"trial_members": s.TrialMembers, "frozen_members": s.FrozenMembers}
	case IntentAttendance:
		a.Answer = fmt.Sprintf("%d class %s recorded %s and %d members visited.",
			s.Attended, plural(s.Attended, "attendance was", "attendances were"), p, s.VisitsInPeriod)
		a.Data = map[string]any{"attended": s.Attended, "visits": s.VisitsInPeriod}
	case IntentPopular:
		if s.TopClass == "" {
			a.Answer = fmt.Sprintf("No classes are scheduled %s.", p)
		} else {
			a.Answer = fmt.Sprintf("%s is your most popular class %s at %s full.", s.TopClass, p, percent(s.TopClassFillRate))
		}
		a.Data = map[string]any{"top_class": s.TopClass, "fill_rate": s.TopClassFillRate}
	case IntentClasses:
		a.Answer = fmt.Sprintf("You have %d %s %s with an average fill rate of %s.",
			s.ClassesInPeriod, plural(s.ClassesInPeriod, "class", "classes"), p, percent(s.AverageFillRate))
		a.Data = map[string]any{"classes": s.ClassesInPeriod, "average_fill_rate": s.AverageFillRate}
	case IntentStaff:
		a.Answer = fmt.Sprintf("%d active staff cover %d %s (%s hours) %s.",
			s.ActiveStaff, s.ShiftsInPeriod, plural(s.ShiftsInPeriod, "shift", "shifts"), hours(s.ShiftHours), p)
		if s.ShiftConflicts > 0 {
			a.Answer += fmt.Sprintf(" %d scheduling %s attention.", s.ShiftConflicts, plural(s.ShiftConflicts, "conflict needs", "conflicts need"))
		}
		a.Data = map[string]any{"active_staff": s.ActiveStaff, "shifts": s.ShiftsInPeriod,
			"shift_hours": s.ShiftHours, "conflicts": s.ShiftConflicts}
	case IntentPromotions:
		a.Answer = fmt.Sprintf("%d %s running.", s.ActivePromotions, plural(s.ActivePromotions, "promotion is", "promotions are"))
		if s.TopPromotion != "" {
			a.Answer += fmt.Sprintf(" %s leads with %d %s.", s.TopPromotion, s.TopPromotionUses, plural(s.TopPromotionUses, "redemption", "redemptions"))
		}
		a.Data = map[string]any{"active_promotions": s.ActivePromotions, "top_promotion": s.TopPromotion,
			"top_promotion_uses": s.TopPromotionUses}
	case IntentGoals:
		a.Answer = fmt.Sprintf("Members have %d open %s averaging %s complete, and %d achieved.",
			s.OpenGoals, plural(s.OpenGoals, "goal", "goals"), percent(s.AverageGoalPct/100), s.AchievedGoals)
		a.Data = map[string]any{"open_goals": s.OpenGoals, "achieved_goals": s.AchievedGoals, "average_pct": s.AverageGoalPct}
	case IntentMessages:
		a.Answer = fmt.Sprintf("%d %s sent %s, %d failed.", s.MessagesSent, plural(s.MessagesSent, "message", "messages"), p, s.MessagesFailed)
		a.Data = map[string]any{"sent": s.MessagesSent, "failed": s.MessagesFailed}
	case IntentHelp:
		a.Answer = tenantHelp
	default:
		a.Intent = IntentDefault
		a.Answer = "I'm not sure how to answer that yet. " + tenantHelp
	}
	return a
}

func AnswerAdmin(intent string, s AdminSnapshot) Answer {
	p := s.Period.Label
	a := Answer{Intent: intent, Period: s.Period}

	switch intent {
	case IntentRevenue:
		a.Answer = fmt.Sprintf("MRR across active contracts is %s; %s was collected %s.",
			money(s.MRR), money(s.CollectedRevenue), p)
		a.Data = map[string]any{"mrr": s.MRR, "collected": s.CollectedRevenue}
	case IntentOverdue:
		a.Answer = fmt.Sprintf("%d %s overdue totaling %s.",
			s.OverdueInvoices, plural(s.OverdueInvoices, "invoice is", "invoices are"), money(s.OverdueAmount))
		a.Data = map[string]any{"overdue_invoices": s.OverdueInvoices, "overdue_amount": s.OverdueAmount}
	case IntentOnboarding:
		a.Answer = "Onboarding pipeline: " + counts(s.Pipeline) + "."
		a.Data = map[string]any{"pipeline": s.Pipeline}
	case IntentLive:
		a.Answer = fmt.Sprintf("%d of %d tenants are live.", s.LiveTenants, s.TotalTenants)
		a.Data = map[string]any{"live_tenants": s.LiveTenants, "total_tenants": s.TotalTenants}
	case IntentConversion:
		a.Answer = fmt.Sprintf("%d of %d leads converted, a conversion rate of %s.",
			s.ConvertedLeads, s.TotalLeads, percent(s.ConversionRate))
		a.Data = map[string]any{"converted": s.ConvertedLeads, "total": s.TotalLeads, "rate": s.ConversionRate}
	case IntentLeads:
		a.Answer = fmt.Sprintf("%d new %s %s; %d in total (%s).",
			s.NewLeads, plural(s.NewLeads, "lead", "leads"), p, s.TotalLeads, counts(s.LeadsByStatus))
		a.Data = map[string]any{"new_leads": s.NewLeads, "total_leads": s.TotalLeads, "by_status": s.LeadsByStatus}
	case IntentDemos:
		a.Answer = fmt.Sprintf("%d demo %s provisioned.", s.DemoTenants, plural(s.DemoTenants, "environment is", "environments are"))
		a.Data = map[string]any{"demo_tenants": s.DemoTenants}
	case IntentIndustryMix:
		if s.TopIndustry == "" {
			a.Answer = "There are no tenants yet."
		} else {
			a.Answer = fmt.Sprintf("%s leads the mix: %s.", capitalize(s.TopIndustry), counts(s.ByIndustry))
		}
		a.Data = map[string]any{"by_industry": s.ByIndustry, "top_industry": s.TopIndustry}
	case IntentTenants:
		a.Answer = fmt.Sprintf("There are %d tenants, %d new %s.", s.TotalTenants, s.NewTenants, p)
		a.Data = map[string]any{"total_tenants": s.TotalTenants, "new_tenants": s.NewTenants}
	case IntentHelp:
		a.Answer = adminHelp
	default:
		a.Intent = IntentDefault
		a.Answer = "I'm not sure how to answer that yet. " + adminHelp
	}
	return a
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

func percent(r float64) string {
	return strconv.FormatFloat(math.Round(r*1000)/10, 'f', -1, 64) + "%"
}

func hours(h float64) string {
	return strconv.FormatFloat(math.Round(h*10)/10, 'f', -1, 64)
}

// money renders dollars with thousands separators and two decimals.
func money(v float64) string {
	neg := v < 0
	cents := int64(math.Round(math.Abs(v) * 100))
	whole := strconv.FormatInt(cents/100, 10)

	var b strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	out := fmt.Sprintf("$%s.%02d", b.String(), cents%100)
	if neg {
		out = "-" + out
	}
	return out
}

// counts renders "a 2, b 1" in key order.
func counts(m map[string]int) string {
	if len(m) == 0 {
		return "none"
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s %d", k, m[k]))
	}
	return strings.Join(parts, ", ")
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

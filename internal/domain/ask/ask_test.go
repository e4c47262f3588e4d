package ask

import (
	"strings"
	"testing"
	"time"

	"auvora-crm/internal/domain/billing"
	"auvora-crm/internal/domain/leads"
	"auvora-crm/internal/domain/schedule"
	"auvora-crm/internal/domain/studio"
	"auvora-crm/internal/domain/tenants"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchRevenueKeywordsAnyCase(t *testing.T) {
	for _, q := range []string{
		"What was my REVENUE last month?",
		"how much money did we make",
		"Income this year",
		"show me revenue",
	} {
		assert.Equal(t, IntentRevenue, Match(q, TenantRules, IntentDefault), q)
		assert.Equal(t, IntentRevenue, Match(q, AdminRules, IntentDefault), q)
	}
}

func TestMatchFallsThroughToDefault(t *testing.T) {
	assert.Equal(t, IntentDefault, Match("what's the weather like?", TenantRules, IntentDefault))
	assert.Equal(t, IntentDefault, Match("", TenantRules, IntentDefault))
	assert.Equal(t, IntentDefault, Match("tell me a joke", AdminRules, IntentDefault))
}

func TestMatchOrderPrefersSpecificRules(t *testing.T) {
	cases := map[string]string{
		"How many new members joined this week?": IntentNewMembers,
		"how many members do we have":            IntentMembers,
		"which is the most popular class":        IntentPopular,
		"how many classes this week":             IntentClasses,
		"who cancelled last month":               IntentChurn,
		"show the staff schedule":                IntentStaff,
		"any active promo codes?":                IntentPromotions,
		"members on trial":                       IntentTrial,
	}
	for q, want := range cases {
		assert.Equal(t, want, Match(q, TenantRules, IntentDefault), q)
	}

	admin := map[string]string{
		"how many demo requests came in": IntentLeads,
		"how many demos are running":     IntentDemos,
		"lead conversion rate":           IntentConversion,
		"how many tenants are live?":     IntentLive,
		"how many tenants do we have":    IntentTenants,
		"show the onboarding pipeline":   IntentOnboarding,
	}
	for q, want := range admin {
		assert.Equal(t, want, Match(q, AdminRules, IntentDefault), q)
	}
}

func TestMatchStemsOnlyAtWordStart(t *testing.T) {
	tenant := map[string]string{
		"How is learning going for our students?": IntentDefault,
		"How many members showed up today?":       IntentMembers,
		"Which members are allowed to freeze?":    IntentFrozen,
		"Is anyone following up on the trial?":    IntentTrial,
		"Earnings this month":                     IntentRevenue,
		"who still owes? anything owed?":          IntentOverdue,
		"any deals running":                       IntentPromotions,
	}
	for q, want := range tenant {
		assert.Equal(t, want, Match(q, TenantRules, IntentDefault), q)
	}

	admin := map[string]string{
		"How many learning centers are live?": IntentLive,
		"How many studios showed interest?":   IntentTenants,
		"what's outstanding":                  IntentOverdue,
		"Leads this week":                     IntentLeads,
	}
	for q, want := range admin {
		assert.Equal(t, want, Match(q, AdminRules, IntentDefault), q)
	}
}

func TestParsePeriod(t *testing.T) {
	now := time.Date(2026, 10, 15, 14, 0, 0, 0, time.UTC) // Thursday

	p := ParsePeriod("revenue", now)
	assert.Equal(t, "this_month", p.Key)
	assert.Equal(t, time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC), p.From)
	assert.Equal(t, time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC), p.To)

	p = ParsePeriod("Revenue LAST MONTH", now)
	assert.Equal(t, "last_month", p.Key)
	assert.Equal(t, time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC), p.From)

	p = ParsePeriod("signups this week", now)
	assert.Equal(t, time.Date(2026, 10, 12, 0, 0, 0, 0, time.UTC), p.From)
	assert.Equal(t, time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC), p.To)

	p = ParsePeriod("signups last week", now)
	assert.Equal(t, time.Date(2026, 10, 5, 0, 0, 0, 0, time.UTC), p.From)

	assert.Equal(t, "today", ParsePeriod("visits today", now).Key)
	assert.Equal(t, "this_year", ParsePeriod("income ytd", now).Key)
	assert.Equal(t, "last_year", ParsePeriod("income last year", now).Key)
}

func TestTenantSnapshotAndAnswers(t *testing.T) {
	now := time.Date(2026, 10, 15, 14, 0, 0, 0, time.UTC)
	period := ParsePeriod("this month", now)
	inMonth := time.Date(2026, 10, 3, 9, 0, 0, 0, time.UTC)
	lastMonth := time.Date(2026, 9, 3, 9, 0, 0, 0, time.UTC)

	data := TenantData{
		Members: []studio.Member{
			{Status: studio.MemberActive, MonthlyRate: 100, JoinedAt: inMonth, LastVisitAt: &inMonth},
			{Status: studio.MemberActive, MonthlyRate: 50, JoinedAt: lastMonth},
			{Status: studio.MemberTrial, JoinedAt: inMonth},
			{Status: studio.MemberCancelled, JoinedAt: lastMonth, CancelledAt: &inMonth},
		},
		Classes: []studio.Class{
			{Name: "Spin", StartsAt: inMonth, Capacity: 10, Enrolled: 9, Attended: 8},
			{Name: "Yoga", StartsAt: inMonth, Capacity: 10, Enrolled: 5, Attended: 5},
			{Name: "Old", StartsAt: lastMonth, Capacity: 10, Enrolled: 10, Attended: 10},
		},
		Staff: []schedule.Staff{{ID: 1, Active: true}},
		Shifts: []schedule.StaffShift{
			{ID: 1, StaffID: 1, StartsAt: inMonth, EndsAt: inMonth.Add(4 * time.Hour)},
			{ID: 2, StaffID: 1, StartsAt: inMonth.Add(time.Hour), EndsAt: inMonth.Add(2 * time.Hour)},
		},
		Invoices: []billing.Invoice{
			{Status: billing.InvoiceSent, Amount: 99, DueDate: now.AddDate(0, 0, -3)},
			{Status: billing.InvoicePaid, Amount: 99, DueDate: now.AddDate(0, 0, -40)},
		},
	}

	s := BuildTenantSnapshot(period, now, data)
	assert.Equal(t, 2, s.ActiveMembers)
	assert.InDelta(t, 150, s.MRR, 0.001)
	assert.Equal(t, 2, s.NewMembers)
	assert.Equal(t, 1, s.CancelledMembers)
	assert.InDelta(t, 1.0/3.0, s.ChurnRate, 0.0001)
	assert.Equal(t, 2, s.ClassesInPeriod)
	assert.Equal(t, "Spin", s.TopClass)
	assert.Equal(t, 13, s.Attended)
	assert.Equal(t, 1, s.ShiftConflicts)
	assert.InDelta(t, 5, s.ShiftHours, 0.001)
	assert.Equal(t, 1, s.OverdueInvoices)

	rev := AnswerTenant(IntentRevenue, s)
	assert.Equal(t, "Your monthly recurring revenue is $150.00 from 2 active members (average $75.00 per member).", rev.Answer)

	pop := AnswerTenant(IntentPopular, s)
	assert.Equal(t, "Spin is your most popular class this month at 90% full.", pop.Answer)

	staff := AnswerTenant(IntentStaff, s)
	assert.True(t, strings.HasSuffix(staff.Answer, "1 scheduling conflict needs attention."), staff.Answer)

	def := AnswerTenant("nonsense", s)
	assert.Equal(t, IntentDefault, def.Intent)
	assert.Contains(t, def.Answer, "not sure")
}

func TestAdminSnapshotAndAnswers(t *testing.T) {
	now := time.Date(2026, 10, 15, 14, 0, 0, 0, time.UTC)
	period := ParsePeriod("", now)
	inMonth := time.Date(2026, 10, 2, 0, 0, 0, 0, time.UTC)

	data := AdminData{
		Tenants: []tenants.Tenant{
			{Industry: "fitness", OnboardingStatus: tenants.OnboardingLive, CreatedAt: inMonth},
			{Industry: "fitness", OnboardingStatus: tenants.OnboardingBranded},
			{Industry: "beauty", OnboardingStatus: tenants.OnboardingLive},
			{Industry: "wellness", IsDemo: true},
		},
		Leads: []leads.Lead{
			{Status: leads.StatusConverted, CreatedAt: inMonth},
			{Status: leads.StatusNew, CreatedAt: inMonth},
			{Status: leads.StatusLost},
			{Status: leads.StatusConverted},
		},
		Contracts: []billing.Contract{
			{Status: billing.ContractActive, MonthlyFee: 1200},
			{Status: billing.ContractActive, MonthlyFee: 299.5},
			{Status: billing.ContractCancelled, MonthlyFee: 999},
		},
		Payments: []billing.Payment{{Status: billing.PaymentPaid, Amount: 500, CreatedAt: inMonth}},
	}

	s := BuildAdminSnapshot(period, now, data)
	require.Equal(t, 3, s.TotalTenants)
	assert.Equal(t, 2, s.LiveTenants)
	assert.Equal(t, 1, s.DemoTenants)
	assert.Equal(t, "fitness", s.TopIndustry)
	assert.InDelta(t, 0.5, s.ConversionRate, 0.0001)

	assert.Equal(t, "MRR across active contracts is $1,499.50; $500.00 was collected this month.", AnswerAdmin(IntentRevenue, s).Answer)
	assert.Equal(t, "2 of 3 tenants are live.", AnswerAdmin(IntentLive, s).Answer)
	assert.Equal(t, "Onboarding pipeline: branded 1, live 2.", AnswerAdmin(IntentOnboarding, s).Answer)
	assert.Equal(t, "2 of 4 leads converted, a conversion rate of 50%.", AnswerAdmin(IntentConversion, s).Answer)
}

func TestMoney(t *testing.T) {
	assert.Equal(t, "$0.00", money(0))
	assert.Equal(t, "$999.99", money(999.99))
	assert.Equal(t, "$1,234,567.80", money(1234567.8))
	assert.Equal(t, "-$12.50", money(-12.5))
}

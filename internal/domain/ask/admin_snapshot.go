package ask

import (
	"sort"
	"time"

	"auvora-crm/internal/domain/billing"
	"auvora-crm/internal/domain/leads"
	"auvora-crm/internal/domain/tenants"
)

type AdminData struct {
	Tenants   []tenants.Tenant
	Leads     []leads.Lead
	Contracts []billing.Contract
	Invoices  []billing.Invoice
	Payments  []billing.Payment
}

type AdminSnapshot struct {
	Period Period `json:"period"`

	TotalTenants     int            `json:"total_tenants"`
	LiveTenants      int            `json:"live_tenants"`
	DemoTenants      int            `json:"demo_tenants"`
	NewTenants       int            `json:"new_tenants"`
	Pipeline         map[string]int `json:"pipeline"`
	ByIndustry       map[string]int `json:"by_industry"`
	TopIndustry      string         `json:"top_industry"`
	MRR              float64        `json:"mrr"`
	CollectedRevenue float64        `json:"collected_revenue"`
	OverdueInvoices  int            `json:"overdue_invoices"`
	OverdueAmount    float64        `json:"overdue_amount"`
	TotalLeads       int            `json:"total_leads"`
	NewLeads         int            `json:"new_leads"`
	LeadsByStatus    map[string]int `json:"leads_by_status"`
	ConvertedLeads   int            `json:"converted_leads"`
	ConversionRate   float64        `json:"conversion_rate"`
}

func BuildAdminSnapshot(p Period, now time.Time, d AdminData) AdminSnapshot {
	s := AdminSnapshot{
		Period:        p,
		Pipeline:      map[string]int{},
		ByIndustry:    map[string]int{},
		LeadsByStatus: map[string]int{},
	}

	for _, t := range d.Tenants {
		if t.IsDemo {
			s.DemoTenants++
			continue
		}
		s.TotalTenants++
		s.Pipeline[string(t.OnboardingStatus)]++
		s.ByIndustry[t.Industry]++
		if t.OnboardingStatus == tenants.OnboardingLive {
			s.LiveTenants++
		}
		if p.Contains(t.CreatedAt) {
			s.NewTenants++
		}
	}
	s.TopIndustry = topKey(s.ByIndustry)

	for _, c := range d.Contracts {
		if c.Status == billing.ContractActive {
			s.MRR += c.MonthlyFee
		}
	}
	for _, pay := range d.Payments {
		if pay.Status == billing.PaymentPaid && p.Contains(pay.CreatedAt) {
			s.CollectedRevenue += pay.Amount
		}
	}
	for _, inv := range d.Invoices {
		if inv.Status == billing.InvoiceOverdue || inv.IsOverdue(now) {
			s.OverdueInvoices++
			s.OverdueAmount += inv.Amount
		}
	}

	s.TotalLeads = len(d.Leads)
	for _, l := range d.Leads {
		s.LeadsByStatus[l.Status]++
		if l.Status == leads.StatusConverted {
			s.ConvertedLeads++
		}
		if p.Contains(l.CreatedAt) {
			s.NewLeads++
		}
	}
	if s.TotalLeads > 0 {
		s.ConversionRate = float64(s.ConvertedLeads) / float64(s.TotalLeads)
	}

	return s
}

// topKey returns the key with the highest count, ties broken alphabetically.
func topKey(m map[string]int) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	best, bestN := "", -1
	for _, k := range keys {
		if m[k] > bestN {
			best, bestN = k, m[k]
		}
	}
	return best
}

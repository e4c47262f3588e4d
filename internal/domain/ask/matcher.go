package ask

import "strings"

// Rule maps any of its keywords to an intent. A keyword with a leading
// space only matches at the start of a word, which keeps stems like
// "earning" out of "learning".
type Rule struct {
	Intent   string
	Keywords []string
}

// Match lower-cases the question and returns the intent of the first rule
// with a keyword contained in it, or fallback. Rule order is significant:
// more specific phrases must come before the generic words they contain.
func Match(question string, rules []Rule, fallback string) string {
	q := " " + strings.ToLower(question)
	for _, r := range rules {
		for _, kw := range r.Keywords {
			if strings.Contains(q, kw) {
				return r.Intent
			}
		}
	}
	return fallback
}

const (
	IntentRevenue     = "revenue"
	IntentOverdue     = "overdue"
	IntentNewMembers  = "new_members"
	IntentChurn       = "churn"
	IntentFrozen      = "frozen"
	IntentTrial       = "trial"
	IntentMembers     = "members"
	IntentAttendance  = "attendance"
	IntentPopular     = "popular_class"
	IntentClasses     = "classes"
	IntentStaff       = "staff"
	IntentPromotions  = "promotions"
	IntentGoals       = "goals"
	IntentMessages    = "messages"
	IntentHelp        = "help"
	IntentDefault     = "default"
	IntentOnboarding  = "onboarding"
	IntentLive        = "live_tenants"
	IntentConversion  = "conversion"
	IntentLeads       = "leads"
	IntentDemos       = "demos"
	IntentIndustryMix = "industry_mix"
	IntentTenants     = "tenants"
)

// TenantRules drives the studio-facing widget.
var TenantRules = []Rule{
	{IntentRevenue, []string{"revenue", "money", "income", "sales", " earning"}},
	{IntentOverdue, []string{"overdue", "unpaid", " owed", " owing"}},
	{IntentNewMembers, []string{"new member", "signup", "sign up", "sign-up", "joined"}},
	{IntentChurn, []string{"churn", "cancel", "lost", "left"}},
	{IntentFrozen, []string{"frozen", "freeze", "pause"}},
	{IntentTrial, []string{" trial"}},
	{IntentMembers, []string{" member", "client", "customer"}},
	{IntentAttendance, []string{"attendance", "attend", "check-in", "check in", "visit"}},
	{IntentPopular, []string{"popular", "best class", "top class", "busiest"}},
	{IntentClasses, []string{"class", "session"}},
	{IntentStaff, []string{"staff", "instructor", "coach", "trainer", "shift", "schedule"}},
	{IntentPromotions, []string{"promo", "discount", "coupon", " deals"}},
	{IntentGoals, []string{"goal", "progress"}},
	{IntentMessages, []string{"message", "email", "sms"}},
	{IntentHelp, []string{"help", "what can"}},
}

// AdminRules drives the Auvora admin dashboard widget.
var AdminRules = []Rule{
	{IntentRevenue, []string{"revenue", "money", "income", "mrr", " earning"}},
	{IntentOverdue, []string{"overdue", "unpaid", " owed", " owing", "outstanding"}},
	{IntentOnboarding, []string{"onboarding", "pipeline", "setup", "set up", "provision"}},
	{IntentLive, []string{"live tenant", "live studio", "live client", "gone live", "went live", "are live", "launched"}},
	{IntentConversion, []string{"conversion", "convert", "close rate"}},
	{IntentLeads, []string{" lead", "prospect", "demo request"}},
	{IntentDemos, []string{"demo"}},
	{IntentIndustryMix, []string{"industry", "industries", "vertical", "segment"}},
	{IntentTenants, []string{"tenant", "client", "customer", "account", "studio"}},
	{IntentHelp, []string{"help", "what can"}},
}

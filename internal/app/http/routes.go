package routes

import (
	adminapi "auvora-crm/internal/api/admin"
	askapi "auvora-crm/internal/api/ask"
	authapi "auvora-crm/internal/api/auth"
	"auvora-crm/internal/api/billing"
	"auvora-crm/internal/api/httpx"
	leadsapi "auvora-crm/internal/api/leads"
	messagingapi "auvora-crm/internal/api/messaging"
	"auvora-crm/internal/api/plans"
	qbapi "auvora-crm/internal/api/quickbooks"
	scheduleapi "auvora-crm/internal/api/schedule"
	socialapi "auvora-crm/internal/api/social"
	stripewebhooks "auvora-crm/internal/api/stripewebhook"
	studioapi "auvora-crm/internal/api/studio"
	"auvora-crm/internal/api/users"
	"auvora-crm/internal/app/http/middleware"
	"auvora-crm/internal/domain/access"
	domainusers "auvora-crm/internal/domain/users"
	"auvora-crm/internal/infra/metrics"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine) error {
	if err := httpx.RegisterValidators(); err != nil {
		return err
	}

	r.Use(middleware.RequestLogger(), metrics.Middleware())

	r.POST("/webhook/stripe", stripewebhooks.StripeWebhook)
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	api := r.Group("/api")

	// Public
	public := api.Group("/")
	public.Use(middleware.SanitizeAndCleanInputMiddleware())

	public.POST("/auth/login", authapi.Login)
	public.POST("/auth/request-password-reset", authapi.RequestPasswordReset)
	public.POST("/auth/reset-password", authapi.ResetPassword)
	public.GET("/auth/google", authapi.GoogleStart)
	public.GET("/auth/google/callback", authapi.GoogleCallback)
	public.GET("/plans", plans.ListPlans)
	public.POST("/demo-requests", leadsapi.RequestDemo)

	// Authenticated
	auth := api.Group("/")
	auth.Use(middleware.AuthMiddleware())
	auth.GET("/me", users.GetCurrentUser)
	auth.POST("/auth/change-password", authapi.ChangePassword)

	registerAdminRoutes(auth.Group("/admin", middleware.RequireRole(domainusers.RoleAuvoraAdmin)))

	// Leads are an Auvora sales pipeline, not tenant data.
	leads := auth.Group("/leads", middleware.RequireRole(domainusers.RoleAuvoraAdmin))
	leads.GET("", leadsapi.ListLeads)
	leads.GET("/export", leadsapi.ExportLeads)
	leads.POST("", leadsapi.CreateLead)
	leads.GET("/:id", leadsapi.GetLead)
	leads.PATCH("/:id", leadsapi.UpdateLead)
	leads.DELETE("/:id", leadsapi.DeleteLead)
	leads.POST("/:id/convert", leadsapi.ConvertLead)

	tenant := auth.Group("/")
	tenant.Use(middleware.TenantScope())

	// Billing stays reachable while locked so the tenant can pay.
	tenant.GET("/billing/payments", billing.GetPaymentHistory)
	tenant.GET("/billing/invoices", billing.GetInvoices)
	tenant.POST("/billing/checkout", billing.CreateCheckoutSession)
	tenant.POST("/billing/portal", billing.CreateBillingPortal)
	tenant.POST("/billing/change-plan", middleware.RequireRole(domainusers.RoleOwner, domainusers.RoleAuvoraAdmin), billing.ChangePlan)

	active := tenant.Group("/")
	active.Use(middleware.RequireAccess())

	registerStudioRoutes(active.Group("/", middleware.RequireCapability(access.CapCRM)))
	registerScheduleRoutes(active.Group("/", middleware.RequireCapability(access.CapSchedule)))

	active.POST("/ask", middleware.RequireCapability(access.CapAskAuvora), askapi.AskTenant)

	messages := active.Group("/messages", middleware.RequireCapability(access.CapMessaging))
	messages.GET("", messagingapi.ListMessages)
	messages.POST("", messagingapi.SendMessage)
	messages.POST("/broadcast", messagingapi.Broadcast)

	posts := active.Group("/social/posts", middleware.RequireCapability(access.CapSocial))
	posts.GET("", socialapi.ListPosts)
	posts.POST("", socialapi.CreatePost)
	posts.PATCH("/:id", socialapi.UpdatePost)
	posts.POST("/:id/publish", socialapi.PublishPost)
	posts.DELETE("/:id", socialapi.DeletePost)

	qb := active.Group("/quickbooks", middleware.RequireCapability(access.CapQuickBooks))
	qb.POST("/sync", qbapi.Sync)
	qb.GET("/syncs", qbapi.ListSyncs)

	return nil
}

func registerAdminRoutes(admin *gin.RouterGroup) {
	admin.POST("/signup", authapi.AdminSignup)

	admin.GET("/tenants", adminapi.ListTenants)
	admin.POST("/tenants", adminapi.CreateTenant)
	admin.GET("/tenants/:id", adminapi.GetTenant)
	admin.PATCH("/tenants/:id", adminapi.UpdateTenant)
	admin.DELETE("/tenants/:id", adminapi.DeleteTenant)
	admin.POST("/tenants/:id/onboarding", adminapi.SetOnboardingStep)

	admin.GET("/tenants/:id/users", adminapi.ListTenantUsers)
	admin.POST("/tenants/:id/users", adminapi.InviteTenantUser)

	admin.GET("/tenants/:id/contracts", adminapi.ListContracts)
	admin.POST("/tenants/:id/contracts", adminapi.CreateContract)
	admin.PATCH("/contracts/:id", adminapi.UpdateContract)
	admin.DELETE("/contracts/:id", adminapi.DeleteContract)

	admin.GET("/tenants/:id/invoices", adminapi.ListInvoices)
	admin.POST("/tenants/:id/invoices", adminapi.CreateInvoice)
	admin.PATCH("/invoices/:id", adminapi.UpdateInvoice)
	admin.POST("/invoices/:id/mark-paid", adminapi.MarkInvoicePaid)
	admin.POST("/invoices/:id/send", adminapi.SendInvoice)

	admin.GET("/payments", adminapi.ListAllPayments)
	admin.GET("/stats", adminapi.GetAdminStats)

	admin.GET("/demos", adminapi.ListDemos)
	admin.POST("/demos", adminapi.CreateDemo)
	admin.POST("/demos/:id/reset", adminapi.ResetDemo)

	admin.POST("/plans/sync", plans.SyncPlansFromStripe)
	admin.POST("/ask", askapi.AskAdmin)
}

func registerStudioRoutes(g *gin.RouterGroup) {
	g.GET("/members", studioapi.ListMembers)
	g.POST("/members", studioapi.CreateMember)
	g.GET("/members/:id", studioapi.GetMember)
	g.PATCH("/members/:id", studioapi.UpdateMember)
	g.POST("/members/:id/visit", studioapi.RecordVisit)
	g.DELETE("/members/:id", studioapi.DeleteMember)

	g.GET("/members/:id/goals", studioapi.ListGoals)
	g.POST("/members/:id/goals", studioapi.CreateGoal)
	g.PATCH("/members/:id/goals/:goalId", studioapi.UpdateGoal)
	g.DELETE("/members/:id/goals/:goalId", studioapi.DeleteGoal)

	g.GET("/members/:id/notes", studioapi.ListNotes)
	g.POST("/members/:id/notes", studioapi.CreateNote)
	g.DELETE("/members/:id/notes/:noteId", studioapi.DeleteNote)

	g.GET("/classes", studioapi.ListClasses)
	g.POST("/classes", studioapi.CreateClass)
	g.GET("/classes/:id", studioapi.GetClass)
	g.PATCH("/classes/:id", studioapi.UpdateClass)
	g.POST("/classes/:id/enroll", studioapi.EnrollClass)
	g.DELETE("/classes/:id", studioapi.DeleteClass)

	g.GET("/promotions", studioapi.ListPromotions)
	g.POST("/promotions", studioapi.CreatePromotion)
	g.GET("/promotions/:id", studioapi.GetPromotion)
	g.PATCH("/promotions/:id", studioapi.UpdatePromotion)
	g.POST("/promotions/:id/redeem", studioapi.RedeemPromotion)
	g.DELETE("/promotions/:id", studioapi.DeletePromotion)
}

func registerScheduleRoutes(g *gin.RouterGroup) {
	g.GET("/schedule", scheduleapi.GetWeek)
	g.GET("/schedule/hours", scheduleapi.GetHours)
	g.POST("/schedule/slot", scheduleapi.GetSlot)

	g.POST("/shifts", scheduleapi.CreateShift)
	g.PATCH("/shifts/:id", scheduleapi.UpdateShift)
	g.DELETE("/shifts/:id", scheduleapi.DeleteShift)

	g.GET("/staff", scheduleapi.ListStaff)
	g.POST("/staff", scheduleapi.CreateStaff)
	g.PATCH("/staff/:id", scheduleapi.UpdateStaff)
	g.DELETE("/staff/:id", scheduleapi.DeleteStaff)
}

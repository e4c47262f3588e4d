package admin

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"auvora-crm/database"
	"auvora-crm/internal/api/httpx"
	"auvora-crm/internal/domain/billing"
	"auvora-crm/internal/domain/tenants"
	"auvora-crm/internal/infra/logger"
	stripeinfra "auvora-crm/internal/infra/stripe"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var errForeignContract = errors.New("contract does not belong to this tenant")

// attempts at picking a free invoice number before giving up
const invoiceNumberAttempts = 3

type invoiceInput struct {
	ContractID  *uint    `json:"contract_id"`
	Amount      *float64 `json:"amount" binding:"omitempty,gte=0"`
	Currency    *string  `json:"currency"`
	Status      *string  `json:"status"`
	Description *string  `json:"description"`
	IssuedAt    *string  `json:"issued_at"`
	DueDate     *string  `json:"due_date"`
}

func (in invoiceInput) apply(inv *billing.Invoice) error {
	if in.ContractID != nil {
		inv.ContractID = in.ContractID
	}
	if in.Amount != nil {
		inv.Amount = *in.Amount
	}
	if in.Currency != nil && *in.Currency != "" {
		inv.Currency = strings.ToLower(*in.Currency)
	}
	if in.Status != nil {
		if !billing.ValidInvoiceStatus(*in.Status) {
			return billing.ErrInvalidInvoiceStatus
		}
		// paid goes through mark-paid so a payment is recorded
		if *in.Status == billing.InvoicePaid && inv.Status != billing.InvoicePaid {
			return errors.New("use mark-paid to record a payment")
		}
		inv.Status = *in.Status
	}
	if in.Description != nil {
		inv.Description = *in.Description
	}
	if in.IssuedAt != nil {
		d, err := httpx.ParseDate(*in.IssuedAt)
		if err != nil {
			return errors.New("invalid issued_at")
		}
		inv.IssuedAt = d
	}
	if in.DueDate != nil {
		d, err := httpx.ParseDate(*in.DueDate)
		if err != nil {
			return errors.New("invalid due_date")
		}
		inv.DueDate = d
	}
	if inv.DueDate.Before(inv.IssuedAt) {
		return errors.New("due_date precedes issued_at")
	}
	return nil
}

func contractBelongsTo(tx *gorm.DB, contractID *uint, tenantID uint) error {
	if contractID == nil {
		return nil
	}
	var n int64
	if err := tx.Model(&billing.Contract{}).Where("id = ? AND tenant_id = ?", *contractID, tenantID).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return errForeignContract
	}
	return nil
}

// GET /api/admin/tenants/:id/invoices
func ListInvoices(c *gin.Context) {
	id, ok := httpx.ParamID(c, "id")
	if !ok {
		return
	}

	q := database.DB.Scopes(httpx.ForTenant(id))
	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", status)
	}

	list := []billing.Invoice{}
	if err := q.Order("issued_at DESC").Find(&list).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load invoices"})
		return
	}
	c.JSON(http.StatusOK, list)
}

// POST /api/admin/tenants/:id/invoices
func CreateInvoice(c *gin.Context) {
	id, ok := httpx.ParamID(c, "id")
	if !ok {
		return
	}

	var input invoiceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var t tenants.Tenant
	if err := database.DB.First(&t, id).Error; err != nil {
		httpx.NotFoundOr500(c, err, "Tenant")
		return
	}

	now := time.Now()
	inv := billing.Invoice{
		TenantID: t.ID,
		Currency: "usd",
		Status:   billing.InvoiceDraft,
		IssuedAt: now,
		DueDate:  now.AddDate(0, 0, 30),
	}
	if err := input.apply(&inv); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if inv.Status == billing.InvoicePaid {
		c.JSON(http.StatusBadRequest, gin.H{"error": "use mark-paid to record a payment"})
		return
	}

	if err := contractBelongsTo(database.DB, inv.ContractID, t.ID); err != nil {
		if errors.Is(err, errForeignContract) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create invoice"})
		return
	}

	var err error
	for attempt := 0; attempt < invoiceNumberAttempts; attempt++ {
		inv.ID = 0
		err = database.DB.Transaction(func(tx *gorm.DB) error {
			number, err := billing.NextInvoiceNumber(tx, now)
			if err != nil {
				return err
			}
			inv.Number = number
			return tx.Create(&inv).Error
		})
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			break
		}
	}
	switch {
	case err == nil:
		c.JSON(http.StatusCreated, inv)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		c.JSON(http.StatusConflict, gin.H{"error": "Invoice number already taken, try again"})
	default:
		logger.FromContext(c).Error("create invoice failed", zap.Uint("tenant_id", t.ID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create invoice"})
	}
}

// PATCH /api/admin/invoices/:id
func UpdateInvoice(c *gin.Context) {
	id, ok := httpx.ParamID(c, "id")
	if !ok {
		return
	}

	var input invoiceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var inv billing.Invoice
	if err := database.DB.First(&inv, id).Error; err != nil {
		httpx.NotFoundOr500(c, err, "Invoice")
		return
	}
	if inv.Status == billing.InvoicePaid {
		c.JSON(http.StatusConflict, gin.H{"error": "Paid invoices cannot be edited"})
		return
	}
	if err := input.apply(&inv); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := contractBelongsTo(database.DB, inv.ContractID, inv.TenantID); err != nil {
		if errors.Is(err, errForeignContract) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update invoice"})
		return
	}

	if err := database.DB.Save(&inv).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update invoice"})
		return
	}
	c.JSON(http.StatusOK, inv)
}

// POST /api/admin/invoices/:id/mark-paid
func MarkInvoicePaid(c *gin.Context) {
	id, ok := httpx.ParamID(c, "id")
	if !ok {
		return
	}

	var body struct {
		Amount     float64 `json:"amount" binding:"omitempty,gte=0"`
		ReceiptURL *string `json:"receipt_url"`
	}
	// body is optional
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	var (
		inv     billing.Invoice
		payment *billing.Payment
	)
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&inv, id).Error; err != nil {
			return err
		}
		var err error
		payment, err = billing.MarkPaid(tx, &inv, billing.PaidDetails{
			Method:     billing.MethodManual,
			Amount:     body.Amount,
			ReceiptURL: body.ReceiptURL,
		}, time.Now())
		return err
	})
	switch {
	case err == nil:
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Invoice not found"})
		return
	case errors.Is(err, billing.ErrInvoiceAlreadyPaid), errors.Is(err, billing.ErrInvoiceVoid):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to mark invoice paid"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"invoice": inv, "payment": payment})
}

// POST /api/admin/invoices/:id/send moves a draft to sent and, when Stripe
// is configured, mirrors it there so the tenant can pay online.
func SendInvoice(c *gin.Context) {
	id, ok := httpx.ParamID(c, "id")
	if !ok {
		return
	}

	var inv billing.Invoice
	if err := database.DB.First(&inv, id).Error; err != nil {
		httpx.NotFoundOr500(c, err, "Invoice")
		return
	}
	if inv.Status != billing.InvoiceDraft {
		c.JSON(http.StatusConflict, gin.H{"error": "Only draft invoices can be sent"})
		return
	}

	updates := map[string]interface{}{"status": billing.InvoiceSent}

	if err := stripeinfra.Configure(); err == nil {
		var t tenants.Tenant
		if err := database.DB.First(&t, inv.TenantID).Error; err != nil {
			httpx.NotFoundOr500(c, err, "Tenant")
			return
		}
		if t.StripeCustomerID == nil {
			customerID, err := stripeinfra.NewCustomer(t)
			if err != nil {
				logger.FromContext(c).Error("stripe customer create failed", zap.Uint("tenant_id", t.ID), zap.Error(err))
				c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to create Stripe customer"})
				return
			}
			t.StripeCustomerID = &customerID
			if err := database.DB.Model(&t).Update("stripe_customer_id", customerID).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save Stripe customer"})
				return
			}
		}

		stripeID, err := stripeinfra.PushInvoice(c.Request.Context(), *t.StripeCustomerID, inv)
		if err != nil {
			logger.FromContext(c).Error("stripe invoice push failed", zap.Uint("invoice_id", inv.ID), zap.Error(err))
			c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to send invoice through Stripe"})
			return
		}
		updates["stripe_invoice_id"] = stripeID
	}

	if err := database.DB.Model(&inv).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update invoice"})
		return
	}
	c.JSON(http.StatusOK, inv)
}

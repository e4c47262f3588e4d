package plans

import (
	"errors"
	"net/http"
	"strings"

	"auvora-crm/config"
	"auvora-crm/database"
	"auvora-crm/internal/domain/plans"
	stripeinfra "auvora-crm/internal/infra/stripe"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v75"
	"github.com/stripe/stripe-go/v75/price"
	"gorm.io/gorm"
)

// SyncedPrice is the part of a Stripe price that a Plan mirrors.
type SyncedPrice struct {
	PriceID   string
	ProductID string
	Name      string
	Amount    float64
	Interval  string
	Tier      string
}

// UpsertPlan creates or refreshes the plan for p.PriceID and reports
// whether it was newly created.
func UpsertPlan(db *gorm.DB, p SyncedPrice) (bool, error) {
	var existing plans.Plan
	err := db.Where("stripe_price_id = ?", p.PriceID).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		plan := plans.Plan{
			Name:            p.Name,
			PriceUSD:        p.Amount,
			StripePriceID:   p.PriceID,
			StripeProductID: p.ProductID,
			Interval:        p.Interval,
			Tier:            p.Tier,
		}
		return true, db.Create(&plan).Error
	}
	if err != nil {
		return false, err
	}

	existing.Name = p.Name
	existing.PriceUSD = p.Amount
	existing.StripeProductID = p.ProductID
	existing.Interval = p.Interval
	if p.Tier != "" {
		existing.Tier = p.Tier
	}
	return false, db.Save(&existing).Error
}

// POST /api/admin/plans/sync
func SyncPlansFromStripe(c *gin.Context) {
	if err := stripeinfra.Configure(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Stripe key not configured"})
		return
	}

	params := &stripe.PriceListParams{}
	params.Active = stripe.Bool(true)
	params.Type = stripe.String("recurring")
	params.AddExpand("data.product")

	it := price.List(params)

	synced, created, updated, skipped := 0, 0, 0, 0

	for it.Next() {
		p := it.Price()

		if !p.Active || p.Recurring == nil || p.Product == nil || !p.Product.Active {
			skipped++
			continue
		}
		if config.STRIPE_PRODUCT_ID != "" && p.Product.ID != config.STRIPE_PRODUCT_ID {
			skipped++
			continue
		}
		if string(p.Currency) != "usd" {
			skipped++
			continue
		}
		if p.Metadata["visible"] == "false" {
			skipped++
			continue
		}

		name := p.Product.Name
		if v := p.Metadata["plan"]; v != "" {
			name = v
		}

		isNew, err := UpsertPlan(database.DB, SyncedPrice{
			PriceID:   p.ID,
			ProductID: p.Product.ID,
			Name:      name,
			Amount:    float64(p.UnitAmount) / 100.0,
			Interval:  string(p.Recurring.Interval),
			Tier:      strings.ToLower(p.Metadata["tier"]),
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save plan", "details": err.Error()})
			return
		}
		if isNew {
			created++
		} else {
			updated++
		}
		synced++
	}

	if err := it.Err(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch Stripe prices", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"synced":  synced,
		"created": created,
		"updated": updated,
		"skipped": skipped,
	})
}

type PlanResponse struct {
	ID            uint    `json:"id"`
	Name          string  `json:"name"`
	PriceUSD      float64 `json:"price_usd"`
	StripePriceID string  `json:"stripe_price_id"`
	Interval      string  `json:"interval"`
	Tier          string  `json:"tier"`
}

// GET /api/plans
func ListPlans(c *gin.Context) {
	var plansList []plans.Plan
	q := database.DB.Model(&plans.Plan{})

	if config.STRIPE_PRODUCT_ID != "" {
		q = q.Where("stripe_product_id = ?", config.STRIPE_PRODUCT_ID)
	}

	if err := q.Order("price_usd ASC").Find(&plansList).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load plans"})
		return
	}

	out := make([]PlanResponse, 0, len(plansList))
	for i := range plansList {
		p := plansList[i]
		out = append(out, PlanResponse{
			ID:            p.ID,
			Name:          p.Name,
			PriceUSD:      p.PriceUSD,
			StripePriceID: p.StripePriceID,
			Interval:      p.Interval,
			Tier:          plans.PlanTier(&p),
		})
	}
	c.JSON(http.StatusOK, out)
}

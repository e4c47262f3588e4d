package admin

import (
	"errors"
	"net/http"
	"time"

	"auvora-crm/database"
	"auvora-crm/internal/api/httpx"
	"auvora-crm/internal/domain/billing"
	"auvora-crm/internal/domain/tenants"

	"github.com/gin-gonic/gin"
)

type contractInput struct {
	PlanName   *string  `json:"plan_name"`
	MonthlyFee *float64 `json:"monthly_fee" binding:"omitempty,gte=0"`
	StartDate  *string  `json:"start_date"`
	EndDate    *string  `json:"end_date"`
	Status     *string  `json:"status"`
	Notes      *string  `json:"notes"`
}

// apply copies the set fields onto ct. An empty end_date clears it.
func (in contractInput) apply(ct *billing.Contract) error {
	if in.PlanName != nil {
		ct.PlanName = *in.PlanName
	}
	if in.MonthlyFee != nil {
		ct.MonthlyFee = *in.MonthlyFee
	}
	if in.StartDate != nil {
		d, err := httpx.ParseDate(*in.StartDate)
		if err != nil {
			return errors.New("invalid start_date")
		}
		ct.StartDate = d
	}
	if in.EndDate != nil {
		if *in.EndDate == "" {
			ct.EndDate = nil
		} else {
			d, err := httpx.ParseDate(*in.EndDate)
			if err != nil {
				return errors.New("invalid end_date")
			}
			ct.EndDate = &d
		}
	}
	if in.Status != nil {
		ct.Status = *in.Status
	}
	if in.Notes != nil {
		ct.Notes = *in.Notes
	}
	return ct.Validate()
}

// GET /api/admin/tenants/:id/contracts
func ListContracts(c *gin.Context) {
	id, ok := httpx.ParamID(c, "id")
	if !ok {
		return
	}

	list := []billing.Contract{}
	if err := database.DB.Scopes(httpx.ForTenant(id)).Order("start_date DESC").Find(&list).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load contracts"})
		return
	}
	c.JSON(http.StatusOK, list)
}

// POST /api/admin/tenants/:id/contracts
func CreateContract(c *gin.Context) {
	id, ok := httpx.ParamID(c, "id")
	if !ok {
		return
	}

	var input contractInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var t tenants.Tenant
	if err := database.DB.First(&t, id).Error; err != nil {
		httpx.NotFoundOr500(c, err, "Tenant")
		return
	}

	ct := billing.Contract{
		TenantID:  t.ID,
		StartDate: time.Now().Truncate(24 * time.Hour),
		Status:    billing.ContractDraft,
	}
	if err := input.apply(&ct); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := database.DB.Create(&ct).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create contract"})
		return
	}
	c.JSON(http.StatusCreated, ct)
}

// PATCH /api/admin/contracts/:id
func UpdateContract(c *gin.Context) {
	id, ok := httpx.ParamID(c, "id")
	if !ok {
		return
	}

	var input contractInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var ct billing.Contract
	if err := database.DB.First(&ct, id).Error; err != nil {
		httpx.NotFoundOr500(c, err, "Contract")
		return
	}
	if err := input.apply(&ct); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := database.DB.Save(&ct).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update contract"})
		return
	}
	c.JSON(http.StatusOK, ct)
}

// DELETE /api/admin/contracts/:id
func DeleteContract(c *gin.Context) {
	id, ok := httpx.ParamID(c, "id")
	if !ok {
		return
	}

	res := database.DB.Delete(&billing.Contract{}, id)
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete contract"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Contract not found"})
		return
	}
	c.Status(http.StatusNoContent)
}

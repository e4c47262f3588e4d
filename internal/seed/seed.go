package seed

import (
	"fmt"
	"strings"
	"time"

	"auvora-crm/internal/domain/billing"
	"auvora-crm/internal/domain/messaging"
	"auvora-crm/internal/domain/schedule"
	"auvora-crm/internal/domain/social"
	"auvora-crm/internal/domain/studio"

	"gorm.io/gorm"
)

type Result struct {
	Members    int `json:"members"`
	Classes    int `json:"classes"`
	Staff      int `json:"staff"`
	Shifts     int `json:"shifts"`
	Promotions int `json:"promotions"`
}

// Populate inserts the demo data set for industry into tenantID. Every date
// is relative to now so a fresh reset always looks current.
func Populate(tx *gorm.DB, tenantID uint, industry string, now time.Time) (Result, error) {
	var res Result
	p := profileFor(industry)
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	statuses := []string{
		studio.MemberActive, studio.MemberActive, studio.MemberActive, studio.MemberTrial,
		studio.MemberActive, studio.MemberFrozen, studio.MemberActive, studio.MemberCancelled,
	}

	for i, name := range memberNames {
		joined := day.AddDate(0, 0, -7*(i+1))
		lastVisit := day.AddDate(0, 0, -(i % 5))
		m := studio.Member{
			TenantID:       tenantID,
			Name:           name,
			Email:          strings.ToLower(strings.ReplaceAll(name, " ", ".")) + "@example.com",
			Phone:          fmt.Sprintf("555-01%02d", i),
			Status:         statuses[i%len(statuses)],
			MembershipType: p.MembershipTypes[i%len(p.MembershipTypes)],
			MonthlyRate:    p.Rates[i%len(p.Rates)],
			JoinedAt:       joined,
			LastVisitAt:    &lastVisit,
		}
		if m.Status == studio.MemberCancelled {
			cancelled := day.AddDate(0, 0, -3)
			m.CancelledAt = &cancelled
		}
		if err := tx.Create(&m).Error; err != nil {
			return res, fmt.Errorf("seed member: %w", err)
		}
		res.Members++

		g := p.Goals[i%len(p.Goals)]
		goal := studio.Goal{
			MemberID: m.ID,
			Title:    g.Title,
			Target:   g.Target,
			Progress: g.Target * float64(i%4+1) / 4,
			Unit:     g.Unit,
			Status:   studio.GoalOpen,
		}
		goal.Touch()
		if err := tx.Create(&goal).Error; err != nil {
			return res, fmt.Errorf("seed goal: %w", err)
		}
		if i%3 == 0 {
			note := studio.Note{MemberID: m.ID, Body: "Prefers morning sessions."}
			if err := tx.Create(&note).Error; err != nil {
				return res, fmt.Errorf("seed note: %w", err)
			}
		}
	}

	staff := make([]schedule.Staff, 0, len(staffNames))
	for i, name := range staffNames {
		s := schedule.Staff{
			TenantID:   tenantID,
			Name:       name,
			Email:      strings.ToLower(strings.Fields(name)[0]) + "@studio.example.com",
			Role:       p.StaffRoles[i%len(p.StaffRoles)],
			HourlyRate: float64(22 + 4*i),
			Color:      staffColors[i%len(staffColors)],
			Active:     true,
		}
		if err := tx.Create(&s).Error; err != nil {
			return res, fmt.Errorf("seed staff: %w", err)
		}
		staff = append(staff, s)
		res.Staff++
	}

	monday := schedule.WeekStart(day)
	for d := 0; d < 7; d++ {
		date := monday.AddDate(0, 0, d)
		for i, s := range staff {
			start := date.Add(time.Duration(7+i*4) * time.Hour)
			shift := schedule.StaffShift{
				TenantID: tenantID,
				StaffID:  s.ID,
				StartsAt: start,
				EndsAt:   start.Add(4 * time.Hour),
				Role:     s.Role,
			}
			if err := tx.Create(&shift).Error; err != nil {
				return res, fmt.Errorf("seed shift: %w", err)
			}
			res.Shifts++
		}
	}

	for d := -7; d < 7; d++ {
		for i, name := range p.Classes {
			instructor := staff[i%len(staff)].ID
			c := studio.Class{
				TenantID:        tenantID,
				Name:            name,
				InstructorID:    &instructor,
				StartsAt:        day.AddDate(0, 0, d).Add(time.Duration(8+i*3) * time.Hour),
				DurationMinutes: 60,
				Capacity:        16,
				Enrolled:        6 + (i*3+d+7)%11,
			}
			if d < 0 {
				c.Attended = c.Enrolled - 1
			}
			if err := tx.Create(&c).Error; err != nil {
				return res, fmt.Errorf("seed class: %w", err)
			}
			res.Classes++
		}
	}

	promo := studio.Promotion{
		TenantID:        tenantID,
		Name:            p.Promotion,
		Code:            p.PromoCode,
		DiscountPercent: 20,
		StartsAt:        day.AddDate(0, 0, -14),
		EndsAt:          day.AddDate(0, 1, 0),
		Redemptions:     7,
	}
	if err := tx.Create(&promo).Error; err != nil {
		return res, fmt.Errorf("seed promotion: %w", err)
	}
	res.Promotions++

	return res, nil
}

// Wipe removes every CRM record that Populate creates for the tenant, plus
// the tenant's messages, social posts and payments.
func Wipe(tx *gorm.DB, tenantID uint) error {
	memberIDs := tx.Model(&studio.Member{}).Select("id").Where("tenant_id = ?", tenantID)

	steps := []struct {
		name string
		run  func() error
	}{
		{"goals", func() error { return tx.Where("member_id IN (?)", memberIDs).Delete(&studio.Goal{}).Error }},
		{"notes", func() error { return tx.Where("member_id IN (?)", memberIDs).Delete(&studio.Note{}).Error }},
		{"members", func() error { return tx.Where("tenant_id = ?", tenantID).Delete(&studio.Member{}).Error }},
		{"classes", func() error { return tx.Where("tenant_id = ?", tenantID).Delete(&studio.Class{}).Error }},
		{"shifts", func() error { return tx.Where("tenant_id = ?", tenantID).Delete(&schedule.StaffShift{}).Error }},
		{"staff", func() error { return tx.Where("tenant_id = ?", tenantID).Delete(&schedule.Staff{}).Error }},
		{"promotions", func() error { return tx.Where("tenant_id = ?", tenantID).Delete(&studio.Promotion{}).Error }},
		{"messages", func() error { return tx.Where("tenant_id = ?", tenantID).Delete(&messaging.Message{}).Error }},
		{"social posts", func() error { return tx.Where("tenant_id = ?", tenantID).Delete(&social.Post{}).Error }},
		{"payments", func() error { return tx.Where("tenant_id = ?", tenantID).Delete(&billing.Payment{}).Error }},
	}
	for _, s := range steps {
		if err := s.run(); err != nil {
			return fmt.Errorf("wipe %s: %w", s.name, err)
		}
	}
	return nil
}

// Reset wipes and repopulates a demo tenant in one transaction.
func Reset(db *gorm.DB, tenantID uint, industry string, now time.Time) (Result, error) {
	var res Result
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := Wipe(tx, tenantID); err != nil {
			return err
		}
		var err error
		res, err = Populate(tx, tenantID, industry, now)
		return err
	})
	return res, err
}

package database

import (
	"fmt"

	"auvora-crm/config"
	"auvora-crm/internal/domain/billing"
	"auvora-crm/internal/domain/leads"
	"auvora-crm/internal/domain/messaging"
	"auvora-crm/internal/domain/plans"
	"auvora-crm/internal/domain/quickbooks"
	"auvora-crm/internal/domain/schedule"
	"auvora-crm/internal/domain/social"
	"auvora-crm/internal/domain/studio"
	"auvora-crm/internal/domain/tenants"
	"auvora-crm/internal/domain/users"
	"auvora-crm/internal/infra/logger"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var DB *gorm.DB

// Models is every table the service owns, in dependency order.
func Models() []any {
	return []any{
		// core
		&plans.Plan{},
		&tenants.Tenant{},
		&users.User{},
		&users.VerificationToken{},

		// billing
		&billing.Contract{},
		&billing.Invoice{},
		&billing.Payment{},

		// crm
		&leads.Lead{},
		&studio.Member{},
		&studio.Goal{},
		&studio.Note{},
		&studio.Class{},
		&studio.Promotion{},
		&schedule.Staff{},
		&schedule.StaffShift{},

		// integrations
		&messaging.Message{},
		&social.Post{},
		&quickbooks.Sync{},
	}
}

// Connect opens the database and migrates every model.
func Connect(dialector gorm.Dialector, cfg *gorm.Config) (*gorm.DB, error) {
	if cfg == nil {
		cfg = &gorm.Config{}
	}
	db, err := gorm.Open(dialector, cfg)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.AutoMigrate(Models()...); err != nil {
		return nil, fmt.Errorf("auto migrate: %w", err)
	}
	return db, nil
}

func InitDB() {
	level := gormlogger.Warn
	if config.APP_ENV == "development" {
		level = gormlogger.Info
	}

	db, err := Connect(postgres.Open(config.DB_URL), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(level),
		TranslateError: true,
	})
	if err != nil {
		logger.L().Fatal("❌ Failed to connect to database", zap.Error(err))
	}

	DB = db
	logger.L().Info("✅ Connected and migrated successfully")
}

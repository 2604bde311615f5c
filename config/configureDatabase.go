package config

import (
	"fmt"
	"log"
	"time"

	"contacts-backend/db/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// allModels defines all models that should be migrated.
// This is the only place you need to add new models
var allModels = []interface{}{
	&models.Organization{},
	&models.Contact{},
	&models.Webhook{},
}

func ConfigureDatabase() *gorm.DB {
	host := GetEnvOr("DB_HOST", "localhost")
	user := GetEnv("POSTGRES_USER")
	password := GetEnv("POSTGRES_PASSWORD")
	dbname := GetEnv("POSTGRES_DB")
	port := GetEnvOr("DB_PORT", "5432")
	timezone := GetEnvOr("DB_TIMEZONE", "UTC")

	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=%s",
		host, user, password, dbname, port, timezone,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		// Unique violations during imports are expected and reported per row
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		log.Fatalf("[DB-CONNECT] Failed to connect to database: %v", err)
	}

	// Auto-migrate all models using the allModels slice
	if err := db.AutoMigrate(allModels...); err != nil {
		log.Fatalf("failed to migrate tables: %v", err)
	}
	log.Println("Tables migrated successfully")

	if err := CreateContactEmailPartialIndex(db); err != nil {
		log.Fatalf("[DB-MIGRATE] Failed to create contact email index: %v", err)
	}
	if err := CreateContactLookupIndex(db); err != nil {
		log.Fatalf("[DB-MIGRATE] Failed to create contact lookup index: %v", err)
	}

	// Connection pool configuration
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("[DB-POOL] Failed to get underlying DB connection: %v", err)
	}
	sqlDB.SetMaxOpenConns(30)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(1 * time.Hour)

	log.Println("[DB-POOL] Connection pool configured")
	log.Println("[DB-STATUS] Database setup complete")
	return db
}

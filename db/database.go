package db

import (
	"fmt"
	"log"

	"github.com/civictech-tw/casework/config"
	"github.com/civictech-tw/casework/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init() {
	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		config.DbHost,
		config.DbPort,
		config.DbUser,
		config.DbPassword,
		config.DbName,
	)

	var err error
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("Failed to connect to DB:", err)
	}

	if err := Migrate(DB); err != nil {
		log.Fatal("Failed to auto migrate:", err)
	}

	log.Println("Database connected and migrated")
}

// Migrate creates or updates the schema. Taxonomy and user tables go first
// so the case foreign keys can be created.
func Migrate(gormDB *gorm.DB) error {
	return gormDB.AutoMigrate(
		&models.CaseType{},
		&models.Region{},
		&models.User{},
		&models.Case{},
		&models.CaseHistory{},
		&models.Arrange{},
		&models.Outbox{},
	)
}

func InitWithGormDB(gormDB *gorm.DB) {
	DB = gormDB
}

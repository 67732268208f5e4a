package testutils

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/civictech-tw/casework/db"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SetupPostgresForIntegration provides a migrated postgres-backed gorm DB.
// It uses TEST_DB_DSN when set and otherwise starts a throwaway container.
func SetupPostgresForIntegration() (*gorm.DB, func()) {
	if dsn := os.Getenv("TEST_DB_DSN"); dsn != "" {
		gormDB := openAndMigrate(dsn)
		return gormDB, func() {
			if sqlDB, err := gormDB.DB(); err == nil {
				_ = sqlDB.Close()
			}
		}
	}

	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image: "postgres:15",
		Env: map[string]string{
			"POSTGRES_PASSWORD": "test",
			"POSTGRES_USER":     "test",
			"POSTGRES_DB":       "casework",
		},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}

	pg, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		log.Fatal(err)
	}

	host, err := pg.Host(ctx)
	if err != nil {
		log.Fatal(err)
	}
	port, err := pg.MappedPort(ctx, "5432")
	if err != nil {
		log.Fatal(err)
	}

	dsn := fmt.Sprintf("postgres://test:test@%s:%s/casework?sslmode=disable", host, port.Port())
	gormDB := openAndMigrate(dsn)

	cleanup := func() {
		if sqlDB, err := gormDB.DB(); err == nil {
			_ = sqlDB.Close()
		}
		_ = pg.Terminate(ctx)
	}
	return gormDB, cleanup
}

func openAndMigrate(dsn string) *gorm.DB {
	var gormDB *gorm.DB
	var err error
	for i := 0; i < 10; i++ {
		gormDB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		if err == nil {
			break
		}
		time.Sleep(time.Second)
	}
	if err != nil {
		log.Fatal(err)
	}

	if err := db.Migrate(gormDB); err != nil {
		log.Fatal(err)
	}
	return gormDB
}

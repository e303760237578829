package kernel

import (
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"git.sr.ht/~aondrejcak/pos-api/models"
)

func (art *AppRuntime) PrepareDatabase() error {
	dbLogger := logger.New(
		gormWriter{},
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
		},
	)

	dialector, err := art.dialector()
	if err != nil {
		return err
	}

	db, err := gorm.Open(dialector, &gorm.Config{Logger: dbLogger})
	if err != nil {
		return err
	}

	if err = db.Use(otelgorm.NewPlugin(
		otelgorm.WithAttributes(),
		otelgorm.WithTracerProvider(otel.GetTracerProvider()),
	)); err != nil {
		return err
	}

	if err = Migrate(db); err != nil {
		return err
	}

	art.DatabaseClient = db

	return nil
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.ActivityLog{},
		&models.Category{},
		&models.StoreLocation{},
		&models.Supplier{},
		&models.Unit{},
		&models.Customer{},
		&models.Product{},
		&models.Sale{},
		&models.SaleItem{},
	)
}

func (art *AppRuntime) dialector() (gorm.Dialector, error) {
	switch art.DatabaseDriver {
	case "mysql", "":
		return mysql.Open(art.DatabaseDSN), nil
	case "postgres":
		return postgres.Open(art.DatabaseDSN), nil
	case "sqlite":
		return sqlite.Open(art.DatabaseDSN), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", art.DatabaseDriver)
	}
}

func (rt *RequestRuntime) First(obj interface{}, where string, args ...interface{}) (bool, error) {
	if err := rt.DB.Where(where, args...).First(obj).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, rt.MakeError(err)
	}
	return true, nil
}

// Find loads the row with the given primary key.
func (rt *RequestRuntime) Find(obj interface{}, id interface{}) (bool, error) {
	return rt.First(obj, "id = ?", id)
}

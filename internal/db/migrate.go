package db

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/pms-parking/parkwash/internal/models"
	internalsettings "github.com/pms-parking/parkwash/internal/settings"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Migrate runs database migrations for the current dialect.
func Migrate(conn *gorm.DB) error {
	if conn == nil {
		return fmt.Errorf("db: nil connection")
	}
	switch DialectName(conn) {
	case DialectSQLite, DialectPostgres, "":
	default:
		return fmt.Errorf("db: unsupported dialect: %s", DialectName(conn))
	}

	if errAutoMigrate := conn.AutoMigrate(
		&models.Vehicle{},
		&models.Rate{},
		&models.ParkingRecord{},
		&models.MonthlySubscription{},
		&models.Agreement{},
		&models.AgreementVehicle{},
		&models.WashingService{},
		&models.Washer{},
		&models.EmployeeAdvance{},
		&models.Bonus{},
		&models.Shift{},
		&models.Expense{},
		&models.Setting{},
	); errAutoMigrate != nil {
		return fmt.Errorf("db: migrate: %w", errAutoMigrate)
	}

	// Partial unique indexes back the "one open row" invariants; both dialects accept WHERE.
	if errOpenRecord := conn.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS idx_parking_records_open_vehicle
		ON parking_records (vehicle_id) WHERE exit_time IS NULL
	`).Error; errOpenRecord != nil {
		return fmt.Errorf("db: create open parking record index: %w", errOpenRecord)
	}
	if errOpenShift := conn.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS idx_shifts_open_admin
		ON shifts (admin_id) WHERE end_time IS NULL
	`).Error; errOpenShift != nil {
		return fmt.Errorf("db: create open shift index: %w", errOpenShift)
	}

	if errSeed := ensureIntSetting(conn, internalsettings.HelmetFeeKey, internalsettings.DefaultHelmetFee); errSeed != nil {
		return errSeed
	}
	if errSeed := ensureIntSetting(conn, internalsettings.DefaultCommissionKey, internalsettings.DefaultCommissionPercentage); errSeed != nil {
		return errSeed
	}
	if errSeed := ensureBoolSetting(conn, internalsettings.LockRedisEnabledKey, false); errSeed != nil {
		return errSeed
	}
	return nil
}

// ensureIntSetting ensures an integer setting exists and defaults when empty.
func ensureIntSetting(conn *gorm.DB, key string, value int) error {
	return ensureSetting(conn, key, value)
}

// ensureBoolSetting ensures a boolean setting exists and defaults when empty.
func ensureBoolSetting(conn *gorm.DB, key string, value bool) error {
	return ensureSetting(conn, key, value)
}

func ensureSetting(conn *gorm.DB, key string, value any) error {
	payload, errMarshal := json.Marshal(value)
	if errMarshal != nil {
		return fmt.Errorf("db: marshal %s setting: %w", key, errMarshal)
	}
	rawValue := datatypes.JSON(payload)

	var existing models.Setting
	if errFind := conn.Where("key = ?", key).First(&existing).Error; errFind == nil {
		trimmed := strings.TrimSpace(string(existing.Value))
		if len(existing.Value) == 0 || trimmed == "" || trimmed == "null" {
			if errUpdate := conn.Model(&existing).Updates(map[string]any{
				"value":      rawValue,
				"updated_at": time.Now().UTC(),
			}).Error; errUpdate != nil {
				return fmt.Errorf("db: update %s setting: %w", key, errUpdate)
			}
		}
		return nil
	} else if !errors.Is(errFind, gorm.ErrRecordNotFound) {
		return fmt.Errorf("db: query %s setting: %w", key, errFind)
	}

	setting := models.Setting{
		Key:       key,
		Value:     rawValue,
		UpdatedAt: time.Now().UTC(),
	}
	if errCreate := conn.Create(&setting).Error; errCreate != nil {
		return fmt.Errorf("db: create %s setting: %w", key, errCreate)
	}
	return nil
}

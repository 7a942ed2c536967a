package db

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/pms-parking/parkwash/internal/models"
	internalsettings "github.com/pms-parking/parkwash/internal/settings"
)

func TestMigrateSeedsSettingsAndIsRepeatable(t *testing.T) {
	conn, errOpen := Open("file:" + filepath.Join(t.TempDir(), "migrate.db"))
	if errOpen != nil {
		t.Fatalf("open db: %v", errOpen)
	}
	if errMigrate := Migrate(conn); errMigrate != nil {
		t.Fatalf("migrate: %v", errMigrate)
	}
	if errMigrate := Migrate(conn); errMigrate != nil {
		t.Fatalf("second migrate: %v", errMigrate)
	}

	var setting models.Setting
	if errFind := conn.Where("key = ?", internalsettings.HelmetFeeKey).First(&setting).Error; errFind != nil {
		t.Fatalf("load helmet fee setting: %v", errFind)
	}
	if string(setting.Value) != "100000" {
		t.Fatalf("expected helmet fee 100000, got %s", string(setting.Value))
	}
}

func TestMigrateEnforcesSingleOpenParkingRecord(t *testing.T) {
	conn, errOpen := Open("file:" + filepath.Join(t.TempDir(), "open.db"))
	if errOpen != nil {
		t.Fatalf("open db: %v", errOpen)
	}
	if errMigrate := Migrate(conn); errMigrate != nil {
		t.Fatalf("migrate: %v", errMigrate)
	}

	vehicle := models.Vehicle{Plate: "ABC123", VehicleType: "carro", OwnerName: "Ana"}
	if errCreate := conn.Create(&vehicle).Error; errCreate != nil {
		t.Fatalf("create vehicle: %v", errCreate)
	}
	entry := time.Date(2026, 1, 2, 10, 0, 0, 0, time.UTC)
	first := models.ParkingRecord{VehicleID: vehicle.ID, ShiftID: 1, AdminID: 1, EntryTime: entry, ParkingRateID: 1, PaymentStatus: models.PaymentStatusPending}
	if errCreate := conn.Create(&first).Error; errCreate != nil {
		t.Fatalf("create first record: %v", errCreate)
	}
	second := models.ParkingRecord{VehicleID: vehicle.ID, ShiftID: 1, AdminID: 1, EntryTime: entry.Add(time.Minute), ParkingRateID: 1, PaymentStatus: models.PaymentStatusPending}
	errDup := conn.Create(&second).Error
	if !IsUniqueViolation(errDup) {
		t.Fatalf("expected unique violation, got %v", errDup)
	}

	exit := entry.Add(time.Hour)
	if errClose := conn.Model(&first).Update("exit_time", exit).Error; errClose != nil {
		t.Fatalf("close first record: %v", errClose)
	}
	third := models.ParkingRecord{VehicleID: vehicle.ID, ShiftID: 1, AdminID: 1, EntryTime: exit.Add(time.Minute), ParkingRateID: 1, PaymentStatus: models.PaymentStatusPending}
	if errCreate := conn.Create(&third).Error; errCreate != nil {
		t.Fatalf("create record after exit: %v", errCreate)
	}
}

func TestIsSQLiteDSN(t *testing.T) {
	cases := []struct {
		dsn  string
		want bool
	}{
		{dsn: "file::memory:?cache=shared", want: true},
		{dsn: "/var/lib/parkwash/parkwash.db", want: true},
		{dsn: ":memory:", want: true},
		{dsn: "postgres://u:p@localhost:5432/pw?sslmode=disable", want: false},
		{dsn: "host=localhost user=pw dbname=pw", want: false},
	}
	for _, tc := range cases {
		if got := isSQLiteDSN(tc.dsn); got != tc.want {
			t.Fatalf("isSQLiteDSN(%q)=%v, want %v", tc.dsn, got, tc.want)
		}
	}
}

package store

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/pms-parking/parkwash/internal/db"
	internalsettings "github.com/pms-parking/parkwash/internal/settings"
)

func newSettingsStore(t *testing.T) *Store {
	t.Helper()
	conn, errOpen := db.Open("file:" + filepath.Join(t.TempDir(), "settings.db"))
	if errOpen != nil {
		t.Fatalf("open db: %v", errOpen)
	}
	if errMigrate := db.Migrate(conn); errMigrate != nil {
		t.Fatalf("migrate: %v", errMigrate)
	}
	return New(conn)
}

func TestListSettingsReadsBackScalars(t *testing.T) {
	st := newSettingsStore(t)
	ctx := context.Background()

	rows, errList := st.ListSettings(ctx)
	if errList != nil {
		t.Fatalf("list seeded settings: %v", errList)
	}
	values := make(map[string]string, len(rows))
	for _, row := range rows {
		values[row.Key] = string(row.Value)
	}
	if values[internalsettings.HelmetFeeKey] != "100000" {
		t.Fatalf("expected helmet fee 100000, got %q", values[internalsettings.HelmetFeeKey])
	}
	if values[internalsettings.LockRedisEnabledKey] != "false" {
		t.Fatalf("expected redis lock flag false, got %q", values[internalsettings.LockRedisEnabledKey])
	}

	if _, errUpsert := st.UpsertSetting(ctx, internalsettings.HelmetFeeKey, json.RawMessage("2500")); errUpsert != nil {
		t.Fatalf("upsert helmet fee: %v", errUpsert)
	}
	if _, errUpsert := st.UpsertSetting(ctx, internalsettings.LockRedisAddrKey, json.RawMessage(`"localhost:6379"`)); errUpsert != nil {
		t.Fatalf("upsert redis addr: %v", errUpsert)
	}
	fee, errFind := st.FindSetting(ctx, internalsettings.HelmetFeeKey)
	if errFind != nil || fee == nil {
		t.Fatalf("find helmet fee: %v", errFind)
	}
	if string(fee.Value) != "2500" {
		t.Fatalf("expected helmet fee 2500, got %s", string(fee.Value))
	}
	addr, errAddr := st.FindSetting(ctx, internalsettings.LockRedisAddrKey)
	if errAddr != nil || addr == nil {
		t.Fatalf("find redis addr: %v", errAddr)
	}
	if string(addr.Value) != `"localhost:6379"` {
		t.Fatalf("expected quoted redis addr, got %s", string(addr.Value))
	}

	if errMigrate := db.Migrate(st.DB()); errMigrate != nil {
		t.Fatalf("second migrate over stored settings: %v", errMigrate)
	}
	deleted, errDelete := st.DeleteSetting(ctx, internalsettings.LockRedisAddrKey)
	if errDelete != nil || !deleted {
		t.Fatalf("delete redis addr: deleted=%v err=%v", deleted, errDelete)
	}
}

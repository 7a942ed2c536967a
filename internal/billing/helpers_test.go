package billing

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/pms-parking/parkwash/internal/db"
	"github.com/pms-parking/parkwash/internal/locker"
	"github.com/pms-parking/parkwash/internal/models"
	"github.com/pms-parking/parkwash/internal/store"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Set(t time.Time) {
	c.mu.Lock()
	c.now = t
	c.mu.Unlock()
}

type fixture struct {
	store  *store.Store
	clock  *fakeClock
	rates  *RateResolver
	engine *Engine
	washes *Washes
	subs   *Subscriptions
	agrees *Agreements
	shift  *models.Shift
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	conn, errOpen := db.Open("file:" + filepath.Join(t.TempDir(), "billing.db"))
	if errOpen != nil {
		t.Fatalf("open db: %v", errOpen)
	}
	if errMigrate := db.Migrate(conn); errMigrate != nil {
		t.Fatalf("migrate: %v", errMigrate)
	}
	st := store.New(conn)
	clock := &fakeClock{now: time.Date(2026, 1, 2, 10, 0, 0, 0, time.UTC)}
	locks := locker.NewManager(nil, nil, nil)
	rates := NewRateResolver(st)

	shift := &models.Shift{AdminID: 1, ShiftDate: models.DateOf(clock.Now()), StartTime: clock.Now()}
	if errShift := st.CreateShift(context.Background(), shift); errShift != nil {
		t.Fatalf("create shift: %v", errShift)
	}

	return &fixture{
		store:  st,
		clock:  clock,
		rates:  rates,
		engine: NewEngine(st, rates, locks, EngineConfig{Now: clock.Now}),
		washes: NewWashes(st, locks, clock.Now),
		subs:   NewSubscriptions(st, locks, clock.Now),
		agrees: NewAgreements(st),
		shift:  shift,
	}
}

func (f *fixture) addRate(t *testing.T, vehicleType string, price int64) *models.Rate {
	t.Helper()
	rate, errRate := f.rates.CreateRate(context.Background(), RateInput{VehicleType: vehicleType, RateType: "hour", Price: price})
	if errRate != nil {
		t.Fatalf("create rate: %v", errRate)
	}
	return rate
}

func (f *fixture) admit(t *testing.T, plate, vehicleType string, helmets int) *models.ParkingRecord {
	t.Helper()
	record, errAdmit := f.engine.Admit(context.Background(), AdmitRequest{
		Plate:       plate,
		VehicleType: vehicleType,
		OwnerName:   "Ana Torres",
		AdminID:     1,
		HelmetCount: helmets,
	})
	if errAdmit != nil {
		t.Fatalf("admit %s: %v", plate, errAdmit)
	}
	return record
}

package permissions

import (
	"testing"

	"github.com/pms-parking/parkwash/internal/models"
)

func TestAllowed(t *testing.T) {
	cases := []struct {
		role   models.Role
		method string
		path   string
		want   bool
	}{
		{role: models.RoleGlobalAdmin, method: "post", path: "/v1/rates", want: true},
		{role: models.RoleOperationalAdmin, method: "POST", path: "/v1/rates", want: false},
		{role: models.RoleOperationalAdmin, method: "GET", path: "/v1/rates", want: true},
		{role: models.RoleOperationalAdmin, method: "POST", path: "/v1/parking/entries", want: true},
		{role: models.RoleWasher, method: "POST", path: "/v1/parking/entries", want: false},
		{role: models.RoleWasher, method: "GET", path: "/v1/washers/:id/bonuses", want: true},
		{role: models.RoleUnknown, method: "GET", path: "/v1/washers/:id/bonuses", want: false},
		{role: models.RoleGlobalAdmin, method: "GET", path: "/v1/unknown", want: false},
	}
	for _, tc := range cases {
		if got := Allowed(tc.role, tc.method, tc.path); got != tc.want {
			t.Fatalf("Allowed(%s, %s %s)=%v, want %v", tc.role, tc.method, tc.path, got, tc.want)
		}
	}
}

func TestForRole(t *testing.T) {
	washerKeys := ForRole(models.RoleWasher)
	if len(washerKeys) != 1 || washerKeys[0] != "GET /v1/washers/:id/bonuses" {
		t.Fatalf("unexpected washer permissions %v", washerKeys)
	}
	if got, all := len(ForRole(models.RoleGlobalAdmin)), len(Definitions()); got != all {
		t.Fatalf("expected global admin to hold all %d permissions, got %d", all, got)
	}
}

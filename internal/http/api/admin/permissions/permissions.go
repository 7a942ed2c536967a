// Package permissions maps admin API routes to the roles allowed to call them.
package permissions

import (
	"sort"
	"strings"

	"github.com/pms-parking/parkwash/internal/models"
)

// Definition describes an admin API route and the roles that may call it.
type Definition struct {
	Key    string        `json:"key"`
	Method string        `json:"method"`
	Path   string        `json:"path"`
	Label  string        `json:"label"`
	Module string        `json:"module"`
	Roles  []models.Role `json:"-"`
}

// Key builds a permission key from method and path.
func Key(method, path string) string {
	return strings.ToUpper(method) + " " + path
}

// Allowed reports whether role may call the route. GlobalAdmin may call every
// defined route; unknown routes are denied.
func Allowed(role models.Role, method, path string) bool {
	def, ok := definitionMap[Key(method, path)]
	if !ok {
		return false
	}
	if role == models.RoleGlobalAdmin {
		return true
	}
	for _, allowed := range def.Roles {
		if allowed == role {
			return true
		}
	}
	return false
}

// ForRole returns the permission keys granted to role, sorted.
func ForRole(role models.Role) []string {
	out := make([]string, 0, len(definitions))
	for _, def := range definitions {
		if Allowed(role, def.Method, def.Path) {
			out = append(out, def.Key)
		}
	}
	sort.Strings(out)
	return out
}

// Definitions returns a copy of all permission definitions.
func Definitions() []Definition {
	out := make([]Definition, len(definitions))
	copy(out, definitions)
	return out
}

// newDefinition builds a Definition with a normalized key.
func newDefinition(method, path, label, module string, roles ...models.Role) Definition {
	upperMethod := strings.ToUpper(method)
	return Definition{
		Key:    Key(upperMethod, path),
		Method: upperMethod,
		Path:   path,
		Label:  label,
		Module: module,
		Roles:  roles,
	}
}

var (
	operational = models.RoleOperationalAdmin
	washer      = models.RoleWasher
)

// definitions is the ordered list of permission definitions.
var definitions = []Definition{
	newDefinition("POST", "/v1/parking/entries", "Register Entry", "Parking", operational),
	newDefinition("POST", "/v1/parking/exits", "Register Exit", "Parking", operational),
	newDefinition("GET", "/v1/parking/quote", "Quote Exit", "Parking", operational),

	newDefinition("GET", "/v1/rates", "List Rates", "Rates", operational),
	newDefinition("POST", "/v1/rates", "Create Rate", "Rates"),
	newDefinition("PUT", "/v1/rates/:id", "Update Rate", "Rates"),

	newDefinition("POST", "/v1/shifts/open", "Open Shift", "Shifts", operational),
	newDefinition("POST", "/v1/shifts/close", "Close Shift", "Shifts", operational),
	newDefinition("GET", "/v1/shifts/current", "Current Shift", "Shifts", operational),
	newDefinition("POST", "/v1/expenses", "Register Expense", "Shifts", operational),

	newDefinition("POST", "/v1/subscriptions", "Create Subscription", "Subscriptions", operational),
	newDefinition("GET", "/v1/subscriptions/:plate", "Get Active Subscription", "Subscriptions", operational),

	newDefinition("POST", "/v1/agreements", "Create Agreement", "Agreements"),
	newDefinition("POST", "/v1/agreements/:id/vehicles", "Add Agreement Vehicle", "Agreements", operational),

	newDefinition("POST", "/v1/washes", "Create Wash", "Washes", operational),
	newDefinition("POST", "/v1/washes/:id/assign", "Assign Washer", "Washes", operational),
	newDefinition("POST", "/v1/washes/:id/complete", "Complete Wash", "Washes", operational),

	newDefinition("POST", "/v1/washers", "Create Washer", "Payroll"),
	newDefinition("POST", "/v1/advances", "Register Advance", "Payroll"),
	newDefinition("POST", "/v1/bonuses/calculate", "Calculate Bonuses", "Payroll"),
	newDefinition("GET", "/v1/bonuses/monthly", "Monthly Bonuses", "Payroll"),
	newDefinition("GET", "/v1/washers/:id/bonuses", "Washer Bonuses", "Payroll", operational, washer),

	newDefinition("GET", "/v1/settings", "List Settings", "Settings"),
	newDefinition("PUT", "/v1/settings/:key", "Update Setting", "Settings"),
	newDefinition("DELETE", "/v1/settings/:key", "Delete Setting", "Settings"),
}

// definitionMap indexes definitions by key.
var definitionMap = func() map[string]Definition {
	out := make(map[string]Definition, len(definitions))
	for _, def := range definitions {
		out[def.Key] = def
	}
	return out
}()

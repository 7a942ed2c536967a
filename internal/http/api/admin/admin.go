package admin

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/pms-parking/parkwash/internal/billing"
	"github.com/pms-parking/parkwash/internal/config"
	handlers "github.com/pms-parking/parkwash/internal/http/api/admin/handlers"
	"github.com/pms-parking/parkwash/internal/http/api/admin/permissions"
	"github.com/pms-parking/parkwash/internal/payroll"
	"github.com/pms-parking/parkwash/internal/security"
	"github.com/pms-parking/parkwash/internal/settlement"
	"github.com/pms-parking/parkwash/internal/store"
	"github.com/pms-parking/parkwash/internal/watcher"
	"gorm.io/gorm"
)

// Services bundles the domain services exposed over HTTP.
type Services struct {
	DB            *gorm.DB
	Store         *store.Store
	Engine        *billing.Engine
	Rates         *billing.RateResolver
	Subscriptions *billing.Subscriptions
	Agreements    *billing.Agreements
	Washes        *billing.Washes
	Shifts        *settlement.Service
	Washers       *payroll.Washers
	Advances      *payroll.Advances
	Commission    *payroll.Commission
	Settings      *watcher.SettingsWatcher
}

// RegisterAdminRoutes registers the /v1 routes, middleware, and handlers.
func RegisterAdminRoutes(r *gin.Engine, jwtCfg config.JWTConfig, svc Services) {
	if r == nil || svc.DB == nil {
		return
	}

	healthHandler := handlers.NewHealthHandler(svc.DB)
	r.GET("/healthz", healthHandler.Healthz)

	authed := r.Group("/v1")
	authed.Use(adminAuthMiddleware(jwtCfg))
	authed.Use(adminPermissionMiddleware())

	parkingHandler := handlers.NewParkingHandler(svc.Engine)
	authed.POST("/parking/entries", parkingHandler.Entry)
	authed.POST("/parking/exits", parkingHandler.Exit)
	authed.GET("/parking/quote", parkingHandler.Quote)

	rateHandler := handlers.NewRateHandler(svc.Rates)
	authed.GET("/rates", rateHandler.List)
	authed.POST("/rates", rateHandler.Create)
	authed.PUT("/rates/:id", rateHandler.Update)

	shiftHandler := handlers.NewShiftHandler(svc.Shifts)
	authed.POST("/shifts/open", shiftHandler.Open)
	authed.POST("/shifts/close", shiftHandler.Close)
	authed.GET("/shifts/current", shiftHandler.Current)
	authed.POST("/expenses", shiftHandler.Expense)

	customerHandler := handlers.NewCustomerHandler(svc.Subscriptions, svc.Agreements)
	authed.POST("/subscriptions", customerHandler.CreateSubscription)
	authed.GET("/subscriptions/:plate", customerHandler.ActiveSubscription)
	authed.POST("/agreements", customerHandler.CreateAgreement)
	authed.POST("/agreements/:id/vehicles", customerHandler.AddAgreementVehicle)

	washHandler := handlers.NewWashHandler(svc.Washes)
	authed.POST("/washes", washHandler.Create)
	authed.POST("/washes/:id/assign", washHandler.Assign)
	authed.POST("/washes/:id/complete", washHandler.Complete)

	payrollHandler := handlers.NewPayrollHandler(svc.Washers, svc.Advances, svc.Commission, nil)
	authed.POST("/washers", payrollHandler.CreateWasher)
	authed.POST("/advances", payrollHandler.CreateAdvance)
	authed.POST("/bonuses/calculate", payrollHandler.Calculate)
	authed.GET("/bonuses/monthly", payrollHandler.Monthly)
	authed.GET("/washers/:id/bonuses", payrollHandler.WasherBonuses)

	var refresher handlers.SnapshotRefresher
	if svc.Settings != nil {
		refresher = svc.Settings
	}
	settingHandler := handlers.NewSettingHandler(svc.Store, refresher)
	authed.GET("/settings", settingHandler.List)
	authed.PUT("/settings/:key", settingHandler.Update)
	authed.DELETE("/settings/:key", settingHandler.Delete)
}

// adminAuthMiddleware validates bearer JWTs and stores the caller.
func adminAuthMiddleware(jwtCfg config.JWTConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing authorization header"})
			return
		}

		token := strings.TrimPrefix(authHeader, "Bearer ")
		if token == authHeader {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization format"})
			return
		}
		token = strings.TrimSpace(token)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "empty token"})
			return
		}

		principal, errJWT := security.ParseToken(jwtCfg.Secret, token)
		if errJWT != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		c.Set(handlers.PrincipalKey, principal)
		c.Next()
	}
}

// adminPermissionMiddleware rejects callers whose role may not use the matched route.
func adminPermissionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		value, _ := c.Get(handlers.PrincipalKey)
		principal, ok := value.(security.Principal)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
			return
		}
		if !permissions.Allowed(principal.Role, c.Request.Method, c.FullPath()) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}
		c.Next()
	}
}

package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pms-parking/parkwash/internal/models"
	"github.com/pms-parking/parkwash/internal/payroll"
)

// PayrollHandler manages washers, advances and bonuses.
type PayrollHandler struct {
	washers    *payroll.Washers
	advances   *payroll.Advances
	commission *payroll.Commission
	now        func() time.Time
}

// NewPayrollHandler constructs a payroll handler.
func NewPayrollHandler(washers *payroll.Washers, advances *payroll.Advances, commission *payroll.Commission, now func() time.Time) *PayrollHandler {
	if now == nil {
		now = time.Now
	}
	return &PayrollHandler{washers: washers, advances: advances, commission: commission, now: now}
}

// CreateWasher registers a washer.
func (h *PayrollHandler) CreateWasher(c *gin.Context) {
	var body payroll.WasherRequest
	if !bindJSON(c, &body) {
		return
	}
	washer, errRegister := h.washers.Register(c.Request.Context(), body)
	if errRegister != nil {
		writeError(c, errRegister)
		return
	}
	c.JSON(http.StatusCreated, formatWasher(washer))
}

// CreateAdvance registers a salary advance.
func (h *PayrollHandler) CreateAdvance(c *gin.Context) {
	var body payroll.AdvanceRequest
	if !bindJSON(c, &body) {
		return
	}
	advance, errRegister := h.advances.Register(c.Request.Context(), body)
	if errRegister != nil {
		writeError(c, errRegister)
		return
	}
	c.JSON(http.StatusCreated, formatAdvance(advance))
}

// calculateRequest selects the day of a bonus run; empty means yesterday.
type calculateRequest struct {
	Date string `json:"date"`
}

// Calculate runs the daily bonus calculation.
func (h *PayrollHandler) Calculate(c *gin.Context) {
	var body calculateRequest
	if c.Request.ContentLength > 0 && !bindJSON(c, &body) {
		return
	}
	day := models.DateOf(h.now()).AddDate(0, 0, -1)
	if raw := strings.TrimSpace(body.Date); raw != "" {
		parsed, errParse := time.ParseInLocation(time.DateOnly, raw, time.UTC)
		if errParse != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date"})
			return
		}
		day = parsed
	}
	run, errRun := h.commission.CalculateDaily(c.Request.Context(), day)
	if errRun != nil {
		writeError(c, errRun)
		return
	}
	calculated, skipped, failed := run.Counts()
	c.JSON(http.StatusOK, gin.H{
		"run_id":     run.ID,
		"date":       formatDate(run.Date),
		"calculated": calculated,
		"skipped":    skipped,
		"failed":     failed,
		"results":    run.Results,
	})
}

// Monthly returns net bonus totals per washer for ?year=&month=, defaulting to the current month.
func (h *PayrollHandler) Monthly(c *gin.Context) {
	now := h.now().UTC()
	year, month := now.Year(), int(now.Month())
	if raw := strings.TrimSpace(c.Query("year")); raw != "" {
		parsed, errParse := strconv.Atoi(raw)
		if errParse != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid year"})
			return
		}
		year = parsed
	}
	if raw := strings.TrimSpace(c.Query("month")); raw != "" {
		parsed, errParse := strconv.Atoi(raw)
		if errParse != nil || parsed < 1 || parsed > 12 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid month"})
			return
		}
		month = parsed
	}
	totals, errTotals := h.commission.MonthlyTotals(c.Request.Context(), year, time.Month(month))
	if errTotals != nil {
		writeError(c, errTotals)
		return
	}
	c.JSON(http.StatusOK, gin.H{"year": year, "month": month, "totals": totals})
}

// WasherBonuses lists the bonuses of washer :id between ?from= and ?to= (exclusive).
// Washers may only read their own.
func (h *PayrollHandler) WasherBonuses(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	caller := principal(c)
	if caller.Role == models.RoleWasher && caller.ID != id {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}
	today := models.DateOf(h.now())
	from, okFrom := dateQuery(c, "from", time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC))
	if !okFrom {
		return
	}
	to, okTo := dateQuery(c, "to", today.AddDate(0, 0, 1))
	if !okTo {
		return
	}
	bonuses, errList := h.commission.WasherBonuses(c.Request.Context(), id, from, to)
	if errList != nil {
		writeError(c, errList)
		return
	}
	out := make([]gin.H, 0, len(bonuses))
	for i := range bonuses {
		out = append(out, formatBonus(&bonuses[i]))
	}
	c.JSON(http.StatusOK, gin.H{"bonuses": out})
}

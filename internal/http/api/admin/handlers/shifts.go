package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pms-parking/parkwash/internal/settlement"
)

// ShiftHandler opens and settles cashier shifts.
type ShiftHandler struct {
	shifts *settlement.Service
}

// NewShiftHandler constructs a shift handler.
func NewShiftHandler(shifts *settlement.Service) *ShiftHandler {
	return &ShiftHandler{shifts: shifts}
}

// openShiftRequest is the payload of a shift opening.
type openShiftRequest struct {
	InitialCash int64  `json:"initial_cash"`
	Notes       string `json:"notes"`
}

// Open starts a shift for the calling admin.
func (h *ShiftHandler) Open(c *gin.Context) {
	var body openShiftRequest
	if !bindJSON(c, &body) {
		return
	}
	shift, errOpen := h.shifts.Open(c.Request.Context(), principal(c).ID, body.InitialCash, body.Notes)
	if errOpen != nil {
		writeError(c, errOpen)
		return
	}
	c.JSON(http.StatusCreated, formatShift(shift))
}

// closeShiftRequest is the payload of a shift close.
type closeShiftRequest struct {
	Notes string `json:"notes"`
}

// Close settles the calling admin's open shift.
func (h *ShiftHandler) Close(c *gin.Context) {
	var body closeShiftRequest
	if c.Request.ContentLength > 0 && !bindJSON(c, &body) {
		return
	}
	shift, errClose := h.shifts.Close(c.Request.Context(), principal(c).ID, body.Notes)
	if errClose != nil {
		writeError(c, errClose)
		return
	}
	c.JSON(http.StatusOK, formatShift(shift))
}

// Current returns the calling admin's open shift.
func (h *ShiftHandler) Current(c *gin.Context) {
	shift, errFind := h.shifts.Current(c.Request.Context(), principal(c).ID)
	if errFind != nil {
		writeError(c, errFind)
		return
	}
	c.JSON(http.StatusOK, formatShift(shift))
}

// Expense records an expense.
func (h *ShiftHandler) Expense(c *gin.Context) {
	var body settlement.ExpenseRequest
	if !bindJSON(c, &body) {
		return
	}
	expense, errRegister := h.shifts.RegisterExpense(c.Request.Context(), body)
	if errRegister != nil {
		writeError(c, errRegister)
		return
	}
	c.JSON(http.StatusCreated, formatExpense(expense))
}

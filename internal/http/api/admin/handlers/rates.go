package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/pms-parking/parkwash/internal/billing"
)

// RateHandler manages parking rates.
type RateHandler struct {
	rates *billing.RateResolver
}

// NewRateHandler constructs a rate handler.
func NewRateHandler(rates *billing.RateResolver) *RateHandler {
	return &RateHandler{rates: rates}
}

// List returns rates; ?active=true restricts to active ones.
func (h *RateHandler) List(c *gin.Context) {
	activeOnly := strings.EqualFold(strings.TrimSpace(c.Query("active")), "true")
	rates, errList := h.rates.List(c.Request.Context(), activeOnly)
	if errList != nil {
		writeError(c, errList)
		return
	}
	out := make([]gin.H, 0, len(rates))
	for i := range rates {
		out = append(out, formatRate(&rates[i]))
	}
	c.JSON(http.StatusOK, gin.H{"rates": out})
}

// Create adds a rate and makes it the active one for its category and unit.
func (h *RateHandler) Create(c *gin.Context) {
	var body billing.RateInput
	if !bindJSON(c, &body) {
		return
	}
	rate, errCreate := h.rates.CreateRate(c.Request.Context(), body)
	if errCreate != nil {
		writeError(c, errCreate)
		return
	}
	c.JSON(http.StatusCreated, formatRate(rate))
}

// Update edits a rate in place.
func (h *RateHandler) Update(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	var body billing.RateInput
	if !bindJSON(c, &body) {
		return
	}
	rate, errUpdate := h.rates.UpdateRate(c.Request.Context(), id, body)
	if errUpdate != nil {
		writeError(c, errUpdate)
		return
	}
	c.JSON(http.StatusOK, formatRate(rate))
}

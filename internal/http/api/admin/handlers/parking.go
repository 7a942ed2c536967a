package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/pms-parking/parkwash/internal/billing"
)

// ParkingHandler registers vehicle entries and exits.
type ParkingHandler struct {
	engine *billing.Engine
}

// NewParkingHandler constructs a parking handler.
func NewParkingHandler(engine *billing.Engine) *ParkingHandler {
	return &ParkingHandler{engine: engine}
}

// entryRequest is the payload of a vehicle entry; the admin comes from the token.
type entryRequest struct {
	Plate       string `json:"plate"`
	VehicleType string `json:"vehicle_type"`
	OwnerName   string `json:"owner_name"`
	OwnerPhone  string `json:"owner_phone"`
	Brand       string `json:"brand"`
	Model       string `json:"model"`
	Color       string `json:"color"`
	ShiftID     uint64 `json:"shift_id"`
	HelmetCount int    `json:"helmet_count"`
	Notes       string `json:"notes"`
}

// Entry admits a vehicle.
func (h *ParkingHandler) Entry(c *gin.Context) {
	var body entryRequest
	if !bindJSON(c, &body) {
		return
	}
	record, errAdmit := h.engine.Admit(c.Request.Context(), billing.AdmitRequest{
		Plate:       body.Plate,
		VehicleType: body.VehicleType,
		OwnerName:   body.OwnerName,
		OwnerPhone:  body.OwnerPhone,
		Brand:       body.Brand,
		Model:       body.Model,
		Color:       body.Color,
		ShiftID:     body.ShiftID,
		AdminID:     principal(c).ID,
		HelmetCount: body.HelmetCount,
		Notes:       body.Notes,
	})
	if errAdmit != nil {
		writeError(c, errAdmit)
		return
	}
	c.JSON(http.StatusCreated, formatRecord(record))
}

// exitRequest is the payload of a vehicle exit.
type exitRequest struct {
	Plate string `json:"plate"`
	Notes string `json:"notes"`
}

// Exit prices and closes the open stay of a vehicle.
func (h *ParkingHandler) Exit(c *gin.Context) {
	var body exitRequest
	if !bindJSON(c, &body) {
		return
	}
	settled, errSettle := h.engine.Settle(c.Request.Context(), body.Plate, body.Notes)
	if errSettle != nil {
		writeError(c, errSettle)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"record": formatRecord(settled.Record),
		"quote":  formatQuote(settled.Quote),
	})
}

// Quote prices the open stay of ?plate= without closing it.
func (h *ParkingHandler) Quote(c *gin.Context) {
	preview, errPreview := h.engine.Preview(c.Request.Context(), strings.TrimSpace(c.Query("plate")))
	if errPreview != nil {
		writeError(c, errPreview)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"record": formatRecord(preview.Record),
		"quote":  formatQuote(preview.Quote),
	})
}

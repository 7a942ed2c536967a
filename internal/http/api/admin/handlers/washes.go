package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pms-parking/parkwash/internal/billing"
)

// WashHandler sells and tracks wash services.
type WashHandler struct {
	washes *billing.Washes
}

// NewWashHandler constructs a wash handler.
func NewWashHandler(washes *billing.Washes) *WashHandler {
	return &WashHandler{washes: washes}
}

// washRequest is the payload of a wash sale; the admin comes from the token.
type washRequest struct {
	Plate       string  `json:"plate"`
	VehicleType string  `json:"vehicle_type"`
	OwnerName   string  `json:"owner_name"`
	OwnerPhone  string  `json:"owner_phone"`
	ServiceType string  `json:"service_type"`
	Price       int64   `json:"price"`
	ShiftID     uint64  `json:"shift_id"`
	WasherID    *uint64 `json:"washer_id"`
	Notes       string  `json:"notes"`
}

// Create sells a wash.
func (h *WashHandler) Create(c *gin.Context) {
	var body washRequest
	if !bindJSON(c, &body) {
		return
	}
	wash, errCreate := h.washes.Create(c.Request.Context(), billing.WashRequest{
		Plate:       body.Plate,
		VehicleType: body.VehicleType,
		OwnerName:   body.OwnerName,
		OwnerPhone:  body.OwnerPhone,
		ServiceType: body.ServiceType,
		Price:       body.Price,
		AdminID:     principal(c).ID,
		ShiftID:     body.ShiftID,
		WasherID:    body.WasherID,
		Notes:       body.Notes,
	})
	if errCreate != nil {
		writeError(c, errCreate)
		return
	}
	c.JSON(http.StatusCreated, formatWash(wash))
}

// assignRequest is the payload of a washer assignment.
type assignRequest struct {
	WasherID uint64 `json:"washer_id"`
}

// Assign puts a washer on wash :id.
func (h *WashHandler) Assign(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	var body assignRequest
	if !bindJSON(c, &body) {
		return
	}
	wash, errAssign := h.washes.AssignWasher(c.Request.Context(), id, body.WasherID)
	if errAssign != nil {
		writeError(c, errAssign)
		return
	}
	c.JSON(http.StatusOK, formatWash(wash))
}

// completeRequest is the payload of a wash completion.
type completeRequest struct {
	Notes string `json:"notes"`
}

// Complete finishes wash :id and marks it paid.
func (h *WashHandler) Complete(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	var body completeRequest
	if c.Request.ContentLength > 0 && !bindJSON(c, &body) {
		return
	}
	wash, errComplete := h.washes.Complete(c.Request.Context(), id, body.Notes)
	if errComplete != nil {
		writeError(c, errComplete)
		return
	}
	c.JSON(http.StatusOK, formatWash(wash))
}

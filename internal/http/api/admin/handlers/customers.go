package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/pms-parking/parkwash/internal/billing"
)

// CustomerHandler sells subscriptions and manages company agreements.
type CustomerHandler struct {
	subscriptions *billing.Subscriptions
	agreements    *billing.Agreements
}

// NewCustomerHandler constructs a customer handler.
func NewCustomerHandler(subscriptions *billing.Subscriptions, agreements *billing.Agreements) *CustomerHandler {
	return &CustomerHandler{subscriptions: subscriptions, agreements: agreements}
}

// CreateSubscription sells a monthly subscription.
func (h *CustomerHandler) CreateSubscription(c *gin.Context) {
	var body billing.SubscriptionRequest
	if !bindJSON(c, &body) {
		return
	}
	subscription, errCreate := h.subscriptions.Create(c.Request.Context(), body)
	if errCreate != nil {
		writeError(c, errCreate)
		return
	}
	c.JSON(http.StatusCreated, formatSubscription(subscription))
}

// ActiveSubscription returns the subscription covering today for :plate.
func (h *CustomerHandler) ActiveSubscription(c *gin.Context) {
	subscription, errFind := h.subscriptions.FindActive(c.Request.Context(), strings.TrimSpace(c.Param("plate")))
	if errFind != nil {
		writeError(c, errFind)
		return
	}
	if subscription == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no active subscription"})
		return
	}
	c.JSON(http.StatusOK, formatSubscription(subscription))
}

// CreateAgreement registers a company agreement.
func (h *CustomerHandler) CreateAgreement(c *gin.Context) {
	var body billing.AgreementRequest
	if !bindJSON(c, &body) {
		return
	}
	agreement, errCreate := h.agreements.Create(c.Request.Context(), body)
	if errCreate != nil {
		writeError(c, errCreate)
		return
	}
	c.JSON(http.StatusCreated, formatAgreement(agreement))
}

// agreementVehicleRequest is the payload linking a plate to an agreement.
type agreementVehicleRequest struct {
	Plate string `json:"plate"`
}

// AddAgreementVehicle links a vehicle to agreement :id.
func (h *CustomerHandler) AddAgreementVehicle(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	var body agreementVehicleRequest
	if !bindJSON(c, &body) {
		return
	}
	link, errAdd := h.agreements.AddVehicle(c.Request.Context(), id, body.Plate)
	if errAdd != nil {
		writeError(c, errAdd)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"id":           link.ID,
		"agreement_id": link.AgreementID,
		"vehicle_id":   link.VehicleID,
	})
}

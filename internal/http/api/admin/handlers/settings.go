package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/pms-parking/parkwash/internal/models"
	internalsettings "github.com/pms-parking/parkwash/internal/settings"
)

// SettingStore persists runtime settings.
type SettingStore interface {
	ListSettings(ctx context.Context) ([]models.Setting, error)
	UpsertSetting(ctx context.Context, key string, value json.RawMessage) (*models.Setting, error)
	DeleteSetting(ctx context.Context, key string) (bool, error)
}

// SnapshotRefresher reloads the in-memory settings snapshot.
type SnapshotRefresher interface {
	Refresh(ctx context.Context) error
}

// SettingHandler manages runtime settings.
type SettingHandler struct {
	store   SettingStore
	refresh SnapshotRefresher
}

// NewSettingHandler constructs a settings handler.
func NewSettingHandler(store SettingStore, refresh SnapshotRefresher) *SettingHandler {
	return &SettingHandler{store: store, refresh: refresh}
}

var nonNegativeIntSettingKeys = map[string]struct{}{
	internalsettings.HelmetFeeKey:         {},
	internalsettings.LockRedisDBKey:       {},
	internalsettings.DefaultCommissionKey: {},
}

var boolSettingKeys = map[string]struct{}{
	internalsettings.LockRedisEnabledKey: {},
}

var (
	errNonNegativeIntegerValue = errors.New("value must be a non-negative integer")
	errPercentageValue         = errors.New("value must be between 0 and 100")
	errBoolValue               = errors.New("value must be a boolean")
)

// List returns all settings sorted by key.
func (h *SettingHandler) List(c *gin.Context) {
	rows, errList := h.store.ListSettings(c.Request.Context())
	if errList != nil {
		writeError(c, errList)
		return
	}
	out := make([]gin.H, 0, len(rows))
	for i := range rows {
		out = append(out, formatSetting(&rows[i]))
	}
	c.JSON(http.StatusOK, gin.H{"settings": out})
}

// updateSettingRequest captures the payload for updating a setting.
type updateSettingRequest struct {
	Value json.RawMessage `json:"value"`
}

// Update writes a setting value and refreshes the snapshot.
func (h *SettingHandler) Update(c *gin.Context) {
	key := strings.TrimSpace(c.Param("key"))
	if key == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid key"})
		return
	}
	var body updateSettingRequest
	if !bindJSON(c, &body) {
		return
	}
	if len(body.Value) == 0 || !json.Valid(body.Value) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "value must be valid json"})
		return
	}
	if errValidate := validateSettingValue(key, body.Value); errValidate != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errValidate.Error()})
		return
	}
	setting, errUpsert := h.store.UpsertSetting(c.Request.Context(), key, body.Value)
	if errUpsert != nil {
		writeError(c, errUpsert)
		return
	}
	if !h.refreshSnapshot(c) {
		return
	}
	c.JSON(http.StatusOK, formatSetting(setting))
}

// Delete removes a setting and refreshes the snapshot.
func (h *SettingHandler) Delete(c *gin.Context) {
	key := strings.TrimSpace(c.Param("key"))
	if key == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid key"})
		return
	}
	deleted, errDelete := h.store.DeleteSetting(c.Request.Context(), key)
	if errDelete != nil {
		writeError(c, errDelete)
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	if !h.refreshSnapshot(c) {
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *SettingHandler) refreshSnapshot(c *gin.Context) bool {
	if h.refresh == nil {
		return true
	}
	if errRefresh := h.refresh.Refresh(c.Request.Context()); errRefresh != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "refresh settings snapshot failed"})
		return false
	}
	return true
}

func validateSettingValue(key string, value json.RawMessage) error {
	if _, ok := boolSettingKeys[key]; ok {
		if _, okParse := internalsettings.ParseBool(value); !okParse {
			return errBoolValue
		}
		return nil
	}
	if _, ok := nonNegativeIntSettingKeys[key]; !ok {
		return nil
	}
	parsed, okParse := internalsettings.ParseNonNegativeInt(value)
	if !okParse {
		return errNonNegativeIntegerValue
	}
	if key == internalsettings.DefaultCommissionKey && parsed > 100 {
		return errPercentageValue
	}
	return nil
}

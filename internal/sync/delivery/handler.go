package delivery

import (
	"errors"
	"net/http"

	syncdomain "lifedash-backend/internal/sync/domain"
	syncdto "lifedash-backend/internal/sync/dto"
	"lifedash-backend/internal/sync/usecase"

	"github.com/gin-gonic/gin"
)

type SyncHandler struct {
	syncUsecase usecase.SyncUsecase
}

func NewSyncHandler(syncUsecase usecase.SyncUsecase) *SyncHandler {
	return &SyncHandler{
		syncUsecase: syncUsecase,
	}
}

// ConnectDatabase binds a Notion database to a domain and runs the initial sync
func (h *SyncHandler) ConnectDatabase(c *gin.Context) {
	userID := c.GetString("userID")

	var req syncdto.ConnectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	binding, result, err := h.syncUsecase.ConnectDatabase(c.Request.Context(), userID, &req)
	if err != nil {
		if errors.Is(err, usecase.ErrNoNotionToken) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	resp := gin.H{"binding": binding}
	if result != nil {
		resp["sync"] = syncResponse(binding, result)
	}
	c.JSON(http.StatusOK, resp)
}

func (h *SyncHandler) ListDatabases(c *gin.Context) {
	userID := c.GetString("userID")

	bindings, err := h.syncUsecase.ListBindings(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"databases": bindings})
}

func (h *SyncHandler) DisconnectDatabase(c *gin.Context) {
	userID := c.GetString("userID")
	databaseID := c.Param("database_id")

	var req syncdto.DisconnectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	domainType := syncdomain.DomainType(req.DomainType)
	if !domainType.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown domain type"})
		return
	}

	if err := h.syncUsecase.DisconnectDatabase(c.Request.Context(), userID, databaseID, domainType, domainType.Period()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "database disconnected"})
}

// SyncDomain triggers a full sync for one domain, e.g. POST /api/sync/tasks
// or POST /api/sync/tracking?period=weekly
func (h *SyncHandler) SyncDomain(c *gin.Context) {
	userID := c.GetString("userID")

	domainType, ok := parseDomain(c)
	if !ok {
		return
	}

	binding, result, err := h.syncUsecase.SyncDomain(c.Request.Context(), userID, domainType, domainType.Period())
	if err != nil {
		if errors.Is(err, usecase.ErrBindingNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, syncResponse(binding, result))
}

// ListRecords reads the local mirror only, never the source API
func (h *SyncHandler) ListRecords(c *gin.Context) {
	userID := c.GetString("userID")

	domainType, ok := parseDomain(c)
	if !ok {
		return
	}

	records, err := h.syncUsecase.ListRecords(userID, domainType, domainType.Period())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"records": records})
}

// parseDomain reads :domain (+ optional ?period= for tracking) and writes the
// error response itself on bad input
func parseDomain(c *gin.Context) (syncdomain.DomainType, bool) {
	name := c.Param("domain")
	if name == "tracking" {
		period := c.DefaultQuery("period", "daily")
		name = "tracking-" + period
	}

	domainType := syncdomain.DomainType(name)
	if !domainType.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown domain " + name})
		return "", false
	}
	return domainType, true
}

func syncResponse(binding *syncdomain.Binding, result *syncdomain.SyncResult) syncdto.SyncResponse {
	return syncdto.SyncResponse{
		Success:  len(result.Errors) == 0,
		Synced:   result.Synced,
		Added:    result.Added,
		Removed:  result.Removed,
		Modified: result.Modified,
		LastSync: binding.LastSync,
		Errors:   result.Errors,
	}
}

package moderation

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"modgate/internal/broker"
	"modgate/internal/logger"
	"modgate/internal/rules"
	"modgate/pkg/errors"
	"modgate/pkg/models"
)

type Handler struct {
	service    *Service
	engine     *rules.Engine
	producer   broker.Producer
	inputTopic string
	logger     logger.Logger
}

func NewHandler(service *Service, engine *rules.Engine, producer broker.Producer, inputTopic string, log logger.Logger) *Handler {
	return &Handler{
		service:    service,
		engine:     engine,
		producer:   producer,
		inputTopic: inputTopic,
		logger:     log,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	v1 := router.Group("/api/v1")
	{
		moderation := v1.Group("/moderation")
		{
			moderation.POST("/events", h.SubmitEvent)
			moderation.POST("/process", h.ProcessDirect)
			moderation.POST("/test-event", h.ProcessTestEvent)
			moderation.GET("/events", h.ListEvents)
			moderation.GET("/events/:eventId", h.GetEvent)
			moderation.DELETE("/events/:eventId", h.DeleteEvent)
			moderation.DELETE("/events", h.ClearEvents)
			moderation.GET("/statistics", h.GetStatistics)
		}
	}
}

func (h *Handler) handleError(c *gin.Context, err error) {
	h.logger.ErrorwCtx(c.Request.Context(), "Request error", "error", err, "path", c.Request.URL.Path)

	status := errors.ToHTTPStatus(err)
	response := errors.ToErrorResponse(err)

	c.JSON(status, response)
}

func (h *Handler) bindEvent(c *gin.Context) (*models.RequestEvent, bool) {
	var event models.RequestEvent
	if err := c.ShouldBindJSON(&event); err != nil {
		c.JSON(http.StatusBadRequest, errors.ToErrorResponse(errors.ErrValidation.WithCause(err)))
		return nil, false
	}
	if err := event.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, errors.ToErrorResponse(errors.ErrValidation.WithCause(err)))
		return nil, false
	}
	Normalize(&event)
	return &event, true
}

// SubmitEvent godoc
// @Summary      Submit an event to the moderation pipeline
// @Description  Validate the event and publish it to the inbound topic for asynchronous moderation
// @Tags         moderation
// @Accept       json
// @Produce      json
// @Param        event  body      models.RequestEvent  true  "Customer request event"
// @Success      202    {object}  map[string]interface{}
// @Failure      400    {object}  errors.ErrorResponse
// @Failure      500    {object}  errors.ErrorResponse
// @Router       /moderation/events [post]
func (h *Handler) SubmitEvent(c *gin.Context) {
	event, ok := h.bindEvent(c)
	if !ok {
		return
	}

	if err := h.producer.Publish(c.Request.Context(), h.inputTopic, event.CustomerID, event); err != nil {
		h.handleError(c, errors.ErrInternal.WithCause(err))
		return
	}

	h.logger.InfowCtx(c.Request.Context(), "Event sent to inbound topic",
		"event_id", event.EventID,
		"topic", h.inputTopic,
	)

	c.JSON(http.StatusAccepted, gin.H{
		"status":    "SENT_TO_BROKER",
		"eventId":   event.EventID,
		"topic":     h.inputTopic,
		"timestamp": time.Now(),
	})
}

// ProcessDirect godoc
// @Summary      Process an event synchronously
// @Description  Run the moderation pipeline for the event and return the outcome without going through the broker
// @Tags         moderation
// @Accept       json
// @Produce      json
// @Param        event  body      models.RequestEvent  true  "Customer request event"
// @Success      200    {object}  Result
// @Failure      400    {object}  errors.ErrorResponse
// @Router       /moderation/process [post]
func (h *Handler) ProcessDirect(c *gin.Context) {
	event, ok := h.bindEvent(c)
	if !ok {
		return
	}

	result := h.service.ProcessEvent(c.Request.Context(), event)
	c.JSON(http.StatusOK, result)
}

// ProcessTestEvent godoc
// @Summary      Process a synthetic test event
// @Description  Build a test event from query parameters and run it through the pipeline
// @Tags         moderation
// @Produce      json
// @Param        customer_id  query     string  true   "Customer ID"
// @Param        category     query     string  true   "Request category"
// @Param        priority     query     string  false  "Priority"  default(MEDIUM)
// @Success      200          {object}  Result
// @Failure      400          {object}  errors.ErrorResponse
// @Router       /moderation/test-event [post]
func (h *Handler) ProcessTestEvent(c *gin.Context) {
	customerID := c.Query("customer_id")
	category := c.Query("category")
	if customerID == "" || category == "" {
		c.JSON(http.StatusBadRequest, errors.ToErrorResponse(
			errors.ErrValidation.WithDetail("missing", "customer_id and category are required")))
		return
	}

	priority := models.Priority(c.DefaultQuery("priority", string(models.PriorityMedium)))
	if !priority.Valid() {
		c.JSON(http.StatusBadRequest, errors.ToErrorResponse(
			errors.ErrValidation.WithDetail("priority", string(priority))))
		return
	}

	event := &models.RequestEvent{
		EventID:     uuid.New().String(),
		CustomerID:  customerID,
		RequestID:   fmt.Sprintf("REQ-%d", time.Now().UnixMilli()),
		Category:    category,
		Subject:     "Test request",
		Description: "Test request via API",
		Priority:    priority,
		Timestamp:   time.Now(),
	}

	result := h.service.ProcessEvent(c.Request.Context(), event)
	c.JSON(http.StatusOK, result)
}

// GetEvent godoc
// @Summary      Get a processed event
// @Description  Fetch the stored moderation decision for one event ID
// @Tags         moderation
// @Produce      json
// @Param        eventId  path      string  true  "Event ID"
// @Success      200      {object}  ProcessedRecord
// @Failure      404      {object}  errors.ErrorResponse
// @Failure      500      {object}  errors.ErrorResponse
// @Router       /moderation/events/{eventId} [get]
func (h *Handler) GetEvent(c *gin.Context) {
	eventID := c.Param("eventId")

	record, err := h.service.Store().FindByID(c.Request.Context(), eventID)
	if err != nil {
		h.handleError(c, errors.ErrInternal.WithCause(err))
		return
	}
	if record == nil {
		h.handleError(c, errors.ErrNotFound.WithDetail("eventId", eventID))
		return
	}

	c.JSON(http.StatusOK, record)
}

// ListEvents godoc
// @Summary      List processed events
// @Description  List stored moderation decisions, newest first
// @Tags         moderation
// @Produce      json
// @Param        limit  query     int  false  "Maximum records to return"
// @Success      200    {array}   ProcessedRecord
// @Failure      500    {object}  errors.ErrorResponse
// @Router       /moderation/events [get]
func (h *Handler) ListEvents(c *gin.Context) {
	limit, _ := strconv.ParseInt(c.DefaultQuery("limit", "0"), 10, 64)

	records, err := h.service.Store().ListAll(c.Request.Context(), limit)
	if err != nil {
		h.handleError(c, errors.ErrInternal.WithCause(err))
		return
	}
	if records == nil {
		records = []ProcessedRecord{}
	}

	c.JSON(http.StatusOK, records)
}

// DeleteEvent godoc
// @Summary      Delete a processed event
// @Description  Remove the stored decision for one event ID, allowing it to be processed again
// @Tags         moderation
// @Produce      json
// @Param        eventId  path      string  true  "Event ID"
// @Success      200      {object}  map[string]string
// @Failure      404      {object}  errors.ErrorResponse
// @Failure      500      {object}  errors.ErrorResponse
// @Router       /moderation/events/{eventId} [delete]
func (h *Handler) DeleteEvent(c *gin.Context) {
	eventID := c.Param("eventId")

	deleted, err := h.service.Store().DeleteByID(c.Request.Context(), eventID)
	if err != nil {
		h.handleError(c, errors.ErrInternal.WithCause(err))
		return
	}
	if !deleted {
		h.handleError(c, errors.ErrNotFound.WithDetail("eventId", eventID))
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "DELETED", "eventId": eventID})
}

// ClearEvents godoc
// @Summary      Clear all processed events
// @Description  Delete every stored moderation decision
// @Tags         moderation
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      500  {object}  errors.ErrorResponse
// @Router       /moderation/events [delete]
func (h *Handler) ClearEvents(c *gin.Context) {
	deleted, err := h.service.Store().DeleteAll(c.Request.Context())
	if err != nil {
		h.handleError(c, errors.ErrInternal.WithCause(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "CLEARED", "deletedCount": deleted})
}

// GetStatistics godoc
// @Summary      Get moderation statistics
// @Description  Totals per outcome plus the registered rule chain
// @Tags         moderation
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      500  {object}  errors.ErrorResponse
// @Router       /moderation/statistics [get]
func (h *Handler) GetStatistics(c *gin.Context) {
	stats, err := h.service.Statistics(c.Request.Context())
	if err != nil {
		h.handleError(c, errors.ErrInternal.WithCause(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"totalProcessed":  stats.TotalProcessed,
		"byOutcome":       stats.ByOutcome,
		"registeredRules": h.engine.RegisteredRules(),
		"timestamp":       time.Now(),
	})
}

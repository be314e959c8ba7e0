package appeals

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Planning-Inspectorate/appeals-back-office-sub005/pkg/workflows"
)

// Handler exposes the case lifecycle HTTP surface.
type Handler struct {
	service *Service
}

// NewHandler creates the appeals handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the appeal lifecycle endpoints on the group.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/:id/start", h.StartCase)
	r.POST("/:id/transition", h.ApplyTransition)
	r.PATCH("/:id/timetable", h.PatchTimetable)
	r.GET("/:id/timetable/calculate", h.CalculateTimetable)
	r.GET("/:id/status", h.StatusHistory)
	r.GET("/:id/due-date", h.DueDate)
}

type startCaseRequest struct {
	StartDate string `json:"start_date" binding:"required"`
}

type transitionRequest struct {
	Event string `json:"event" binding:"required"`
}

// StartCase handles POST /appeals/:id/start.
func (h *Handler) StartCase(c *gin.Context) {
	appealID, ok := parseAppealID(c)
	if !ok {
		return
	}
	var req startCaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "start_date is required"})
		return
	}
	startDate, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "start_date must be formatted yyyy-mm-dd"})
		return
	}

	timetable, result, err := h.service.StartCase(c.Request.Context(), appealID, startDate, actorID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"timetable": timetable, "transition": result})
}

// ApplyTransition handles POST /appeals/:id/transition. An event with no edge
// from the current state reports success with applied=false and no state
// change.
func (h *Handler) ApplyTransition(c *gin.Context) {
	appealID, ok := parseAppealID(c)
	if !ok {
		return
	}
	var req transitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "event is required"})
		return
	}

	result, err := h.service.ApplyTransition(c.Request.Context(), TransitionRequest{
		AppealID:   appealID,
		ActorID:    actorID(c),
		Event:      workflows.Event(req.Event),
		OccurredAt: time.Now(),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// PatchTimetable handles PATCH /appeals/:id/timetable.
func (h *Handler) PatchTimetable(c *gin.Context) {
	appealID, ok := parseAppealID(c)
	if !ok {
		return
	}
	var patch TimetablePatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid timetable patch"})
		return
	}

	timetable, err := h.service.PatchTimetable(c.Request.Context(), appealID, patch, actorID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, timetable)
}

// CalculateTimetable handles GET /appeals/:id/timetable/calculate. It returns
// a preview without persisting anything.
func (h *Handler) CalculateTimetable(c *gin.Context) {
	appealID, ok := parseAppealID(c)
	if !ok {
		return
	}
	startDate, err := time.Parse("2006-01-02", c.Query("startDate"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "startDate must be formatted yyyy-mm-dd"})
		return
	}
	procedure := ProcedureType(c.Query("procedureType"))

	timetable, err := h.service.CalculateTimetable(c.Request.Context(), appealID, startDate, procedure)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, timetable)
}

// StatusHistory handles GET /appeals/:id/status.
func (h *Handler) StatusHistory(c *gin.Context) {
	appealID, ok := parseAppealID(c)
	if !ok {
		return
	}
	history, current, err := h.service.StatusHistory(c.Request.Context(), appealID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"current": current, "history": history})
}

// DueDate handles GET /appeals/:id/due-date. A status with no due date yields
// a null date; an unrecognized status is reported as not applicable.
func (h *Handler) DueDate(c *gin.Context) {
	appealID, ok := parseAppealID(c)
	if !ok {
		return
	}
	due, applicable, err := h.service.ProjectedDueDate(c.Request.Context(), appealID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"due_date": due, "applicable": applicable})
}

func parseAppealID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid appeal id"})
		return uuid.Nil, false
	}
	return id, true
}

func actorID(c *gin.Context) string {
	if actor := c.GetString("actor_id"); actor != "" {
		return actor
	}
	return "system"
}

func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, ErrAlreadyStarted):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		// Configuration failures (unknown case type, missing timetable
		// config) surface as server errors.
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"scenecast/internal/database"
	"scenecast/internal/models"
	"scenecast/internal/services"
)

// RunHandler handles run submission and lookup requests.
type RunHandler struct {
	repo        *database.RunRepository
	broadcaster *services.ProgressBroadcaster
}

// NewRunHandler creates a new run handler.
func NewRunHandler(repo *database.RunRepository, broadcaster *services.ProgressBroadcaster) *RunHandler {
	return &RunHandler{repo: repo, broadcaster: broadcaster}
}

// submitRunRequest is the payload accepted by Create: pre-synthesised scene
// sources (narration audio + stills already produced out of band) and an
// optional config overlay (fields it omits keep their
// models.DefaultRenderConfig() values).
type submitRunRequest struct {
	Script       []models.ScriptBlock `json:"script"`
	OpeningTitle string               `json:"opening_title" binding:"required"`
	Sources      []models.SceneSource `json:"sources" binding:"required"`
	Config       *models.RenderConfig `json:"config"`
}

// Create enqueues a new run for the worker to pick up.
func (h *RunHandler) Create(c *gin.Context) {
	defaults := models.DefaultRenderConfig()
	req := submitRunRequest{Config: &defaults}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cfg := models.DefaultRenderConfig()
	if req.Config != nil {
		cfg = *req.Config
	}

	run := &models.RunManifest{
		ID:           uuid.NewString(),
		Script:       req.Script,
		OpeningTitle: req.OpeningTitle,
		Sources:      req.Sources,
		Config:       cfg,
		Status:       models.RunQueued,
		Phase:        "queued",
	}

	if err := h.repo.Create(run); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	h.broadcaster.BroadcastFromRun(run, "run queued")

	c.JSON(http.StatusCreated, run)
}

// GetByID returns one run, including its scene plan and render state.
func (h *RunHandler) GetByID(c *gin.Context) {
	runID := c.Param("id")

	run, err := h.repo.GetByID(runID)
	if err == models.ErrRunNotFound {
		c.JSON(http.StatusNotFound, gin.H{"error": "run not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, run)
}

// GetAll returns every run, most recent first.
func (h *RunHandler) GetAll(c *gin.Context) {
	runs, err := h.repo.List()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"runs": runs})
}

package apihandlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"phishdetect/internal/app"
	"phishdetect/internal/models"
)

type APIHandler struct {
	App *app.App
}

func NewAPIHandler(app *app.App) *APIHandler {
	return &APIHandler{App: app}
}

// DetectHandler classifies the url of a JSON or form-encoded submission.
func (h *APIHandler) DetectHandler(c *gin.Context) {
	var req models.Submission
	if err := c.ShouldBind(&req); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}
	if req.URL == nil {
		DetectionError(c, models.ErrMissingURL)
		return
	}

	prediction, err := h.App.DetectionService.Classify(c.Request.Context(), *req.URL)
	if err != nil {
		DetectionError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": prediction})
}

func (h *APIHandler) ModelHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": h.App.ModelInfo()})
}

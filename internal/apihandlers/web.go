package apihandlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"phishdetect/internal/app"
	"phishdetect/internal/models"
)

const appTitle = "Phishing URL Detector"

// WebHandler renders the HTML views.
type WebHandler struct {
	App *app.App
}

func NewWebHandler(app *app.App) *WebHandler {
	return &WebHandler{App: app}
}

// IndexHandler renders the home form. GET and POST behave the same.
func (h *WebHandler) IndexHandler(c *gin.Context) {
	h.renderIndex(c, http.StatusOK, "", nil)
}

// DetectHandler classifies the submitted url field and renders the result.
func (h *WebHandler) DetectHandler(c *gin.Context) {
	raw, ok := c.GetPostForm("url")
	if !ok {
		h.renderIndex(c, http.StatusBadRequest, "", models.ErrMissingURL)
		return
	}

	prediction, err := h.App.DetectionService.Classify(c.Request.Context(), raw)
	if err != nil {
		if errors.Is(err, models.ErrValidation) {
			h.renderIndex(c, http.StatusBadRequest, raw, err)
			return
		}
		h.renderError(c, http.StatusInternalServerError, err)
		return
	}

	c.HTML(http.StatusOK, "detect.html", gin.H{
		"Title":      appTitle,
		"Prediction": prediction,
		"Result":     prediction.Label,
	})
}

// NotFoundHandler renders the not-found view, or a JSON error under /api/.
func (h *WebHandler) NotFoundHandler(c *gin.Context) {
	if strings.HasPrefix(c.Request.URL.Path, "/api/") {
		NotFound(c, "no route for "+c.Request.Method+" "+c.Request.URL.Path)
		return
	}
	c.HTML(http.StatusNotFound, "404.html", gin.H{
		"Title":  appTitle,
		"Method": c.Request.Method,
		"Path":   c.Request.URL.Path,
	})
}

// Recover is the panic handler of the recovery middleware.
func (h *WebHandler) Recover(c *gin.Context, recovered any) {
	log.WithField("panic", recovered).Error("Recovered from panic")
	h.renderError(c, http.StatusInternalServerError, errors.New("internal server error"))
}

func (h *WebHandler) renderIndex(c *gin.Context, status int, url string, err error) {
	data := gin.H{
		"Title":     appTitle,
		"URL":       url,
		"MaxLength": h.App.Config.Detection.MaxURLLength,
	}
	if err != nil {
		_ = c.Error(err)
		data["Error"] = userMessage(err)
	}
	c.HTML(status, "index.html", data)
}

func (h *WebHandler) renderError(c *gin.Context, status int, err error) {
	_ = c.Error(err)
	data := gin.H{
		"Title":  appTitle,
		"Status": status,
	}
	if h.App.Config.Server.Debug {
		data["Detail"] = err.Error()
	}
	c.HTML(status, "error.html", data)
	c.Abort()
}

// userMessage strips the sentinel prefix from validation errors.
func userMessage(err error) string {
	msg := err.Error()
	if errors.Is(err, models.ErrValidation) {
		msg = strings.TrimPrefix(msg, models.ErrValidation.Error()+": ")
	}
	return msg
}

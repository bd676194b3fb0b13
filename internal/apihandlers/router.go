package apihandlers

import (
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"

	"phishdetect/internal/app"
)

//go:embed templates/*.html
var templateFS embed.FS

// Templates parses the embedded HTML views.
func Templates() (*template.Template, error) {
	tmpl, err := template.New("").Funcs(template.FuncMap{
		"percent": func(p float64) string { return fmt.Sprintf("%.1f%%", p*100) },
	}).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return tmpl, nil
}

// NewRouter builds the HTTP surface around an initialized App. The gin mode
// is left to the caller.
func NewRouter(appInstance *app.App) (*gin.Engine, error) {
	tmpl, err := Templates()
	if err != nil {
		return nil, err
	}

	web := NewWebHandler(appInstance)
	api := NewAPIHandler(appInstance)

	router := gin.New()
	router.SetHTMLTemplate(tmpl)
	router.Use(RequestID(), RequestLogger(), gin.CustomRecovery(web.Recover))

	// --- HTML views ---
	router.GET("/", web.IndexHandler)
	router.POST("/", web.IndexHandler)
	router.POST("/detect", web.DetectHandler)
	router.NoRoute(web.NotFoundHandler)

	// --- JSON API ---
	v1 := router.Group("/api/v1")
	{
		v1.POST("/detect", api.DetectHandler)
		v1.GET("/model", api.ModelHandler)
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	return router, nil
}

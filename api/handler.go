package api

import (
	stderrors "errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/discovery/auth"
	"github.com/kbukum/discovery/errors"
	"github.com/kbukum/discovery/logger"
	"github.com/kbukum/discovery/registry"
	"github.com/kbukum/discovery/server"
	"github.com/kbukum/discovery/server/middleware"
)

// Handler serves the lookup and registration routes.
type Handler struct {
	registry   *registry.Registry
	apiVersion string
	gate       auth.Gate
	log        *logger.Logger
}

// NewHandler creates a Handler. apiVersion may be empty, in which case
// locations are never wrapped. A nil gate rejects every internal call.
func NewHandler(reg *registry.Registry, apiVersion string, gate auth.Gate, log *logger.Logger) *Handler {
	if log == nil {
		log = logger.Nop()
	}
	return &Handler{
		registry:   reg,
		apiVersion: apiVersion,
		gate:       gate,
		log:        log.WithComponent("api"),
	}
}

// RegisterRoutes mounts every route on r.
func (h *Handler) RegisterRoutes(r gin.IRouter) {
	r.GET("/service/:id", h.GetExternalService)
	r.GET("/services/:ids", h.ListExternalServices)

	internal := r.Group("", middleware.RequireInternal(h.gate))
	internal.GET("/service/:id/:network", h.GetService)
	internal.GET("/services/:ids/:network", h.ListServices)
	internal.GET("/@services/:network", h.ListAllServices)

	internal.GET("/@service/:id", h.GetServiceNetworks)
	internal.PUT("/@service/:id", h.SetServiceNetworks)
	internal.DELETE("/@service/:id", h.DeleteService)
	internal.GET("/@service/:id/:network", h.GetServiceRecord)
	internal.POST("/@service/:id/:network", h.SetService)
	internal.DELETE("/@service/:id/:network", h.DeleteServiceNetwork)
}

// fail writes err. Missing services become 404 naming the id; 5xx errors
// are logged and answered without their cause.
func (h *Handler) fail(c *gin.Context, err error) {
	if id, ok := registry.NotFoundID(err); ok {
		server.RespondWithError(c, errors.NotFound("service", id))
		return
	}
	if stderrors.Is(err, registry.ErrServiceNotFound) {
		server.RespondWithError(c, errors.NotFound("service", ""))
		return
	}

	status := http.StatusInternalServerError
	if appErr, ok := errors.AsAppError(err); ok {
		status = appErr.HTTPStatus
	}
	if status >= http.StatusInternalServerError {
		h.log.WithContext(c.Request.Context()).Error("Request failed", logger.Fields(
			"path", c.FullPath(),
			logger.FieldError, err.Error(),
		))
	}
	server.RespondWithError(c, err)
}

// versioned reports whether the request wants wrapped locations.
func versioned(c *gin.Context) bool {
	return c.DefaultQuery("version", "true") == "true"
}

func (h *Handler) wrap(location string) string {
	if h.apiVersion == "" {
		return location
	}
	return location + "/v" + h.apiVersion
}

// splitIDs splits a comma-separated id list, dropping empty segments.
func splitIDs(raw string) []string {
	parts := strings.Split(raw, ",")
	ids := parts[:0]
	for _, p := range parts {
		if p != "" {
			ids = append(ids, p)
		}
	}
	return ids
}

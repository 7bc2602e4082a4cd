package api

import (
	"github.com/gin-gonic/gin"

	"github.com/kbukum/discovery/registry"
	"github.com/kbukum/discovery/server"
)

// GetExternalService handles GET /service/:id.
func (h *Handler) GetExternalService(c *gin.Context) {
	h.lookup(c, c.Param("id"), registry.External)
}

// GetService handles GET /service/:id/:network.
func (h *Handler) GetService(c *gin.Context) {
	h.lookup(c, c.Param("id"), c.Param("network"))
}

func (h *Handler) lookup(c *gin.Context, id, network string) {
	loc, err := h.registry.GetService(c.Request.Context(), id, network)
	if err != nil {
		h.fail(c, err)
		return
	}
	if versioned(c) {
		loc = h.wrap(loc)
	}
	server.RespondText(c, loc)
}

// ListExternalServices handles GET /services/:ids.
func (h *Handler) ListExternalServices(c *gin.Context) {
	h.batch(c, c.Param("ids"), registry.External)
}

// ListServices handles GET /services/:ids/:network.
func (h *Handler) ListServices(c *gin.Context) {
	h.batch(c, c.Param("ids"), c.Param("network"))
}

func (h *Handler) batch(c *gin.Context, rawIDs, network string) {
	locations, err := h.registry.ListServices(c.Request.Context(), splitIDs(rawIDs), network)
	if err != nil {
		h.fail(c, err)
		return
	}
	if versioned(c) {
		for id, loc := range locations {
			locations[id] = h.wrap(loc)
		}
	}
	server.RespondOK(c, locations)
}

// ListAllServices handles GET /@services/:network. Services without a
// location in the network are listed with "".
func (h *Handler) ListAllServices(c *gin.Context) {
	locations, err := h.registry.ListAllServices(c.Request.Context(), c.Param("network"))
	if err != nil {
		h.fail(c, err)
		return
	}
	server.RespondOK(c, locations)
}

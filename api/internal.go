package api

import (
	"github.com/gin-gonic/gin"

	"github.com/kbukum/discovery/errors"
	"github.com/kbukum/discovery/server"
	"github.com/kbukum/discovery/validation"
)

// ServiceRecord is the body of GET /@service/:id/:network.
type ServiceRecord struct {
	ID       string `json:"id"`
	Location string `json:"location"`
}

// Result acknowledges a write.
type Result struct {
	Result string `json:"result"`
}

var resultOK = Result{Result: "OK"}

type registration struct {
	Location string `form:"location" json:"location" validate:"required,max=2048"`
}

// GetServiceRecord handles GET /@service/:id/:network.
func (h *Handler) GetServiceRecord(c *gin.Context) {
	id := c.Param("id")
	loc, err := h.registry.GetService(c.Request.Context(), id, c.Param("network"))
	if err != nil {
		h.fail(c, err)
		return
	}
	server.RespondOK(c, ServiceRecord{ID: id, Location: loc})
}

// SetService handles POST /@service/:id/:network. The location comes from
// the form body or the query string.
func (h *Handler) SetService(c *gin.Context) {
	var req registration
	if err := c.ShouldBind(&req); err != nil {
		h.fail(c, errors.Validation("malformed registration").WithCause(err))
		return
	}
	if err := validation.Validate(req); err != nil {
		h.fail(c, err)
		return
	}

	if err := h.registry.SetService(c.Request.Context(), c.Param("id"), req.Location, c.Param("network")); err != nil {
		h.fail(c, err)
		return
	}
	server.RespondOK(c, resultOK)
}

// GetServiceNetworks handles GET /@service/:id.
func (h *Handler) GetServiceNetworks(c *gin.Context) {
	networks, err := h.registry.ListServiceNetworks(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	server.RespondOK(c, networks)
}

// SetServiceNetworks handles PUT /@service/:id with a JSON object of
// network to location. The record is replaced as a whole; an empty object
// removes it.
func (h *Handler) SetServiceNetworks(c *gin.Context) {
	var networks map[string]string
	if err := c.ShouldBindJSON(&networks); err != nil {
		h.fail(c, errors.Validation("body must be a JSON object of network to location").WithCause(err))
		return
	}
	if networks == nil {
		h.fail(c, errors.Validation("body must be a JSON object of network to location"))
		return
	}

	if err := h.registry.SetServiceNetworks(c.Request.Context(), c.Param("id"), networks); err != nil {
		h.fail(c, err)
		return
	}
	server.RespondOK(c, resultOK)
}

// DeleteService handles DELETE /@service/:id.
func (h *Handler) DeleteService(c *gin.Context) {
	if err := h.registry.DeleteService(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	server.RespondOK(c, resultOK)
}

// DeleteServiceNetwork handles DELETE /@service/:id/:network.
func (h *Handler) DeleteServiceNetwork(c *gin.Context) {
	if err := h.registry.DeleteServiceNetwork(c.Request.Context(), c.Param("id"), c.Param("network")); err != nil {
		h.fail(c, err)
		return
	}
	server.RespondOK(c, resultOK)
}

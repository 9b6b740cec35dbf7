package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/forkwell/recipe-api/internal/service"
	"github.com/forkwell/recipe-api/internal/types"
)

// AttributeHandler serves one attribute kind; the same handler type backs
// both /recipe/tags and /recipe/ingredients.
type AttributeHandler struct {
	attrs service.IAttributeService
}

func NewAttributeHandler(attrs service.IAttributeService) *AttributeHandler {
	return &AttributeHandler{attrs: attrs}
}

// List handles GET with the optional `assigned_only` (0/1) flag.
func (h *AttributeHandler) List(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	assignedOnly, err := parseBoolFlag(c.Query("assigned_only"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rows, err := h.attrs.List(c.Request.Context(), uid, assignedOnly)
	if err != nil {
		serviceError(c, err)
		return
	}

	out := make([]types.AttributeResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, types.AttributeResponse{ID: r.ID, Name: r.Name})
	}
	c.JSON(http.StatusOK, out)
}

func (h *AttributeHandler) Create(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	var req types.AttributeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingError(c, err)
		return
	}

	row, err := h.attrs.Create(c.Request.Context(), uid, req.Name)
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, types.AttributeResponse{ID: row.ID, Name: row.Name})
}

func (h *AttributeHandler) Update(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req types.AttributeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingError(c, err)
		return
	}

	row, err := h.attrs.Update(c.Request.Context(), uid, id, req.Name)
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.AttributeResponse{ID: row.ID, Name: row.Name})
}

func (h *AttributeHandler) Delete(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.attrs.Delete(c.Request.Context(), uid, id); err != nil {
		serviceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Kosench/shortlink-service/internal/model"
)

type GroupHandler struct {
	groups LinkGroupService
	log    *zap.Logger
}

func NewGroupHandler(groups LinkGroupService, log *zap.Logger) *GroupHandler {
	return &GroupHandler{
		groups: groups,
		log:    log,
	}
}

func (h *GroupHandler) Create(c *gin.Context) {
	var req model.CreateLinkGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid JSON format")
		return
	}

	group, err := h.groups.Create(c.Request.Context(), &req)
	if err != nil {
		handleError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, h.response(group))
}

func (h *GroupHandler) List(c *gin.Context) {
	groups, err := h.groups.List(c.Request.Context())
	if err != nil {
		handleError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, groups)
}

// Get returns the group as JSON. Views are counted only by the public page.
func (h *GroupHandler) Get(c *gin.Context) {
	group, err := h.groups.GetByGroupURL(c.Request.Context(), c.Param("groupUrl"))
	if err != nil {
		handleError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, h.response(group))
}

func (h *GroupHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req model.UpdateLinkGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid JSON format")
		return
	}

	group, err := h.groups.Update(c.Request.Context(), id, &req)
	if err != nil {
		handleError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, h.response(group))
}

func (h *GroupHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.groups.Delete(c.Request.Context(), id); err != nil {
		handleError(c, h.log, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *GroupHandler) AddLink(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req model.AddGroupLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid JSON format")
		return
	}

	group, err := h.groups.AddLink(c.Request.Context(), id, &req)
	if err != nil {
		handleError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, group)
}

func (h *GroupHandler) RemoveLink(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	group, err := h.groups.RemoveLink(c.Request.Context(), id, c.Param("linkId"))
	if err != nil {
		handleError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, group)
}

func (h *GroupHandler) response(group *model.LinkGroup) *model.LinkGroupResponse {
	return &model.LinkGroupResponse{
		LinkGroup: *group,
		PageURL:   h.groups.PageURL(group.GroupURL),
	}
}

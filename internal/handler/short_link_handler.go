package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Kosench/shortlink-service/internal/model"
	"github.com/Kosench/shortlink-service/internal/service"
)

// CacheHeader tells a 409 answered from the dedup cache (HIT) apart from one
// answered by the store (MISS).
const CacheHeader = "X-Cache"

type ShortLinkHandler struct {
	links ShortLinkService
	log   *zap.Logger
}

func NewShortLinkHandler(links ShortLinkService, log *zap.Logger) *ShortLinkHandler {
	return &ShortLinkHandler{
		links: links,
		log:   log,
	}
}

func (h *ShortLinkHandler) CreateShortLink(c *gin.Context) {
	var req model.CreateShortLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid JSON format")
		return
	}

	link, outcome, err := h.links.CreateShortLink(c.Request.Context(), &req)
	if err != nil {
		handleError(c, h.log, err)
		return
	}

	response := h.links.ToResponse(link)

	switch outcome {
	case service.OutcomeCreated:
		c.JSON(http.StatusCreated, response)
	case service.OutcomeCached:
		c.Header(CacheHeader, "HIT")
		c.JSON(http.StatusConflict, response)
	default:
		c.Header(CacheHeader, "MISS")
		c.JSON(http.StatusConflict, response)
	}
}

func (h *ShortLinkHandler) Redirect(c *gin.Context) {
	link, err := h.links.Resolve(c.Request.Context(), c.Param("code"))
	if err != nil {
		handleError(c, h.log, err)
		return
	}

	// Выполняем редирект (HTTP 302 - Found)
	c.Redirect(http.StatusFound, link.FullURL)
}

func (h *ShortLinkHandler) DeleteShortLink(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.links.DeleteShortLink(c.Request.Context(), id); err != nil {
		handleError(c, h.log, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		badRequest(c, "id must be a positive integer")
		return 0, false
	}
	return id, true
}

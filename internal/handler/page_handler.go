package handler

import (
	"embed"
	"errors"
	"html/template"
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apperrors "github.com/Kosench/shortlink-service/internal/errors"
	"github.com/Kosench/shortlink-service/internal/model"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Theme colours reach the <style> block through "css", which only lets hex
// colours past the html/template CSS sanitizer.
func loadTemplates() *template.Template {
	return template.Must(template.New("").Funcs(template.FuncMap{
		"css": cssColor,
	}).ParseFS(templatesFS, "templates/*.html"))
}

func cssColor(s string) template.CSS {
	if !hexColor(s) {
		return template.CSS("inherit")
	}
	return template.CSS(s)
}

func hexColor(s string) bool {
	if len(s) != 4 && len(s) != 7 || s[0] != '#' {
		return false
	}
	for _, r := range s[1:] {
		switch {
		case r >= '0' && r <= '9', r >= 'a' && r <= 'f', r >= 'A' && r <= 'F':
		default:
			return false
		}
	}
	return true
}

type PageHandler struct {
	groups LinkGroupService
	log    *zap.Logger
}

func NewPageHandler(groups LinkGroupService, log *zap.Logger) *PageHandler {
	return &PageHandler{
		groups: groups,
		log:    log,
	}
}

// GroupPage renders the public page of a group and counts one view.
func (h *PageHandler) GroupPage(c *gin.Context) {
	group, err := h.groups.IncrementViews(c.Request.Context(), c.Param("groupUrl"))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.HTML(http.StatusNotFound, "not_found.html", nil)
			return
		}
		h.log.Error("failed to render group page", zap.Error(err))
		c.String(http.StatusInternalServerError, "Internal server error")
		return
	}

	links := make([]model.GroupLink, len(group.Links))
	copy(links, group.Links)
	sort.SliceStable(links, func(i, j int) bool {
		return links[i].Order < links[j].Order
	})

	c.HTML(http.StatusOK, "group.html", gin.H{
		"Group": group,
		"Links": links,
	})
}

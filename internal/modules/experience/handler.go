package experience

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"backoffice/internal/access"
	"backoffice/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/experiences", h.List)
	rg.GET("/experiences/:id", h.Get)
}

// List returns experiences visible to the caller.
// @Summary	List experiences
// @Tags		Experiences
// @Security	BearerAuth
// @Param		page	query	int	false	"Page, from 1"
// @Param		limit	query	int	false	"Page size (default 20)"
// @Router		/{scope}/experiences [GET]
func (h *Handler) List(c *gin.Context) {
	var q ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeValidation, "Invalid query parameters")
		return
	}
	res, err := h.svc.List(c.Request.Context(), access.FromContext(c), q)
	if err != nil {
		writeError(c, err)
		return
	}
	response.OK(c, res)
}

// Get returns one experience.
// @Summary	Get experience
// @Tags		Experiences
// @Security	BearerAuth
// @Param		id	path	int	true	"Experience ID"
// @Router		/{scope}/experiences/{id} [GET]
func (h *Handler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, response.CodeValidation, "Invalid experience ID")
		return
	}
	exp, err := h.svc.Get(c.Request.Context(), access.FromContext(c), id)
	if err != nil {
		writeError(c, err)
		return
	}
	response.OK(c, exp)
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, access.ErrForbidden):
		response.Error(c, http.StatusForbidden, response.CodeForbidden, "Access denied")
	case errors.Is(err, access.ErrNotFound):
		response.Error(c, http.StatusNotFound, response.CodeNotFound, "Experience not found")
	default:
		log.Printf("experience_error path=%s error=%q", c.FullPath(), err)
		response.Error(c, http.StatusInternalServerError, response.CodeInternal, "Internal error")
	}
}

package availability

import (
	"errors"
	"log"
	"net/http"

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

// RegisterRoutes mounts the availability endpoints on an admin or partner group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/availability", h.Get)
	rg.POST("/availability/bulk-upsert", h.BulkUpsert)
}

// Get returns stored availability for a room type and date range.
// @Summary	Availability for a date range
// @Tags		Availability
// @Security	BearerAuth
// @Param		experience_id	query	int		true	"Experience ID"
// @Param		room_type_id	query	int		true	"Room type ID"
// @Param		start_date		query	string	true	"YYYY-MM-DD"
// @Param		end_date		query	string	true	"YYYY-MM-DD"
// @Success	200	{object}	map[string]interface{}
// @Failure	400,403,404	{object}	map[string]interface{}
// @Router		/{scope}/availability [GET]
func (h *Handler) Get(c *gin.Context) {
	var q GetAvailabilityQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeValidation, "Invalid query parameters")
		return
	}

	periods, err := h.svc.GetAvailability(c.Request.Context(), access.FromContext(c), q)
	if err != nil {
		writeError(c, err)
		return
	}
	response.OK(c, periods)
}

// BulkUpsert creates or overwrites many day records in one atomic batch.
// @Summary	Bulk upsert availability
// @Tags		Availability
// @Security	BearerAuth
// @Param		request	body	BulkUpsertRequest	true	"Periods"
// @Success	200	{object}	map[string]interface{}
// @Failure	400,403,404	{object}	map[string]interface{}
// @Router		/{scope}/availability/bulk-upsert [POST]
func (h *Handler) BulkUpsert(c *gin.Context) {
	var req BulkUpsertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeValidation, "Invalid request body")
		return
	}

	res, err := h.svc.BulkUpsert(c.Request.Context(), access.FromContext(c), req)
	if err != nil {
		writeError(c, err)
		return
	}
	response.OK(c, res)
}

func writeError(c *gin.Context, err error) {
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		response.ErrorWithDetails(c, http.StatusBadRequest, response.CodeValidation, verr.Message, verr.Fields)
	case errors.Is(err, ErrForbidden):
		response.Error(c, http.StatusForbidden, response.CodeForbidden, "Access denied")
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, response.CodeNotFound, err.Error())
	default:
		log.Printf("availability_error path=%s error=%q", c.FullPath(), err)
		response.Error(c, http.StatusInternalServerError, response.CodeInternal, "Internal error")
	}
}

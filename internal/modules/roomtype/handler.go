package roomtype

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
	rg.GET("/experiences/:id/room-types", h.List)
	rg.POST("/experiences/:id/room-types", h.Create)
	rg.PATCH("/room-types/:id", h.Update)
	rg.DELETE("/room-types/:id", h.Delete)
}

// List returns the room types of an experience.
// @Summary	List room types
// @Tags		Room types
// @Security	BearerAuth
// @Param		id	path	int	true	"Experience ID"
// @Router		/{scope}/experiences/{id}/room-types [GET]
func (h *Handler) List(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	items, err := h.svc.List(c.Request.Context(), access.FromContext(c), id)
	if err != nil {
		writeError(c, err)
		return
	}
	response.OK(c, items)
}

// Create adds a room type to an experience.
// @Summary	Create room type
// @Tags		Room types
// @Security	BearerAuth
// @Param		id		path	int						true	"Experience ID"
// @Param		request	body	CreateRoomTypeRequest	true	"Room type"
// @Router		/{scope}/experiences/{id}/room-types [POST]
func (h *Handler) Create(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req CreateRoomTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeValidation, "Invalid request body")
		return
	}
	rt, err := h.svc.Create(c.Request.Context(), access.FromContext(c), id, req)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, rt)
}

// Update changes the supplied fields of a room type.
// @Summary	Update room type
// @Tags		Room types
// @Security	BearerAuth
// @Param		id		path	int						true	"Room type ID"
// @Param		request	body	UpdateRoomTypeRequest	true	"Changed fields"
// @Router		/{scope}/room-types/{id} [PATCH]
func (h *Handler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req UpdateRoomTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeValidation, "Invalid request body")
		return
	}
	rt, err := h.svc.Update(c.Request.Context(), access.FromContext(c), id, req)
	if err != nil {
		writeError(c, err)
		return
	}
	response.OK(c, rt)
}

// Delete removes a room type and its availability.
// @Summary	Delete room type
// @Tags		Room types
// @Security	BearerAuth
// @Param		id	path	int	true	"Room type ID"
// @Router		/{scope}/room-types/{id} [DELETE]
func (h *Handler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), access.FromContext(c), id); err != nil {
		writeError(c, err)
		return
	}
	response.OK(c, gin.H{"deleted": true})
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, response.CodeValidation, "Invalid ID")
		return 0, false
	}
	return id, true
}

func writeError(c *gin.Context, err error) {
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		response.ErrorWithDetails(c, http.StatusBadRequest, response.CodeValidation, verr.Message, verr.Fields)
	case errors.Is(err, ErrConflict):
		response.Error(c, http.StatusConflict, response.CodeConflict, "Room type name already used in this experience")
	case errors.Is(err, ErrForbidden):
		response.Error(c, http.StatusForbidden, response.CodeForbidden, "Access denied")
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, response.CodeNotFound, err.Error())
	default:
		log.Printf("room_type_error path=%s error=%q", c.FullPath(), err)
		response.Error(c, http.StatusInternalServerError, response.CodeInternal, "Internal error")
	}
}

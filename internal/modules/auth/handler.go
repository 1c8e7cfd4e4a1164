package auth

import (
	"errors"
	"log"
	"net/http"

	"backoffice/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

// Handler manages all HTTP interactions for authentication
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterPublicRoutes(v1 *gin.RouterGroup) {
	v1.POST("/auth/login", h.Login)
}

func (h *Handler) RegisterProtectedRoutes(protected *gin.RouterGroup) {
	protected.GET("/auth/me", h.Me)
}

// Login authenticates an admin or partner.
// @Summary	Sign in
// @Tags		Auth
// @Param		request	body	LoginRequest	true	"Credentials"
// @Success	200	{object}	map[string]interface{}
// @Failure	400,401	{object}	map[string]interface{}
// @Router		/auth/login [POST]
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeValidation, "Invalid request body")
		return
	}

	res, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidCredentials):
			response.Error(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid email or password")
		case errors.Is(err, ErrUnauthorized):
			response.Error(c, http.StatusForbidden, response.CodeForbidden, "Account may not use the backoffice")
		default:
			log.Printf("login_error error=%q", err)
			response.Error(c, http.StatusInternalServerError, response.CodeInternal, "Login failed")
		}
		return
	}
	response.OK(c, res)
}

// Me returns the signed-in account.
// @Summary	Current user
// @Tags		Auth
// @Security	BearerAuth
// @Router		/auth/me [GET]
func (h *Handler) Me(c *gin.Context) {
	user, err := h.service.Me(c.Request.Context(), c.GetInt64("user_id"))
	if err != nil {
		if errors.Is(err, ErrUnauthorized) {
			response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "Authentication required")
			return
		}
		response.Error(c, http.StatusInternalServerError, response.CodeInternal, "Internal error")
		return
	}
	response.OK(c, user)
}

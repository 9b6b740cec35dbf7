package api

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/forkwell/recipe-api/internal/service"
	"github.com/forkwell/recipe-api/internal/types"
)

// UserHandler exposes signup, token issuance and the self-profile endpoints.
type UserHandler struct {
	auth service.IAuthService
}

func NewUserHandler(auth service.IAuthService) *UserHandler {
	return &UserHandler{auth: auth}
}

// Create handles POST /user/create.
func (h *UserHandler) Create(c *gin.Context) {
	var req types.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingError(c, err)
		return
	}

	user, err := h.auth.Register(c.Request.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		log.Printf("signup failed for %s: %v", req.Email, err)
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, types.NewUserResponse(user))
}

// Token handles POST /user/token.
func (h *UserHandler) Token(c *gin.Context) {
	var req types.TokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingError(c, err)
		return
	}

	token, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, types.TokenResponse{Token: token})
}

// Me handles GET /user/me.
func (h *UserHandler) Me(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	user, err := h.auth.GetUser(c.Request.Context(), uid)
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, types.NewUserResponse(user))
}

// UpdateMe handles PATCH /user/me.
func (h *UserHandler) UpdateMe(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	var req types.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingError(c, err)
		return
	}

	user, err := h.auth.UpdateUser(c.Request.Context(), uid, &req)
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, types.NewUserResponse(user))
}

package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/geocoder89/taskhub/internal/actorctx"
	"github.com/geocoder89/taskhub/internal/domain/user"
	"github.com/geocoder89/taskhub/internal/service"
	"github.com/gin-gonic/gin"
)

type AuthService interface {
	SignIn(ctx context.Context, email, password string) (service.AuthResult, error)
	SignUp(ctx context.Context, in service.SignUpInput) (service.AuthResult, error)
}

type AuthHandler struct {
	svc AuthService
}

func NewAuthHandler(svc AuthService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

type SignInRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type SignUpRequest struct {
	Name     string `json:"name" binding:"required,min=5,max=100"`
	Email    string `json:"email" binding:"required,email"`
	Role     string `json:"role" binding:"required,oneof=admin user"`
	Password string `json:"password" binding:"required,min=5"`
}

func (h *AuthHandler) SignUp(ctx *gin.Context) {
	var req SignUpRequest

	if !BindJSON(ctx, &req) {
		return
	}

	// bcrypt dominates here, so allow a little longer than a plain lookup
	cctx, cancel := context.WithTimeout(ctx.Request.Context(), 5*time.Second)
	defer cancel()

	res, err := h.svc.SignUp(cctx, service.SignUpInput{
		Name:     req.Name,
		Email:    req.Email,
		Role:     user.Role(req.Role),
		Password: req.Password,
	})

	if err != nil {
		respondServiceError(ctx, err, "Could not create user")
		return
	}

	ctx.JSON(http.StatusCreated, res)
}

func (h *AuthHandler) SignIn(ctx *gin.Context) {
	var req SignInRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := context.WithTimeout(ctx.Request.Context(), 5*time.Second)
	defer cancel()

	res, err := h.svc.SignIn(cctx, req.Email, req.Password)

	if err != nil {
		respondServiceError(ctx, err, "Could not sign in")
		return
	}

	ctx.JSON(http.StatusCreated, res)
}

// Me returns the live user resolved by RequireAuth.
func (h *AuthHandler) Me(ctx *gin.Context) {
	u, ok := actorctx.UserFrom(ctx.Request.Context())

	if !ok {
		RespondUnAuthorized(ctx, "unauthorized", "Unauthorized")
		return
	}

	ctx.JSON(http.StatusOK, u.Public())
}

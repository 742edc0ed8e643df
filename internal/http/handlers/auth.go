package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/geocoder89/authhub/internal/config"
	"github.com/geocoder89/authhub/internal/http/middlewares"
	"github.com/geocoder89/authhub/internal/service"
	"github.com/gin-gonic/gin"
)

type AuthService interface {
	Signup(ctx context.Context, in service.SignupInput) (service.Session, error)
	Signin(ctx context.Context, in service.SigninInput) (service.Session, error)
	Signout(ctx context.Context, subject string) error
}

type AuthHandler struct {
	svc AuthService
}

func NewAuthHandler(svc AuthService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

type SignupRequest struct {
	Email           string `json:"email" binding:"required,email"`
	Password        string `json:"password" binding:"required"`
	ConfirmPassword string `json:"confirmPassword" binding:"required"`
}

type SigninRequest struct {
	UID      string `json:"uid" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) SignUp(ctx *gin.Context) {
	var req SignupRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)

	defer cancel()

	session, err := h.svc.Signup(cctx, service.SignupInput{
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	})

	if err != nil {
		respondAuthError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"data": session})
}

func (h *AuthHandler) SignIn(ctx *gin.Context) {
	var req SigninRequest

	if !BindJSON(ctx, &req) {
		return
	}

	// short timeout for DB lookup
	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	session, err := h.svc.Signin(cctx, service.SigninInput{
		UID:      req.UID,
		Password: req.Password,
	})

	if err != nil {
		respondAuthError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"data": session})
}

// Profile answers from the token claims attached by the auth middleware. The
// token is the source of truth for the request's duration; identity fields
// reflect issuance time, not live store state.
func (h *AuthHandler) Profile(ctx *gin.Context) {
	claims, ok := middlewares.ClaimsFromContext(ctx)

	if !ok {
		RespondUnauthorized(ctx, "Invalid access token")
		return
	}

	RespondJSONWithETag(ctx, http.StatusOK, gin.H{
		"data": gin.H{
			"name":     claims.Name,
			"username": claims.Username,
			"email":    claims.Email,
		},
	})
}

func (h *AuthHandler) SignOut(ctx *gin.Context) {
	claims, ok := middlewares.ClaimsFromContext(ctx)

	if !ok {
		RespondUnauthorized(ctx, "Invalid access token")
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	err := h.svc.Signout(cctx, claims.Subject)

	if err != nil {
		respondAuthError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Signout successfully"})
}

func respondAuthError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrPasswordMismatch):
		RespondBadRequest(ctx, "Your password and confirmation password do not match.")

	case errors.Is(err, service.ErrAlreadyExists):
		RespondConflict(ctx, "User already exists")

	case errors.Is(err, service.ErrInvalidCredentials):
		RespondUnauthorized(ctx, "Invalid credentials")

	case errors.Is(err, service.ErrUserNotFound):
		RespondNotFound(ctx, "User not found")

	default:
		RespondInternal(ctx, "Something went wrong")
	}
}

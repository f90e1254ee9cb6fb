package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/costschef/user-service/internal/application"
	"github.com/costschef/user-service/internal/interface/middleware"
	"github.com/costschef/user-service/pkg/response"
	"github.com/costschef/user-service/pkg/validation"
)

type AuthHandler struct {
	Svc    *application.AuthService
	Logger *logrus.Logger
}

func NewAuthHandler(svc *application.AuthService, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{Svc: svc, Logger: logger}
}

type registerRequest struct {
	FirstName       string `json:"firstName" binding:"required"`
	LastName        string `json:"lastName" binding:"required"`
	Email           string `json:"email" binding:"required,email"`
	Gender          string `json:"gender"`
	Password        string `json:"password" binding:"required,pwd"`
	PasswordConfirm string `json:"passwordConfirm" binding:"required"`
}

type verifyOTPRequest struct {
	Email string `json:"email" binding:"required,email"`
	OTP   int    `json:"otp" binding:"required"`
}

type refreshOTPRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type passwordResetRequest struct {
	OldPassword        string `json:"oldPassword" binding:"required"`
	NewPassword        string `json:"newPassword" binding:"required,pwd"`
	ConfirmNewPassword string `json:"confirmNewPassword" binding:"required"`
	OTP                int    `json:"otp" binding:"required"`
}

// Register POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	err := h.Svc.Register(c.Request.Context(), application.RegisterInput{
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Email:           req.Email,
		Gender:          req.Gender,
		Password:        req.Password,
		PasswordConfirm: req.PasswordConfirm,
	})
	if err != nil {
		h.writeAuthError(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, nil,
		"Registration successful. Please check your email for the OTP to confirm your account.")
}

// VerifyOTP POST /api/auth/register-confirm
func (h *AuthHandler) VerifyOTP(c *gin.Context) {
	var req verifyOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	token, err := h.Svc.VerifyOTP(c.Request.Context(), req.Email, req.OTP)
	if err != nil {
		h.writeAuthError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"token": token}, "account verified")
}

// RequestNewOTP POST /api/auth/refresh-otp
// Works with or without a bearer token; only unauthenticated callers are
// blocked once the account is verified.
func (h *AuthHandler) RequestNewOTP(c *gin.Context) {
	var req refreshOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	_, authenticated := middleware.UserID(c)
	if err := h.Svc.RequestNewOTP(c.Request.Context(), req.Email, authenticated); err != nil {
		h.writeAuthError(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, nil,
		"A new OTP has been generated and sent to your email. You will receive the most recent code.")
}

// Login POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	token, err := h.Svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.writeAuthError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"token": token}, "login successful")
}

// RefreshToken GET /api/auth/refresh-token (bearer)
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Error[any](c, http.StatusUnauthorized, "user id not found in token", nil)
		return
	}
	token, err := h.Svc.RefreshToken(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, application.ErrUserNotFound) {
			response.Error[any](c, http.StatusUnauthorized, "unknown user", nil)
			return
		}
		h.writeAuthError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"token": token}, "token refreshed")
}

// PasswordReset POST /api/auth/password-reset (bearer)
func (h *AuthHandler) PasswordReset(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Error[any](c, http.StatusUnauthorized, "user id not found in token", nil)
		return
	}
	var req passwordResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	err := h.Svc.PasswordReset(c.Request.Context(), userID, application.PasswordResetInput{
		OldPassword:        req.OldPassword,
		NewPassword:        req.NewPassword,
		ConfirmNewPassword: req.ConfirmNewPassword,
		OTP:                req.OTP,
	})
	if err != nil {
		h.writeAuthError(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, nil, "Password has been successfully reset.")
}

// writeAuthError maps service errors to status codes. Unrecognized errors
// are dependency failures: logged, returned as a generic 500.
func (h *AuthHandler) writeAuthError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, application.ErrPasswordMismatch),
		errors.Is(err, application.ErrInvalidOTP),
		errors.Is(err, application.ErrOTPExpired),
		errors.Is(err, application.ErrAlreadyVerified),
		errors.Is(err, application.ErrNotVerified):
		response.Error[any](c, http.StatusBadRequest, err.Error(), nil)
	case errors.Is(err, application.ErrInvalidPassword):
		response.Error[any](c, http.StatusUnauthorized, err.Error(), nil)
	case errors.Is(err, application.ErrUserNotFound),
		errors.Is(err, application.ErrOTPNotFound):
		response.Error[any](c, http.StatusNotFound, err.Error(), nil)
	case errors.Is(err, application.ErrEmailTaken):
		response.Error[any](c, http.StatusConflict, err.Error(), nil)
	case errors.Is(err, application.ErrEmailSend):
		response.Error[any](c, http.StatusInternalServerError,
			"Failed to send OTP email. Please try again later.", nil)
	default:
		if h.Logger != nil {
			h.Logger.WithError(err).Error("auth request failed")
		}
		response.Error[any](c, http.StatusInternalServerError, "internal error", nil)
	}
}

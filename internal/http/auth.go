package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"shopfront/internal/service"
)

const userIDKey = "userID"

type signupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *Handler) signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validationError(c, err)
		return
	}

	token, err := h.auth.Signup(c.Request.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrDuplicateEmail) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "errors": "User with this email already exists"})
			return
		}
		h.internalError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "token": token})
}

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validationError(c, err)
		return
	}

	token, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "errors": "Incorrect email/password combination"})
			return
		}
		h.internalError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "token": token})
}

// requireUser rejects requests without a verifiable auth-token header and
// stores the token's user id on the context.
func (h *Handler) requireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := h.verifier.Verify(c.GetHeader(authTokenHeader))
		if err != nil {
			_ = c.Error(err)
			unauthenticated(c)
			return
		}
		c.Set(userIDKey, userID)
		c.Next()
	}
}

func unauthenticated(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"errors": "Please authenticate using a valid token"})
}

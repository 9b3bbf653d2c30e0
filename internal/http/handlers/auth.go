package handlers

import (
	"net/http"
	"time"

	"cabline/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login handles POST /api/auth/login.
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	user, hash, err := h.Staff.GetByEmail(req.Email)
	if err != nil {
		if domain.IsNotFound(err) || domain.IsValidation(err) {
			respondError(c, http.StatusUnauthorized, "unauthorized", "email or password is wrong")
		} else {
			RespondDomainError(c, err)
		}
		return
	}
	if user.Status != "active" {
		respondError(c, http.StatusUnauthorized, "unauthorized", "account is disabled")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(req.Password)); err != nil {
		respondError(c, http.StatusUnauthorized, "unauthorized", "email or password is wrong")
		return
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": user.ID,
		"email":   user.Email,
		"role":    user.Role,
		"exp":     time.Now().Add(24 * time.Hour).Unix(),
	})
	tokenString, err := token.SignedString(h.JWTSecret)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "internal_error", "could not issue token")
		return
	}

	h.Staff.TouchLastLogin(user.Email)

	c.JSON(http.StatusOK, gin.H{
		"token": tokenString,
		"user":  user,
	})
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
	Secret   string `json:"secret"`
}

// Register handles POST /api/auth/register. Gated by the bootstrap secret
// so only provisioning scripts can add staff accounts.
func (h *Handler) Register(c *gin.Context) {
	var req registerRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	if h.BootstrapSecret == "" || req.Secret != h.BootstrapSecret {
		respondError(c, http.StatusForbidden, "forbidden", "registration is not open")
		return
	}
	if len(req.Password) < 8 {
		respondError(c, http.StatusBadRequest, "validation_error", "password must be at least 8 characters")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "internal_error", "could not hash password")
		return
	}

	user, err := h.Staff.Create(req.Name, req.Email, string(hash), req.Role)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"user": user})
}

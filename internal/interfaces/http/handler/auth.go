package handler

import (
	"github.com/gin-gonic/gin"
	identityapp "github.com/vetcollars/storefront/internal/application/identity"
	"github.com/vetcollars/storefront/internal/interfaces/http/middleware"
)

// AuthHandler serves back office authentication
type AuthHandler struct {
	BaseHandler
	auth *identityapp.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(auth *identityapp.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Login godoc
// @Summary      Admin login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body identityapp.LoginInput true "Credentials"
// @Success      200 {object} dto.Response{data=identityapp.LoginResult}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req identityapp.LoginInput
	if !h.bind(c, &req) {
		return
	}

	result, err := h.auth.Login(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Logout godoc
// @Summary      Revoke the current token
// @Tags         auth
// @Success      204
// @Security     BearerAuth
// @Router       /admin/auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	claims := middleware.GetJWTClaims(c)
	if claims == nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	err := h.auth.Logout(c.Request.Context(), identityapp.LogoutInput{
		TokenJTI:  claims.ID,
		ExpiresAt: claims.GetExpiresAtTime(),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Me godoc
// @Summary      Current admin
// @Tags         auth
// @Produce      json
// @Success      200 {object} dto.Response{data=identityapp.AdminResponse}
// @Security     BearerAuth
// @Router       /admin/auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	claims := middleware.GetJWTClaims(c)
	if claims == nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	adminID, err := claims.GetAdminUUID()
	if err != nil {
		h.Unauthorized(c, "Invalid token")
		return
	}

	admin, err := h.auth.Me(c.Request.Context(), adminID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, admin)
}

package api

import (
	"fmt"
	"net/http"
	"time"

	"alcyxob/gym-coach/internal/domain"
	"alcyxob/gym-coach/internal/service"

	"github.com/gin-gonic/gin"
)

// AuthHandler holds the authentication service dependency.
type AuthHandler struct {
	authService service.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// --- Request/Response Structs ---

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	ImgURL   string `json:"imgUrl"`
}

// UserResponse excludes sensitive info like password hash
type UserResponse struct {
	ID        string           `json:"id"`
	Name      string           `json:"name"`
	Email     string           `json:"email"`
	ImgURL    string           `json:"imgUrl,omitempty"`
	Role      domain.Role      `json:"role,omitempty"`
	CreatedAt time.Time        `json:"createdAt"`
	LastLogin *time.Time       `json:"lastLogin,omitempty"`
	Boarding  *domain.Boarding `json:"boarding,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// --- Handler Methods ---

// Register godoc
// @Summary Register a new user
// @Description Creates a student account. Admin rights come from the Admins collection, not from registration.
// @Tags Auth
// @Accept json
// @Produce json
// @Param registerRequest body RegisterRequest true "User registration details"
// @Success 201 {object} UserResponse "User created"
// @Failure 400 {object} gin.H "Invalid input (validation error)"
// @Failure 409 {object} gin.H "Conflict (email already exists)"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	user, err := h.authService.Register(c.Request.Context(), req.Name, req.Email, req.Password, req.ImgURL)
	if err != nil {
		respondServiceError(c, err, "Could not process registration")
		return
	}
	c.JSON(http.StatusCreated, MapUserToResponse(user, ""))
}

// Login godoc
// @Summary Log in a user
// @Description Authenticates a user, stamps lastLogin and returns a JWT token carrying the role.
// @Tags Auth
// @Accept json
// @Produce json
// @Param loginRequest body LoginRequest true "User login credentials"
// @Success 200 {object} LoginResponse "Login successful, token returned"
// @Failure 400 {object} gin.H "Invalid input (validation error)"
// @Failure 401 {object} gin.H "Unauthorized (invalid credentials)"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	token, user, role, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondServiceError(c, err, "Could not process login")
		return
	}
	c.JSON(http.StatusOK, LoginResponse{
		Token: token,
		User:  MapUserToResponse(user, role),
	})
}

// Me godoc
// @Summary Current user
// @Description Returns the caller's profile with the role from the token.
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} UserResponse
// @Failure 401 {object} gin.H "Unauthorized"
// @Failure 404 {object} gin.H "User not found"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}
	role, _ := getUserRoleFromContext(c)

	user, err := h.authService.CurrentUser(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err, "Failed to load user.")
		return
	}
	c.JSON(http.StatusOK, MapUserToResponse(user, role))
}

// MapUserToResponse converts a domain User to a UserResponse DTO.
func MapUserToResponse(user *domain.User, role domain.Role) UserResponse {
	if user == nil {
		return UserResponse{}
	}
	return UserResponse{
		ID:        user.ID.Hex(),
		Name:      user.Name,
		Email:     user.Email,
		ImgURL:    user.ImgURL,
		Role:      role,
		CreatedAt: user.CreatedAt,
		LastLogin: user.LastLogin,
		Boarding:  user.Boarding,
	}
}

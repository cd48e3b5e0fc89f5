package api

import (
	"net/http"
	"strings"
	"time"

	"vitaltrack/fitness-app/internal/domain"
	"vitaltrack/fitness-app/internal/service"

	"github.com/gin-gonic/gin"
)

// AuthHandler holds the authentication service dependency.
type AuthHandler struct {
	authService   service.AuthService
	avatarService service.AvatarService
	cookies       SessionCookies
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService service.AuthService, avatarService service.AvatarService, cookies SessionCookies) *AuthHandler {
	return &AuthHandler{authService: authService, avatarService: avatarService, cookies: cookies}
}

// --- Request/Response Structs ---

type RegisterRequest struct {
	FirstName string `json:"firstName" binding:"required,max=50"`
	LastName  string `json:"lastName" binding:"required,max=50"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,password"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type PreferencesRequest struct {
	WeeklyGoal        *int                      `json:"weeklyGoal" binding:"omitempty,min=1,max=14"`
	MeasurementSystem *domain.MeasurementSystem `json:"measurementSystem" binding:"omitempty,oneof=metric imperial"`
	RemindersEnabled  *bool                     `json:"remindersEnabled"`
}

type UpdateProfileRequest struct {
	FirstName   *string             `json:"firstName" binding:"omitempty,min=1,max=50"`
	LastName    *string             `json:"lastName" binding:"omitempty,min=1,max=50"`
	Age         *int                `json:"age" binding:"omitempty,min=13,max=120"`
	HeightCm    *float64            `json:"heightCm" binding:"omitempty,min=50,max=260"`
	WeightKg    *float64            `json:"weightKg" binding:"omitempty,min=20,max=400"`
	Preferences *PreferencesRequest `json:"preferences"`
}

type AvatarUploadRequest struct {
	ContentType string `json:"contentType" binding:"required"`
}

type PreferencesResponse struct {
	WeeklyGoal        int                      `json:"weeklyGoal"`
	MeasurementSystem domain.MeasurementSystem `json:"measurementSystem"`
	RemindersEnabled  bool                     `json:"remindersEnabled"`
}

// UserResponse excludes sensitive info like password hash
type UserResponse struct {
	ID          string              `json:"id"`
	FirstName   string              `json:"firstName"`
	LastName    string              `json:"lastName"`
	Email       string              `json:"email"`
	Roles       []string            `json:"roles"`
	Preferences PreferencesResponse `json:"preferences"`
	HasAvatar   bool                `json:"hasAvatar"`
	Age         *int                `json:"age,omitempty"`
	HeightCm    *float64            `json:"heightCm,omitempty"`
	WeightKg    *float64            `json:"weightKg,omitempty"`
	CreatedAt   time.Time           `json:"createdAt"`
	UpdatedAt   time.Time           `json:"updatedAt"`
}

type AuthResponse struct {
	User   UserResponse      `json:"user"`
	Tokens service.TokenPair `json:"tokens"`
}

// MapUserToResponse converts a domain User to a UserResponse DTO.
// Crucially excludes PasswordHash and converts ObjectIDs to strings.
func MapUserToResponse(user *domain.User) UserResponse {
	if user == nil {
		return UserResponse{}
	}
	return UserResponse{
		ID:        user.ID.Hex(),
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Email:     user.Email,
		Roles:     user.RoleStrings(),
		Preferences: PreferencesResponse{
			WeeklyGoal:        user.Preferences.WeeklyGoal,
			MeasurementSystem: user.Preferences.MeasurementSystem,
			RemindersEnabled:  user.Preferences.RemindersEnabled,
		},
		HasAvatar: user.AvatarKey != "",
		Age:       user.Age,
		HeightCm:  user.HeightCm,
		WeightKg:  user.WeightKg,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}

// --- Handler Methods ---

// Register godoc
// @Summary Register a new user
// @Tags Auth
// @Accept json
// @Produce json
// @Param user body RegisterRequest true "Registration details"
// @Success 201 {object} AuthResponse
// @Failure 400 {object} errorResponse "Invalid input (validation error)"
// @Failure 409 {object} errorResponse "Email already in use"
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	user, tokens, err := h.authService.Register(c.Request.Context(), service.RegisterInput{
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		Email:     req.Email,
		Password:  req.Password,
	})
	if err != nil {
		abortWithError(c, err)
		return
	}

	h.cookies.Attach(c, tokens)
	c.JSON(http.StatusCreated, AuthResponse{User: MapUserToResponse(user), Tokens: tokens})
}

// Login godoc
// @Summary Log in a user
// @Description Unknown emails and wrong passwords get the same 401.
// @Tags Auth
// @Accept json
// @Produce json
// @Param credentials body LoginRequest true "Login credentials"
// @Success 200 {object} AuthResponse
// @Failure 401 {object} errorResponse "Invalid credentials"
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	user, tokens, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		abortWithError(c, err)
		return
	}

	h.cookies.Attach(c, tokens)
	c.JSON(http.StatusOK, AuthResponse{User: MapUserToResponse(user), Tokens: tokens})
}

// refreshTokenFrom reads the refresh token from the cookie, the header or
// the JSON body, in that order.
func refreshTokenFrom(c *gin.Context) string {
	if token, err := c.Cookie(RefreshTokenCookie); err == nil && token != "" {
		return token
	}
	if token := c.GetHeader(refreshTokenHeader); token != "" {
		return token
	}
	var body RefreshRequest
	if c.Request.ContentLength != 0 {
		_ = c.ShouldBindJSON(&body)
	}
	return body.RefreshToken
}

// Refresh godoc
// @Summary Rotate the token pair
// @Tags Auth
// @Produce json
// @Success 200 {object} map[string]service.TokenPair
// @Failure 401 {object} errorResponse
// @Router /auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	_, tokens, err := h.authService.Refresh(c.Request.Context(), refreshTokenFrom(c))
	if err != nil {
		abortWithError(c, err)
		return
	}

	h.cookies.Attach(c, tokens)
	c.JSON(http.StatusOK, gin.H{"tokens": tokens})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	h.cookies.Clear(c)
	c.Status(http.StatusNoContent)
}

func (h *AuthHandler) Me(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"user": MapUserToResponse(currentUser(c))})
}

// UpdateMe godoc
// @Summary Edit the authenticated user's profile
// @Tags Auth
// @Accept json
// @Produce json
// @Param profile body UpdateProfileRequest true "Fields to change"
// @Success 200 {object} map[string]UserResponse
// @Router /auth/me [patch]
func (h *AuthHandler) UpdateMe(c *gin.Context) {
	var req UpdateProfileRequest
	if !bindJSON(c, &req) {
		return
	}

	in := service.ProfileUpdate{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Age:       req.Age,
		HeightCm:  req.HeightCm,
		WeightKg:  req.WeightKg,
	}
	if req.Preferences != nil {
		in.Preferences = &service.PreferencesUpdate{
			WeeklyGoal:        req.Preferences.WeeklyGoal,
			MeasurementSystem: req.Preferences.MeasurementSystem,
			RemindersEnabled:  req.Preferences.RemindersEnabled,
		}
	}

	user, err := h.authService.UpdateProfile(c.Request.Context(), currentUserID(c), in)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": MapUserToResponse(user)})
}

// CreateAvatarUpload returns a presigned PUT URL for a new profile picture.
func (h *AuthHandler) CreateAvatarUpload(c *gin.Context) {
	var req AvatarUploadRequest
	if !bindJSON(c, &req) {
		return
	}

	upload, err := h.avatarService.CreateUpload(c.Request.Context(), currentUserID(c), req.ContentType)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, upload)
}

func (h *AuthHandler) GetAvatar(c *gin.Context) {
	url, err := h.avatarService.DownloadURL(c.Request.Context(), currentUserID(c))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"downloadUrl": url})
}

func (h *AuthHandler) DeleteAvatar(c *gin.Context) {
	if err := h.avatarService.Delete(c.Request.Context(), currentUserID(c)); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

package service

import (
	"context"
	"errors"
	"strings"

	"vitaltrack/fitness-app/internal/apperror"
	"vitaltrack/fitness-app/internal/domain"
	"vitaltrack/fitness-app/internal/logger"
	"vitaltrack/fitness-app/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

// --- Error Definitions ---
var (
	ErrUserAlreadyExists    = apperror.Conflict("Email already in use")
	ErrAuthenticationFailed = apperror.Unauthenticated("Invalid credentials")
	ErrAuthRequired         = apperror.Unauthenticated("Authentication required")
	ErrSessionInvalid       = apperror.Unauthenticated("Invalid or expired token")
	ErrSessionUserGone      = apperror.Unauthenticated("User not found")
	ErrRefreshTokenMissing  = apperror.Unauthenticated("Refresh token missing")
)

// RegisterInput carries the registration form.
type RegisterInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
}

// PreferencesUpdate patches user preferences; nil fields are left unchanged.
type PreferencesUpdate struct {
	WeeklyGoal        *int
	MeasurementSystem *domain.MeasurementSystem
	RemindersEnabled  *bool
}

// ProfileUpdate patches the editable profile; nil fields are left unchanged.
type ProfileUpdate struct {
	FirstName   *string
	LastName    *string
	Age         *int
	HeightCm    *float64
	WeightKg    *float64
	Preferences *PreferencesUpdate
}

// AuthService covers registration, credential checks and the token lifecycle.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.User, TokenPair, error)
	Login(ctx context.Context, email, password string) (*domain.User, TokenPair, error)
	// Refresh verifies a refresh token and rotates the pair.
	Refresh(ctx context.Context, refreshToken string) (*domain.User, TokenPair, error)
	// Authenticate resolves an access token to a persisted user.
	Authenticate(ctx context.Context, accessToken string) (*domain.User, error)
	GetUser(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
	UpdateProfile(ctx context.Context, userID primitive.ObjectID, in ProfileUpdate) (*domain.User, error)
}

// AuthOption customizes an auth service.
type AuthOption func(*authService)

// WithBcryptCost overrides the password hashing cost.
func WithBcryptCost(cost int) AuthOption {
	return func(s *authService) {
		s.bcryptCost = cost
	}
}

// authService implements the AuthService interface.
type authService struct {
	userRepo   repository.UserRepository
	tokens     TokenService
	bcryptCost int
}

// NewAuthService creates a new instance of authService.
func NewAuthService(userRepo repository.UserRepository, tokens TokenService, opts ...AuthOption) AuthService {
	s := &authService{
		userRepo:   userRepo,
		tokens:     tokens,
		bcryptCost: bcrypt.DefaultCost,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register creates the account with default roles and preferences and signs
// the user in.
func (s *authService) Register(ctx context.Context, in RegisterInput) (*domain.User, TokenPair, error) {
	email := domain.NormalizeEmail(in.Email)

	_, err := s.userRepo.GetByEmail(ctx, email)
	if err == nil {
		return nil, TokenPair{}, ErrUserAlreadyExists
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, TokenPair{}, apperror.Internal("failed to look up user", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.bcryptCost)
	if err != nil {
		return nil, TokenPair{}, apperror.Internal("failed to hash password", err)
	}

	user := &domain.User{
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		Email:        email,
		PasswordHash: string(hashedPassword),
		Roles:        []domain.Role{domain.RoleUser},
		Preferences:  domain.DefaultPreferences(),
	}

	if _, err := s.userRepo.Create(ctx, user); err != nil {
		// The unique index catches a registration racing the lookup above.
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, TokenPair{}, ErrUserAlreadyExists
		}
		return nil, TokenPair{}, apperror.Internal("failed to create user", err)
	}

	tokens, err := s.issue(user)
	if err != nil {
		return nil, TokenPair{}, err
	}

	log := logger.WithUserID(user.ID.Hex())
	log.Info().Msg("User registered")
	user.PasswordHash = ""
	return user, tokens, nil
}

// Login checks credentials. Unknown email and wrong password produce the
// same error.
func (s *authService) Login(ctx context.Context, email, password string) (*domain.User, TokenPair, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, TokenPair{}, ErrAuthenticationFailed
		}
		return nil, TokenPair{}, apperror.Internal("failed to look up user", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, TokenPair{}, ErrAuthenticationFailed
	}

	tokens, err := s.issue(user)
	if err != nil {
		return nil, TokenPair{}, err
	}

	user.PasswordHash = ""
	return user, tokens, nil
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*domain.User, TokenPair, error) {
	if refreshToken == "" {
		return nil, TokenPair{}, ErrRefreshTokenMissing
	}

	identity, err := s.tokens.VerifyRefresh(refreshToken)
	if err != nil {
		return nil, TokenPair{}, ErrSessionInvalid
	}

	user, err := s.userForSubject(ctx, identity.SubjectID)
	if err != nil {
		return nil, TokenPair{}, err
	}

	tokens, err := s.issue(user)
	if err != nil {
		return nil, TokenPair{}, err
	}
	return user, tokens, nil
}

func (s *authService) Authenticate(ctx context.Context, accessToken string) (*domain.User, error) {
	if accessToken == "" {
		return nil, ErrAuthRequired
	}

	identity, err := s.tokens.VerifyAccess(accessToken)
	if err != nil {
		return nil, ErrSessionInvalid
	}
	return s.userForSubject(ctx, identity.SubjectID)
}

func (s *authService) GetUser(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSessionUserGone
		}
		return nil, apperror.Internal("failed to load user", err)
	}
	user.PasswordHash = ""
	return user, nil
}

func (s *authService) UpdateProfile(ctx context.Context, userID primitive.ObjectID, in ProfileUpdate) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSessionUserGone
		}
		return nil, apperror.Internal("failed to load user", err)
	}

	if in.FirstName != nil {
		user.FirstName = strings.TrimSpace(*in.FirstName)
	}
	if in.LastName != nil {
		user.LastName = strings.TrimSpace(*in.LastName)
	}
	if in.Age != nil {
		user.Age = in.Age
	}
	if in.HeightCm != nil {
		user.HeightCm = in.HeightCm
	}
	if in.WeightKg != nil {
		user.WeightKg = in.WeightKg
	}
	if p := in.Preferences; p != nil {
		if p.WeeklyGoal != nil {
			user.Preferences.WeeklyGoal = *p.WeeklyGoal
		}
		if p.MeasurementSystem != nil {
			user.Preferences.MeasurementSystem = *p.MeasurementSystem
		}
		if p.RemindersEnabled != nil {
			user.Preferences.RemindersEnabled = *p.RemindersEnabled
		}
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSessionUserGone
		}
		return nil, apperror.Internal("failed to update user", err)
	}
	user.PasswordHash = ""
	return user, nil
}

// userForSubject resolves a token subject to a stored user.
func (s *authService) userForSubject(ctx context.Context, subject string) (*domain.User, error) {
	id, err := primitive.ObjectIDFromHex(subject)
	if err != nil {
		return nil, ErrSessionInvalid
	}
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSessionUserGone
		}
		return nil, apperror.Internal("failed to load user", err)
	}
	user.PasswordHash = ""
	return user, nil
}

func (s *authService) issue(user *domain.User) (TokenPair, error) {
	tokens, err := s.tokens.Issue(Identity{
		SubjectID: user.ID.Hex(),
		Email:     user.Email,
		Roles:     user.RoleStrings(),
	})
	if err != nil {
		return TokenPair{}, apperror.Internal("failed to generate authentication token", err)
	}
	return tokens, nil
}

package service

import (
	"context"
	"errors"
	"time"

	"vitaltrack/fitness-app/internal/apperror"
	"vitaltrack/fitness-app/internal/domain"
	"vitaltrack/fitness-app/internal/logger"
	"vitaltrack/fitness-app/internal/repository"
	"vitaltrack/fitness-app/internal/storage"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrStorageUnavailable = apperror.Unavailable("Avatar storage is not configured")
	ErrAvatarNotFound     = apperror.NotFound("Avatar not found")
	ErrAvatarContentType  = apperror.Validation("Unsupported avatar content type", nil)
)

// AvatarUpload tells the client where to PUT the image.
type AvatarUpload struct {
	UploadURL string    `json:"uploadUrl"`
	ObjectKey string    `json:"objectKey"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// AvatarService manages profile pictures in object storage. The object key
// is recorded on the user as soon as an upload URL is handed out.
type AvatarService interface {
	CreateUpload(ctx context.Context, userID primitive.ObjectID, contentType string) (*AvatarUpload, error)
	DownloadURL(ctx context.Context, userID primitive.ObjectID) (string, error)
	Delete(ctx context.Context, userID primitive.ObjectID) error
}

type avatarService struct {
	userRepo repository.UserRepository
	files    storage.FileStorage // nil when storage is not configured
	expiry   time.Duration
}

// NewAvatarService creates an avatar service. files may be nil, in which
// case every call fails with ErrStorageUnavailable.
func NewAvatarService(userRepo repository.UserRepository, files storage.FileStorage) AvatarService {
	return &avatarService{
		userRepo: userRepo,
		files:    files,
		expiry:   storage.DefaultPresignedURLExpiry,
	}
}

func (s *avatarService) CreateUpload(ctx context.Context, userID primitive.ObjectID, contentType string) (*AvatarUpload, error) {
	if s.files == nil {
		return nil, ErrStorageUnavailable
	}
	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	key, err := storage.AvatarKey(userID.Hex(), contentType)
	if err != nil {
		return nil, ErrAvatarContentType
	}
	url, err := s.files.GeneratePresignedUploadURL(ctx, key, contentType, s.expiry)
	if err != nil {
		return nil, apperror.Internal("failed to presign avatar upload", err)
	}

	previous := user.AvatarKey
	user.AvatarKey = key
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, apperror.Internal("failed to save avatar key", err)
	}
	if previous != "" {
		s.deleteObject(ctx, previous)
	}

	return &AvatarUpload{UploadURL: url, ObjectKey: key, ExpiresAt: time.Now().Add(s.expiry)}, nil
}

func (s *avatarService) DownloadURL(ctx context.Context, userID primitive.ObjectID) (string, error) {
	if s.files == nil {
		return "", ErrStorageUnavailable
	}
	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return "", err
	}
	if user.AvatarKey == "" {
		return "", ErrAvatarNotFound
	}
	url, err := s.files.GeneratePresignedDownloadURL(ctx, user.AvatarKey, s.expiry)
	if err != nil {
		return "", apperror.Internal("failed to presign avatar download", err)
	}
	return url, nil
}

func (s *avatarService) Delete(ctx context.Context, userID primitive.ObjectID) error {
	if s.files == nil {
		return ErrStorageUnavailable
	}
	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return err
	}
	if user.AvatarKey == "" {
		return ErrAvatarNotFound
	}

	key := user.AvatarKey
	user.AvatarKey = ""
	if err := s.userRepo.Update(ctx, user); err != nil {
		return apperror.Internal("failed to clear avatar key", err)
	}
	s.deleteObject(ctx, key)
	return nil
}

func (s *avatarService) loadUser(ctx context.Context, userID primitive.ObjectID) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSessionUserGone
		}
		return nil, apperror.Internal("failed to load user", err)
	}
	return user, nil
}

// deleteObject removes a stale object. Failures only leave garbage behind.
func (s *avatarService) deleteObject(ctx context.Context, key string) {
	if err := s.files.DeleteObject(ctx, key); err != nil {
		log := logger.WithComponent("avatar")
		log.Warn().Err(err).Str("key", key).Msg("Failed to delete avatar object")
	}
}

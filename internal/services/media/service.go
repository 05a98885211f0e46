package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/sumitgk2003/SSD-Skill-Swap-G20-sub000/internal/domain/model"
)

var (
	ErrValidation     = errors.New("validation error")
	ErrNoAvatar       = errors.New("no avatar set")
	ErrUnsupportedExt = errors.New("unsupported file extension")
)

const (
	signedURLTTL  = 5 * time.Minute
	maxAvatarSize = 5 << 20
)

var allowedExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}

type ProfileStore interface {
	Get(ctx context.Context, userID int64) (model.Profile, error)
	SaveAvatarKey(ctx context.Context, userID int64, key string) error
}

type ObjectStorage interface {
	EnsureBucket(ctx context.Context) error
	PutObject(ctx context.Context, key string, body io.Reader, size int64, contentType string) error
	PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error)
	Delete(ctx context.Context, key string) error
}

type Service struct {
	profiles ProfileStore
	storage  ObjectStorage
}

type Avatar struct {
	URL       string
	ExpiresIn time.Duration
}

func NewService(profiles ProfileStore, storage ObjectStorage) *Service {
	return &Service{
		profiles: profiles,
		storage:  storage,
	}
}

// UploadAvatar replaces the user's avatar. The previous object is removed
// best-effort once the new one is stored and referenced.
func (s *Service) UploadAvatar(ctx context.Context, userID int64, fileName, contentType string, body io.Reader, size int64) (Avatar, error) {
	if userID <= 0 || body == nil || size <= 0 || size > maxAvatarSize {
		return Avatar{}, ErrValidation
	}
	if s.profiles == nil || s.storage == nil {
		return Avatar{}, fmt.Errorf("media dependencies are not configured")
	}

	key, err := buildAvatarObjectKey(userID, fileName)
	if err != nil {
		return Avatar{}, err
	}

	if err := s.storage.EnsureBucket(ctx); err != nil {
		return Avatar{}, fmt.Errorf("ensure bucket: %w", err)
	}

	if strings.TrimSpace(contentType) == "" {
		contentType = "application/octet-stream"
	}
	if err := s.storage.PutObject(ctx, key, body, size, contentType); err != nil {
		return Avatar{}, fmt.Errorf("put object: %w", err)
	}

	previous := ""
	if profile, err := s.profiles.Get(ctx, userID); err == nil {
		previous = profile.AvatarKey
	}

	if err := s.profiles.SaveAvatarKey(ctx, userID, key); err != nil {
		_ = s.storage.Delete(ctx, key)
		return Avatar{}, fmt.Errorf("save avatar key: %w", err)
	}

	if previous != "" && previous != key {
		_ = s.storage.Delete(ctx, previous)
	}

	url, err := s.storage.PresignGet(ctx, key, signedURLTTL)
	if err != nil {
		return Avatar{}, fmt.Errorf("presign avatar url: %w", err)
	}

	return Avatar{URL: url, ExpiresIn: signedURLTTL}, nil
}

func (s *Service) AvatarURL(ctx context.Context, userID int64) (Avatar, error) {
	if userID <= 0 {
		return Avatar{}, ErrValidation
	}
	if s.profiles == nil || s.storage == nil {
		return Avatar{}, fmt.Errorf("media dependencies are not configured")
	}

	profile, err := s.profiles.Get(ctx, userID)
	if err != nil {
		return Avatar{}, err
	}
	if profile.AvatarKey == "" {
		return Avatar{}, ErrNoAvatar
	}

	url, err := s.storage.PresignGet(ctx, profile.AvatarKey, signedURLTTL)
	if err != nil {
		return Avatar{}, fmt.Errorf("presign avatar url: %w", err)
	}

	return Avatar{URL: url, ExpiresIn: signedURLTTL}, nil
}

func buildAvatarObjectKey(userID int64, fileName string) (string, error) {
	ext := strings.ToLower(path.Ext(strings.TrimSpace(fileName)))
	if !allowedExts[ext] {
		return "", ErrUnsupportedExt
	}

	stamp := time.Now().UTC().Format("20060102T150405")
	return fmt.Sprintf("users/%d/avatar/%s_%s%s", userID, stamp, uuid.NewString(), ext), nil
}

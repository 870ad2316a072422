package rooms

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"resort/internal/app/policies"
	domainroom "resort/internal/domain/room"
)

var (
	ErrUploaderUnavailable = errors.New("rooms: photo storage is not configured")
	ErrUnsupportedImage    = errors.New("rooms: only jpeg, png and webp images are accepted")
	ErrPhotoTooLarge       = errors.New("rooms: photo exceeds the size limit")
)

const DefaultMaxPhotoBytes = 10 << 20

var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

type Service struct {
	Rooms         domainroom.Repository
	Uploader      policies.PhotoUploader
	MaxPhotoBytes int64
	Logger        *slog.Logger
	Now           func() time.Time
}

// List returns rooms by display order. Guests only see active rooms.
func (s *Service) List(ctx context.Context, includeInactive bool) ([]*domainroom.Room, error) {
	return s.Rooms.List(ctx, !includeInactive)
}

// Get returns a room. Inactive rooms are hidden unless includeInactive is set.
func (s *Service) Get(ctx context.Context, id domainroom.ID, includeInactive bool) (*domainroom.Room, error) {
	r, err := s.Rooms.ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !r.IsActive && !includeInactive {
		return nil, domainroom.ErrNotFound
	}
	return r, nil
}

func (s *Service) Create(ctx context.Context, params domainroom.CreateParams) (*domainroom.Room, error) {
	params.CreatedAt = s.now()
	r, err := domainroom.New(params)
	if err != nil {
		return nil, err
	}
	if err := s.Rooms.Create(ctx, r); err != nil {
		return nil, err
	}
	s.logger().Info("room created", "room_id", r.ID, "name", r.Name)
	return r, nil
}

func (s *Service) Update(ctx context.Context, id domainroom.ID, patch domainroom.Patch) (*domainroom.Room, error) {
	r, err := s.Rooms.ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := r.Apply(patch, s.now()); err != nil {
		return nil, err
	}
	if err := s.Rooms.Save(ctx, r); err != nil {
		return nil, err
	}
	s.logger().Info("room updated", "room_id", r.ID)
	return r, nil
}

func (s *Service) Delete(ctx context.Context, id domainroom.ID) error {
	if err := s.Rooms.Delete(ctx, id); err != nil {
		return err
	}
	s.logger().Info("room deleted", "room_id", id)
	return nil
}

type PhotoParams struct {
	Filename    string
	ContentType string
	Size        int64
	Reader      io.Reader
}

// UploadPhoto stores an image in object storage and appends its URL to the
// room's photo list.
func (s *Service) UploadPhoto(ctx context.Context, id domainroom.ID, p PhotoParams) (*domainroom.Room, string, error) {
	if s.Uploader == nil {
		return nil, "", ErrUploaderUnavailable
	}
	contentType := strings.ToLower(strings.TrimSpace(strings.SplitN(p.ContentType, ";", 2)[0]))
	ext, ok := allowedImageTypes[contentType]
	if !ok {
		return nil, "", ErrUnsupportedImage
	}
	limit := s.MaxPhotoBytes
	if limit <= 0 {
		limit = DefaultMaxPhotoBytes
	}
	if p.Size > limit {
		return nil, "", ErrPhotoTooLarge
	}
	r, err := s.Rooms.ByID(ctx, id)
	if err != nil {
		return nil, "", err
	}
	key := photoObjectKey(r.ID, p.Filename, ext)
	url, err := s.Uploader.Upload(ctx, key, p.Reader, p.Size, contentType)
	if err != nil {
		return nil, "", fmt.Errorf("upload photo: %w", err)
	}
	r.AddPhoto(url, s.now())
	if err := s.Rooms.Save(ctx, r); err != nil {
		return nil, "", err
	}
	s.logger().Info("room photo uploaded", "room_id", r.ID, "key", key)
	return r, url, nil
}

func photoObjectKey(id domainroom.ID, filename, ext string) string {
	base := sanitizeToken(strings.TrimSuffix(path.Base(filename), path.Ext(filename)))
	if base == "" {
		base = "photo"
	}
	return fmt.Sprintf("rooms/%d/%s-%s%s", id, uuid.NewString()[:8], base, ext)
}

func sanitizeToken(v string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(v) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '-' || r == '_' || r == ' ':
			b.WriteRune('-')
		}
		if b.Len() >= 40 {
			break
		}
	}
	return strings.Trim(b.String(), "-")
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func (s *Service) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.Default()
	}
	return s.Logger
}

package rooms

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainroom "resort/internal/domain/room"
	"resort/internal/domain/shared/money"
	"resort/internal/infra/storage/memory"
)

type fakeUploader struct {
	key         string
	contentType string
	body        string
	err         error
}

func (f *fakeUploader) Upload(_ context.Context, key string, r io.Reader, _ int64, contentType string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	raw, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	f.key, f.contentType, f.body = key, contentType, string(raw)
	return "https://cdn.example.com/" + key, nil
}

func newRoom(t *testing.T, svc *Service) *domainroom.Room {
	t.Helper()
	r, err := svc.Create(context.Background(), domainroom.CreateParams{
		Name:      "Valley Suite",
		BasePrice: money.MustParse("7800", "INR"),
	})
	require.NoError(t, err)
	return r
}

func TestUploadPhotoAppendsURL(t *testing.T) {
	up := &fakeUploader{}
	svc := &Service{Rooms: memory.NewRoomRepository(), Uploader: up}
	r := newRoom(t, svc)

	updated, url, err := svc.UploadPhoto(context.Background(), r.ID, PhotoParams{
		Filename:    "../Sunset View.PNG",
		ContentType: "image/png; charset=binary",
		Size:        4,
		Reader:      strings.NewReader("data"),
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(up.key, "rooms/1/"), up.key)
	assert.True(t, strings.HasSuffix(up.key, "-sunset-view.png"), up.key)
	assert.Equal(t, "image/png", up.contentType)
	assert.Equal(t, "data", up.body)
	assert.Equal(t, []string{url}, updated.Photos)

	stored, err := svc.Get(context.Background(), r.ID, false)
	require.NoError(t, err)
	assert.Equal(t, []string{url}, stored.Photos)
}

func TestUploadPhotoRejections(t *testing.T) {
	ctx := context.Background()

	noStorage := &Service{Rooms: memory.NewRoomRepository()}
	_, _, err := noStorage.UploadPhoto(ctx, 1, PhotoParams{ContentType: "image/png"})
	assert.ErrorIs(t, err, ErrUploaderUnavailable)

	svc := &Service{Rooms: memory.NewRoomRepository(), Uploader: &fakeUploader{}, MaxPhotoBytes: 10}
	r := newRoom(t, svc)
	_, _, err = svc.UploadPhoto(ctx, r.ID, PhotoParams{ContentType: "application/pdf", Size: 1, Reader: strings.NewReader("x")})
	assert.ErrorIs(t, err, ErrUnsupportedImage)
	_, _, err = svc.UploadPhoto(ctx, r.ID, PhotoParams{ContentType: "image/jpeg", Size: 11, Reader: strings.NewReader("x")})
	assert.ErrorIs(t, err, ErrPhotoTooLarge)
	_, _, err = svc.UploadPhoto(ctx, 42, PhotoParams{ContentType: "image/jpeg", Size: 1, Reader: strings.NewReader("x")})
	assert.ErrorIs(t, err, domainroom.ErrNotFound)

	broken := &Service{Rooms: svc.Rooms, Uploader: &fakeUploader{err: errors.New("bucket gone")}}
	_, _, err = broken.UploadPhoto(ctx, r.ID, PhotoParams{ContentType: "image/webp", Size: 1, Reader: strings.NewReader("x")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bucket gone")
}

func TestInactiveRoomsHiddenUnlessRequested(t *testing.T) {
	svc := &Service{Rooms: memory.NewRoomRepository()}
	r := newRoom(t, svc)
	inactive := false
	_, err := svc.Update(context.Background(), r.ID, domainroom.Patch{IsActive: &inactive})
	require.NoError(t, err)

	_, err = svc.Get(context.Background(), r.ID, false)
	assert.ErrorIs(t, err, domainroom.ErrNotFound)
	got, err := svc.Get(context.Background(), r.ID, true)
	require.NoError(t, err)
	assert.False(t, got.IsActive)

	visible, err := svc.List(context.Background(), false)
	require.NoError(t, err)
	assert.Empty(t, visible)
}

func TestSanitizeToken(t *testing.T) {
	assert.Equal(t, "beach-hut-2", sanitizeToken("  Beach Hut #2 "))
	assert.Equal(t, "", sanitizeToken("***"))
	assert.Len(t, sanitizeToken(strings.Repeat("a", 100)), 40)
}

package s3

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEndpoint(t *testing.T) {
	assert.Equal(t, "minio:9000", parseEndpoint("http://minio:9000"))
	assert.Equal(t, "minio:9000", parseEndpoint("minio:9000"))
}

func TestObjectURL(t *testing.T) {
	c, err := NewClient("minio:9000", false, "key", "secret", "resort-photos", "https://cdn.resort.test/", nil)
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.resort.test/resort-photos/rooms/3/ab12-deluxe.jpg", c.objectURL("rooms/3/ab12-deluxe.jpg"))
	assert.Equal(t, "https://cdn.resort.test/resort-photos/rooms/a%20b.png", c.objectURL("/rooms/a b.png"))
}

func TestNewClientDefaultsPublicBase(t *testing.T) {
	c, err := NewClient("minio:9000", true, "key", "secret", "photos", "", nil)
	require.NoError(t, err)
	assert.Equal(t, "https://minio:9000/photos/x.jpg", c.objectURL("x.jpg"))
}

func TestNewClientValidation(t *testing.T) {
	_, err := NewClient("", false, "", "", "photos", "", nil)
	assert.Error(t, err)
	_, err = NewClient("minio:9000", false, "", "", " ", "", nil)
	assert.Error(t, err)
}

func TestUploadRejectsEmptyInput(t *testing.T) {
	c, err := NewClient("minio:9000", false, "key", "secret", "photos", "", nil)
	require.NoError(t, err)
	_, err = c.Upload(context.Background(), "k", nil, 0, "image/png")
	assert.Error(t, err)
	_, err = c.Upload(context.Background(), " / ", strings.NewReader("x"), 1, "image/png")
	assert.Error(t, err)
}

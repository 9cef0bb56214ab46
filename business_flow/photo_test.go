package businessflow

import (
	"bytes"
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeneratePhotoThumbnail(t *testing.T) {
	t.Run("LargeImageIsDownscaled", func(t *testing.T) {
		src := makeTestPNG(t, 1600, 900)

		thumb, err := generatePhotoThumbnail(src)
		require.NoError(t, err)

		img, format, err := image.Decode(bytes.NewReader(thumb))
		require.NoError(t, err)
		assert.Equal(t, "jpeg", format)
		assert.Equal(t, 512, img.Bounds().Dx())
		assert.LessOrEqual(t, img.Bounds().Dy(), 512)
	})

	t.Run("SmallImageKeepsItsSize", func(t *testing.T) {
		src := makeTestPNG(t, 200, 120)

		thumb, err := generatePhotoThumbnail(src)
		require.NoError(t, err)

		img, _, err := image.Decode(bytes.NewReader(thumb))
		require.NoError(t, err)
		assert.Equal(t, 200, img.Bounds().Dx())
		assert.Equal(t, 120, img.Bounds().Dy())
	})

	t.Run("PortraitOrientation", func(t *testing.T) {
		src := makeTestPNG(t, 600, 1200)

		thumb, err := generatePhotoThumbnail(src)
		require.NoError(t, err)

		img, _, err := image.Decode(bytes.NewReader(thumb))
		require.NoError(t, err)
		assert.Equal(t, 512, img.Bounds().Dy())
		assert.Equal(t, 256, img.Bounds().Dx())
	})

	t.Run("GarbageInput", func(t *testing.T) {
		_, err := generatePhotoThumbnail([]byte("not an image"))
		require.Error(t, err)
	})
}

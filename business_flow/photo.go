package businessflow

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	imagedraw "image/draw"
	"image/jpeg"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/heimanarii/fenua-estim/app/dto"
	"github.com/heimanarii/fenua-estim/utils"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp"

	_ "image/gif"
	_ "image/png"
)

var allowedPhotoFormats = []string{"jpg", "jpeg", "png", "webp"}

var allowedPhotoExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}

const thumbnailMaxDim = 512

// validatePhoto rejects a photo before any upload attempt: wrong file
// type or over the size limit.
func validatePhoto(photo *dto.UploadPhotoRequest) error {
	if photo.Size <= 0 || len(photo.Data) == 0 {
		return NewBusinessError("INVALID_FILE", "Photo file is empty", nil)
	}
	if photo.Size > utils.MaxPhotoSizeBytes || int64(len(photo.Data)) > utils.MaxPhotoSizeBytes {
		return NewBusinessError("FILE_TOO_LARGE", "Photo exceeds the 5MB limit", ErrPhotoTooLarge)
	}

	ext := strings.ToLower(filepath.Ext(photo.OriginalFilename))
	if !allowedPhotoExts[ext] {
		return NewBusinessError("INVALID_FILE_TYPE",
			fmt.Sprintf("Allowed photo types: %s", strings.Join(allowedPhotoFormats, ", ")), ErrPhotoTypeNotAllowed)
	}

	head := photo.Data
	if len(head) > 512 {
		head = head[:512]
	}
	detected := http.DetectContentType(head)
	if !strings.HasPrefix(detected, "image/") {
		return NewBusinessError("INVALID_FILE_TYPE", "File content is not an image", ErrPhotoTypeNotAllowed)
	}

	return nil
}

// generatePhotoThumbnail decodes the photo and re-encodes a scaled-down
// JPEG preview
func generatePhotoThumbnail(data []byte) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	thumb := resizePhoto(img, thumbnailMaxDim)
	buf := &bytes.Buffer{}
	if err := jpeg.Encode(buf, thumb, &jpeg.Options{Quality: 75}); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func resizePhoto(src image.Image, maxDim int) image.Image {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= maxDim && h <= maxDim {
		return src
	}

	var nw, nh int
	if w >= h {
		nw = maxDim
		nh = int(float64(h) * float64(maxDim) / float64(w))
	} else {
		nh = maxDim
		nw = int(float64(w) * float64(maxDim) / float64(h))
	}

	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	imagedraw.Draw(dst, dst.Bounds(), &image.Uniform{C: color.White}, image.Point{}, imagedraw.Src)
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, b, xdraw.Over, nil)
	return dst
}

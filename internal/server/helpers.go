package server

import (
	"fmt"
	"image"
	"mime/multipart"
	"net/http"
	"strconv"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"pixeldiff/internal/diff"
)

// maxUploadBytes caps the in-memory multipart form size (32 MiB).
const maxUploadBytes = 32 << 20

// defaultThreshold is used when the form omits the threshold field.
const defaultThreshold = 0.8

// upload carries the decoded inputs of a comparison request.
type upload struct {
	ImageA *diff.Image
	ImageB *diff.Image
	Config ComparisonConfig
}

// parseUpload reads the multipart comparison form: two image files
// (imageA, imageB), an optional threshold in [0, 1] and an optional
// ignoreLuminance flag.
func parseUpload(r *http.Request) (*upload, error) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return nil, fmt.Errorf("invalid multipart form: %w", err)
	}

	imgA, err := decodeFormImage(r, "imageA")
	if err != nil {
		return nil, err
	}
	imgB, err := decodeFormImage(r, "imageB")
	if err != nil {
		return nil, err
	}

	threshold := defaultThreshold
	if v := r.FormValue("threshold"); v != "" {
		threshold, err = strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid threshold: %w", err)
		}
	}
	if threshold < 0 || threshold > 1 {
		return nil, fmt.Errorf("threshold must be in [0, 1], got %g", threshold)
	}

	ignoreLuminance := false
	if v := r.FormValue("ignoreLuminance"); v != "" {
		ignoreLuminance, err = strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("invalid ignoreLuminance: %w", err)
		}
	}

	return &upload{
		ImageA: imgA,
		ImageB: imgB,
		Config: ComparisonConfig{
			Threshold:       threshold,
			IgnoreLuminance: ignoreLuminance,
		},
	}, nil
}

// decodeFormImage decodes one uploaded image file into the engine format.
func decodeFormImage(r *http.Request, field string) (*diff.Image, error) {
	file, _, err := r.FormFile(field)
	if err != nil {
		return nil, fmt.Errorf("missing image file %q: %w", field, err)
	}
	defer file.Close()

	img, err := decodeImage(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %q: %w", field, err)
	}
	return diff.FromImage(img), nil
}

func decodeImage(file multipart.File) (image.Image, error) {
	img, _, err := image.Decode(file)
	return img, err
}

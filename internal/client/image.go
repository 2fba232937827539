package client

import (
	"fmt"
	"os"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"tailorai/pkg/dataurl"
)

// fallbackMIME tags bytes whose type cannot be detected.
const fallbackMIME = "image/jpeg"

// ImageReader loads the bytes of a user-selected image.
type ImageReader interface {
	ReadImage(ref string) ([]byte, error)
}

// FileReader reads images from the local filesystem.
type FileReader struct{}

func (FileReader) ReadImage(ref string) ([]byte, error) {
	data, err := os.ReadFile(ref)
	if err != nil {
		return nil, fmt.Errorf("client: read image: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("client: image %s is empty", ref)
	}
	return data, nil
}

// EncodeImage renders data as a data URL tagged with its sniffed type.
func EncodeImage(data []byte) string {
	mime := mimetype.Detect(data).String()
	if !strings.HasPrefix(mime, "image/") {
		mime = fallbackMIME
	}
	return dataurl.Encode(mime, data)
}

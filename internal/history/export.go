package history

import (
	"fmt"
	"io"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"tailorai/pkg/dataurl"
	"tailorai/pkg/zip"
)

// Export writes every entry's images to w as a zip archive. Each entry gets a
// directory named after its timestamp and style.
func Export(w io.Writer, entries []Entry) error {
	files := make([]zip.File, 0, len(entries)*2)
	for _, e := range entries {
		dir := fmt.Sprintf("%d-%s-%s", e.Timestamp, sanitizeName(e.Style), shortID(e.ID))
		for _, img := range []struct{ name, url string }{
			{"original", e.OriginalImage},
			{"generated", e.GeneratedImage},
		} {
			data, ext, err := DecodeImage(img.url)
			if err != nil {
				return fmt.Errorf("history: export %s %s: %w", e.ID, img.name, err)
			}
			files = append(files, zip.File{Name: dir + "/" + img.name + ext, Modified: e.Time(), Data: data})
		}
	}
	return zip.Write(w, files)
}

// DecodeImage decodes a stored data URL and picks a file extension from the
// content.
func DecodeImage(url string) ([]byte, string, error) {
	data, _, err := dataurl.Decode(url)
	if err != nil {
		return nil, "", err
	}
	ext := mimetype.Detect(data).Extension()
	if ext == "" {
		ext = ".bin"
	}
	return data, ext, nil
}

func sanitizeName(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-':
			return r
		}
		return '_'
	}, s)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

package domain

import (
	"errors"
	"fmt"
	"strings"
)

// DefaultLocale is used when no catalog exists for the requested locale.
const DefaultLocale = "en"

var messageCatalog = map[string]map[string]string{
	"en": {
		CodeImageRequired:  "Image is required",
		CodeImageInvalid:   "Image could not be decoded. Send a base64 string or a data URL of a JPEG or PNG photo.",
		CodeStyleInvalid:   "Valid style is required. Supported styles: %s",
		CodeBodyInvalid:    "Invalid request body",
		CodeBodyTooLarge:   "Request body is too large",
		CodeAuth:           "Invalid or missing API key for the image provider. Check the relay credentials.",
		CodeModelNotFound:  "Model not found. Enable the configured model for your project or correct the model identifier.",
		CodeRateLimited:    "Rate limit exceeded. Please try again later.",
		CodeShapeMismatch:  "The image provider did not return an image. Please try again.",
		CodeImageReadFail:  "Failed to process image. Please try again.",
		CodeMissingChoice:  "Please select both an image and a style.",
		CodeGenerateFailed: "Failed to generate outfit",
	},
	"id": {
		CodeImageRequired:  "Gambar wajib diisi",
		CodeImageInvalid:   "Gambar tidak dapat dibaca. Kirim string base64 atau data URL foto JPEG atau PNG.",
		CodeStyleInvalid:   "Gaya yang valid wajib diisi. Gaya yang didukung: %s",
		CodeBodyInvalid:    "Isi permintaan tidak valid",
		CodeBodyTooLarge:   "Ukuran permintaan terlalu besar",
		CodeAuth:           "API key penyedia gambar tidak valid atau tidak ada. Periksa kredensial relay.",
		CodeModelNotFound:  "Model tidak ditemukan. Aktifkan model yang dikonfigurasi atau perbaiki ID model.",
		CodeRateLimited:    "Batas permintaan terlampaui. Silakan coba lagi nanti.",
		CodeShapeMismatch:  "Penyedia gambar tidak mengembalikan gambar. Silakan coba lagi.",
		CodeImageReadFail:  "Gagal memproses gambar. Silakan coba lagi.",
		CodeMissingChoice:  "Silakan pilih gambar dan gaya terlebih dahulu.",
		CodeGenerateFailed: "Gagal membuat pakaian",
	},
}

// Message returns the text for code in locale, falling back to English.
// Extra args fill format verbs in the catalog text.
func Message(locale, code string, args ...any) string {
	text, ok := lookupMessage(locale, code)
	if !ok {
		return ""
	}
	if len(args) > 0 {
		return fmt.Sprintf(text, args...)
	}
	return text
}

// Localize picks the user-facing message for err. Upstream failures keep the
// provider's own message; every other kind uses the catalog text.
func Localize(locale string, err error) string {
	if err == nil {
		return ""
	}
	var de *Error
	if !errors.As(err, &de) {
		return err.Error()
	}
	if de.Kind == KindUpstream || de.Code == "" {
		if de.Message != "" {
			return de.Message
		}
	}
	if text, ok := lookupMessage(locale, de.Code); ok {
		if len(de.Args) > 0 {
			return fmt.Sprintf(text, de.Args...)
		}
		if !strings.Contains(text, "%") {
			return text
		}
	}
	if de.Message != "" {
		return de.Message
	}
	return string(de.Kind)
}

func lookupMessage(locale, code string) (string, bool) {
	locale = strings.ToLower(strings.TrimSpace(locale))
	if msgs, ok := messageCatalog[locale]; ok {
		if text, ok := msgs[code]; ok {
			return text, true
		}
	}
	text, ok := messageCatalog[DefaultLocale][code]
	return text, ok
}

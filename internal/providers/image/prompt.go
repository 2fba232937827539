package image

import (
	"fmt"
	"strings"

	"tailorai/internal/domain"
)

// BuildOutfitPrompt converts a catalog style into the editing instruction sent
// to the provider. The output depends only on the style.
func BuildOutfitPrompt(style domain.Style) string {
	description := strings.TrimSpace(style.Description)
	if description == "" {
		description = string(style.ID) + " clothing"
	}
	label := strings.TrimSpace(style.Label)
	if label == "" {
		label = string(style.ID)
	}

	lines := []string{
		fmt.Sprintf("Edit this photo so the person is wearing a %s outfit: %s.", strings.ToLower(label), description),
		"Change only the clothing.",
		"Keep the person's face, identity, skin tone, hair, pose and body shape exactly as they are.",
		"Keep the background, lighting and camera framing unchanged.",
		"The result must look like a natural, photorealistic photograph of the same person.",
	}
	return strings.Join(lines, "\n")
}

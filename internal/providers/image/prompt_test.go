package image

import (
	"strings"
	"testing"

	"tailorai/internal/domain"
)

func TestBuildOutfitPromptCoversEveryStyle(t *testing.T) {
	catalog := domain.DefaultCatalog()
	seen := make(map[string]domain.StyleID)
	for _, style := range catalog.Styles() {
		prompt := BuildOutfitPrompt(style)
		if strings.TrimSpace(prompt) == "" {
			t.Fatalf("empty prompt for %s", style.ID)
		}
		if !strings.Contains(prompt, style.Description) {
			t.Fatalf("prompt for %s does not contain its description", style.ID)
		}
		for _, keep := range []string{"Change only the clothing", "pose", "background", "lighting", "camera framing"} {
			if !strings.Contains(prompt, keep) {
				t.Fatalf("prompt for %s missing %q", style.ID, keep)
			}
		}
		if prev, dup := seen[prompt]; dup {
			t.Fatalf("styles %s and %s share a prompt", prev, style.ID)
		}
		seen[prompt] = style.ID
		if again := BuildOutfitPrompt(style); again != prompt {
			t.Fatalf("prompt for %s is not deterministic", style.ID)
		}
	}
}

package designs

import (
	"strings"
	"testing"
)

func TestBuildPrompt(t *testing.T) {
	t.Parallel()

	gem := "Diamond"
	gemColor := "Clear"
	prompt := BuildPrompt(DesignOptions{
		Type:          "Ring",
		Color:         "Yellow Gold",
		Shape:         "Round",
		Material:      "Gold",
		Karat:         "18K",
		GemstoneType:  &gem,
		GemstoneColor: &gemColor,
	})

	for _, want := range []string{
		"photorealistic image of a ring jewelry piece",
		"- Type: Ring",
		"- Material: Gold (18K)",
		"- Color: Yellow Gold",
		"- Shape: Round",
		"- Gemstone: Diamond (Clear)",
		"Style requirements:",
		"high-end jewelry catalog",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestBuildPromptOmitsAbsentGemstone(t *testing.T) {
	t.Parallel()

	none := "None"
	for _, opts := range []DesignOptions{
		{Type: "Necklace", Color: "Silver", Shape: "Oval", Material: "Silver", Karat: "925"},
		{Type: "Necklace", Color: "Silver", Shape: "Oval", Material: "Silver", Karat: "925", GemstoneType: &none},
	} {
		prompt := BuildPrompt(opts)
		if strings.Contains(prompt, "Gemstone:") {
			t.Errorf("prompt must not mention gemstones: %+v", opts)
		}
	}
}

func TestBuildPromptGemstoneWithoutColor(t *testing.T) {
	t.Parallel()

	gem := "Ruby"
	prompt := BuildPrompt(DesignOptions{
		Type: "Earrings", Color: "Rose Gold", Shape: "Drop", Material: "Gold", Karat: "14K",
		GemstoneType: &gem,
	})
	if !strings.Contains(prompt, "- Gemstone: Ruby\n") {
		t.Errorf("expected bare gemstone line, got:\n%s", prompt)
	}
	if strings.Contains(prompt, "Ruby (") {
		t.Error("must not print empty color parens")
	}
}

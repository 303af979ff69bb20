package designs

import (
	"fmt"
	"strings"
)

// DesignOptions are the jewelry attributes the customer picked in the
// design studio. They are stored verbatim on the generated design row.
type DesignOptions struct {
	Type          string  `json:"type" validate:"required,max=50"`
	Color         string  `json:"color" validate:"required,max=50"`
	Shape         string  `json:"shape" validate:"required,max=50"`
	Material      string  `json:"material" validate:"required,max=50"`
	Karat         string  `json:"karat" validate:"required,max=20"`
	GemstoneType  *string `json:"gemstone_type,omitempty" validate:"omitempty,max=50"`
	GemstoneColor *string `json:"gemstone_color,omitempty" validate:"omitempty,max=50"`
}

// BuildPrompt renders the options into the image generation prompt.
func BuildPrompt(opts DesignOptions) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Create a stunning, photorealistic image of a %s jewelry piece.\n\n", strings.ToLower(opts.Type))
	b.WriteString("Design specifications:\n")
	fmt.Fprintf(&b, "- Type: %s\n", opts.Type)
	fmt.Fprintf(&b, "- Material: %s (%s)\n", opts.Material, opts.Karat)
	fmt.Fprintf(&b, "- Color: %s\n", opts.Color)
	fmt.Fprintf(&b, "- Shape: %s\n", opts.Shape)

	if opts.GemstoneType != nil && strings.ToLower(*opts.GemstoneType) != "none" && *opts.GemstoneType != "" {
		fmt.Fprintf(&b, "- Gemstone: %s", *opts.GemstoneType)
		if opts.GemstoneColor != nil && *opts.GemstoneColor != "" {
			fmt.Fprintf(&b, " (%s)", *opts.GemstoneColor)
		}
		b.WriteString("\n")
	}

	b.WriteString(`
Style requirements:
- Professional jewelry photography
- Clean, elegant presentation
- High-end luxury appearance
- Soft lighting with subtle reflections
- White or light gray background
- Focus on the jewelry piece
- Show intricate details and craftsmanship
- Realistic metallic finish appropriate for the material
- If gemstones are specified, show proper brilliance and clarity

The image should look like it belongs in a high-end jewelry catalog or advertisement.`)

	return b.String()
}

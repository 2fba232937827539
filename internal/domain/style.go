package domain

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// StyleID identifies a clothing style a user can pick.
type StyleID string

const (
	StyleCasual     StyleID = "casual"
	StyleModern     StyleID = "modern"
	StyleEdgy       StyleID = "edgy"
	StyleFormal     StyleID = "formal"
	StyleSporty     StyleID = "sporty"
	StyleVintage    StyleID = "vintage"
	StyleBohemian   StyleID = "bohemian"
	StyleCyberpunk  StyleID = "cyberpunk"
	StyleSteampunk  StyleID = "steampunk"
	StyleGothic     StyleID = "gothic"
	StyleKawaii     StyleID = "kawaii"
	StyleMinimalist StyleID = "minimalist"
	StyleStreetwear StyleID = "streetwear"
)

// Style pairs an identifier with the wording used to steer the provider.
type Style struct {
	ID          StyleID `json:"id" yaml:"id"`
	Label       string  `json:"label" yaml:"label"`
	Description string  `json:"description" yaml:"description"`
}

// Catalog is the table of recognized styles. It is immutable once built.
type Catalog struct {
	order  []StyleID
	styles map[StyleID]Style
}

var defaultStyles = []Style{
	{ID: StyleCasual, Description: "relaxed everyday casual wear such as a well-fitted t-shirt or knit top, comfortable jeans or chinos and clean sneakers"},
	{ID: StyleModern, Description: "contemporary smart-casual fashion with tailored lines, neutral tones, a structured blazer or overshirt and sleek shoes"},
	{ID: StyleEdgy, Description: "bold edgy streetwear with a black leather jacket, ripped dark denim, chains and combat boots"},
	{ID: StyleFormal, Description: "elegant formal attire such as a tailored suit with a crisp shirt or an evening dress, polished dress shoes"},
	{ID: StyleSporty, Description: "athletic sportswear with a performance track jacket or jersey, joggers or leggings and running shoes"},
	{ID: StyleVintage, Description: "retro vintage fashion inspired by the 1950s to 1970s, high-waisted cuts, classic patterns and warm muted colours"},
	{ID: StyleBohemian, Description: "free-spirited bohemian clothing with flowing fabrics, earthy tones, fringe, embroidery and layered accessories"},
	{ID: StyleCyberpunk, Description: "futuristic cyberpunk outfit with techwear layers, neon accents, reflective materials and utility straps"},
	{ID: StyleSteampunk, Description: "Victorian steampunk costume with a corset or waistcoat, brass buttons, leather harnesses and goggles"},
	{ID: StyleGothic, Description: "dark gothic fashion with black lace, velvet, long coats, silver jewellery and platform boots"},
	{ID: StyleKawaii, Description: "cute Japanese kawaii fashion with pastel colours, playful prints, ruffles and cheerful accessories"},
	{ID: StyleMinimalist, Description: "clean minimalist outfit with simple silhouettes, a monochrome palette and no visible logos"},
	{ID: StyleStreetwear, Description: "urban streetwear with an oversized hoodie or graphic tee, cargo pants, a cap and chunky sneakers"},
}

// DefaultCatalog returns the built-in style table.
func DefaultCatalog() *Catalog {
	c, err := NewCatalog(defaultStyles)
	if err != nil {
		panic(err)
	}
	return c
}

// NewCatalog validates styles and builds a catalog preserving their order.
// Every style must carry a description so that any accepted identifier can be
// turned into a prompt.
func NewCatalog(styles []Style) (*Catalog, error) {
	if len(styles) == 0 {
		return nil, errors.New("catalog: at least one style is required")
	}
	titler := cases.Title(language.English)
	c := &Catalog{styles: make(map[StyleID]Style, len(styles))}
	for _, s := range styles {
		id := normalizeStyleID(string(s.ID))
		if id == "" {
			return nil, errors.New("catalog: style id is required")
		}
		if _, dup := c.styles[id]; dup {
			return nil, fmt.Errorf("catalog: duplicate style %q", id)
		}
		s.ID = id
		s.Description = strings.TrimSpace(s.Description)
		if s.Description == "" {
			return nil, fmt.Errorf("catalog: style %q has no description", id)
		}
		s.Label = strings.TrimSpace(s.Label)
		if s.Label == "" {
			s.Label = titler.String(string(id))
		}
		c.order = append(c.order, id)
		c.styles[id] = s
	}
	return c, nil
}

// Lookup resolves a raw identifier, ignoring case and surrounding space.
func (c *Catalog) Lookup(raw string) (Style, bool) {
	if c == nil {
		return Style{}, false
	}
	s, ok := c.styles[normalizeStyleID(raw)]
	return s, ok
}

// IDs lists the recognized identifiers in catalog order.
func (c *Catalog) IDs() []StyleID {
	out := make([]StyleID, len(c.order))
	copy(out, c.order)
	return out
}

// Styles lists every entry in catalog order.
func (c *Catalog) Styles() []Style {
	out := make([]Style, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.styles[id])
	}
	return out
}

// Joined renders the identifiers as a comma separated list.
func (c *Catalog) Joined() string {
	parts := make([]string, len(c.order))
	for i, id := range c.order {
		parts[i] = string(id)
	}
	return strings.Join(parts, ", ")
}

func normalizeStyleID(raw string) StyleID {
	return StyleID(strings.ToLower(strings.TrimSpace(raw)))
}

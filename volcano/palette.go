package volcano

import (
	"fmt"
	"strings"

	"github.com/icza/gox/imagex/colorx"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/carbocation/cellscribe/signature"
)

// Palette holds the dot colour of each threshold class.
type Palette struct {
	Up, Down, NS drawing.Color
}

// DefaultPalette is gold for Up, purple for Down and grey for NS.
func DefaultPalette() Palette {
	return Palette{
		Up:   drawing.Color{R: 0xda, G: 0xae, B: 0x21, A: 0xff},
		Down: drawing.Color{R: 0x8e, G: 0x68, B: 0xa0, A: 0xff},
		NS:   drawing.Color{R: 0xa7, G: 0xa7, B: 0xa7, A: 0xff},
	}
}

// ParsePalette reads a comma separated list of class=#rrggbb pairs, such as
// "up=#ff0000,ns=#cccccc". Classes that are not named keep their default
// colour; an empty string yields the default palette.
func ParsePalette(palette string) (Palette, error) {
	p := DefaultPalette()

	if strings.TrimSpace(palette) == "" {
		return p, nil
	}

	for _, entry := range strings.Split(palette, ",") {
		parts := strings.SplitN(strings.TrimSpace(entry), "=", 2)
		if len(parts) != 2 {
			return p, fmt.Errorf("palette entry %q should look like up=#rrggbb", entry)
		}

		rgba, err := colorx.ParseHexColor(strings.TrimSpace(parts[1]))
		if err != nil {
			return p, fmt.Errorf("palette entry %q: %w", entry, err)
		}
		c := drawing.Color{R: rgba.R, G: rgba.G, B: rgba.B, A: rgba.A}

		switch strings.ToLower(strings.TrimSpace(parts[0])) {
		case "up":
			p.Up = c
		case "down":
			p.Down = c
		case "ns":
			p.NS = c
		default:
			return p, fmt.Errorf("palette entry %q: unknown class %q (want up, down or ns)", entry, parts[0])
		}
	}

	return p, nil
}

func (p Palette) colorOf(t signature.Threshold) drawing.Color {
	switch t {
	case signature.Up:
		return p.Up
	case signature.Down:
		return p.Down
	}

	return p.NS
}

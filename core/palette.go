package core

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/signalsfoundry/netglobe/model"
)

// Palette maps the closed set of color tokens to concrete colors.
type Palette map[model.ColorToken]model.Color

// DefaultPalette returns the visualization's stock palette.
func DefaultPalette() Palette {
	p := Palette{}
	for token, hex := range map[model.ColorToken]string{
		model.ColorPrimary:           "#00D4AA",
		model.ColorNetworkNode:       "#00D4AA",
		model.ColorNetworkZone:       "#4F46E5",
		model.ColorNetworkConnection: "#F59E0B",
	} {
		c, err := colorFromHex(token, hex)
		if err != nil {
			panic(err)
		}
		p[token] = c
	}
	return p
}

// Resolve maps a token name or a hex value already present in the palette
// to its Color. Matching is case-insensitive. A hex shared by several
// tokens resolves to the first token in declaration order.
func (p Palette) Resolve(name string) (model.Color, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if c, ok := p[model.ColorToken(key)]; ok {
		return c, nil
	}
	if strings.HasPrefix(key, "#") {
		for _, token := range tokenOrder {
			if c, ok := p[token]; ok && strings.EqualFold(c.Hex, key) {
				return c, nil
			}
		}
	}
	return model.Color{}, fmt.Errorf("%w: %q", ErrUnknownColor, name)
}

var tokenOrder = []model.ColorToken{
	model.ColorPrimary,
	model.ColorNetworkNode,
	model.ColorNetworkZone,
	model.ColorNetworkConnection,
}

func colorFromHex(token model.ColorToken, hex string) (model.Color, error) {
	raw := strings.TrimPrefix(hex, "#")
	if len(raw) != 6 {
		return model.Color{}, fmt.Errorf("color %s: malformed hex %q", token, hex)
	}
	v, err := strconv.ParseUint(raw, 16, 32)
	if err != nil {
		return model.Color{}, fmt.Errorf("color %s: %w", token, err)
	}
	return model.Color{
		Token: token,
		Hex:   "#" + strings.ToUpper(raw),
		R:     uint8(v >> 16),
		G:     uint8(v >> 8),
		B:     uint8(v),
	}, nil
}

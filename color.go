package arbor

import (
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
)

// Tint values used when a node's color is derived rather than given.
const (
	ColorOpaqueWhite uint32 = 0xffffffff
	ColorTransparent uint32 = 0x00000000
)

// ColorNormalizer converts a caller-supplied color value into the packed
// 0xRRGGBBAA form stored on nodes.
type ColorNormalizer interface {
	Normalize(v any) (uint32, error)
}

// ColorNormalizerFunc adapts a function to ColorNormalizer.
type ColorNormalizerFunc func(v any) (uint32, error)

// Normalize calls f(v).
func (f ColorNormalizerFunc) Normalize(v any) (uint32, error) {
	return f(v)
}

// DefaultColors is the normalizer used when an element is not given one.
var DefaultColors ColorNormalizer = ColorNormalizerFunc(NormalizeColor)

// NormalizeColor accepts:
//
//   - integers, read as 0xRRGGBBAA
//   - "0xRRGGBBAA" and "0xRRGGBB" (opaque)
//   - "#RGB", "#RRGGBB" (opaque) and "#RRGGBBAA"
//   - CSS color names, plus "transparent"
//   - [Color] and any [color.Color]
func NormalizeColor(v any) (uint32, error) {
	switch x := v.(type) {
	case uint32:
		return x, nil
	case float64, float32, int, int8, int16, int32, int64, uint, uint8, uint16, uint64:
		f, _ := toFloat(x)
		if f < 0 || f > math.MaxUint32 || f != math.Trunc(f) {
			return 0, fmt.Errorf("%w: %v out of range", ErrInvalidColor, v)
		}
		return uint32(f), nil
	case string:
		return parseColorString(x)
	case Color:
		return x.Packed(), nil
	case color.Color:
		r, g, b, a := x.RGBA()
		if a == 0 {
			return ColorTransparent, nil
		}
		// Un-premultiply back to straight alpha.
		r = r * 0xffff / a
		g = g * 0xffff / a
		b = b * 0xffff / a
		return uint32(r>>8)<<24 | uint32(g>>8)<<16 | uint32(b>>8)<<8 | uint32(a>>8), nil
	default:
		return 0, fmt.Errorf("%w: unsupported type %T", ErrInvalidColor, v)
	}
}

func parseColorString(s string) (uint32, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	switch {
	case strings.HasPrefix(s, "0x"):
		return parseHex(s, s[2:])
	case strings.HasPrefix(s, "#"):
		hex := s[1:]
		if len(hex) == 3 {
			hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
		}
		return parseHex(s, hex)
	case s == "transparent":
		return ColorTransparent, nil
	}
	if c, ok := colornames.Map[s]; ok {
		return uint32(c.R)<<24 | uint32(c.G)<<16 | uint32(c.B)<<8 | uint32(c.A), nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidColor, s)
}

func parseHex(orig, hex string) (uint32, error) {
	n, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidColor, orig)
	}
	switch len(hex) {
	case 6:
		return uint32(n)<<8 | 0xff, nil
	case 8:
		return uint32(n), nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidColor, orig)
}

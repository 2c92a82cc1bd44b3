package codec

import "fmt"

// Color is any value that can express itself as a hex color string. The
// form may hold a plain hex string or a structured picker value; both go
// through the same capability instead of shape checks at every call site.
type Color interface {
	ToHex() string
}

// Hex is a plain hex color string such as "#1677ff".
type Hex string

func (h Hex) ToHex() string { return string(h) }

// RGB is a structured color value as produced by a color picker.
type RGB struct {
	R, G, B uint8
}

func (c RGB) ToHex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

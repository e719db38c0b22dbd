package utils

import (
	"fmt"
	"image/color"
	"regexp"

	"github.com/go-gl/mathgl/mgl32"
)

var colourPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{8}$`)

func ColourValidate(c string) bool {
	return colourPattern.MatchString(c)
}

func ColourParse(s string) (c color.RGBA) {
	fmt.Sscanf(s, "#%02x%02x%02x%02x", &c.R, &c.G, &c.B, &c.A)
	return
}

// ColourVec converts c to normalised floats, as GL expects them.
func ColourVec(c color.RGBA) mgl32.Vec4 {
	return mgl32.Vec4{
		float32(c.R) / 255,
		float32(c.G) / 255,
		float32(c.B) / 255,
		float32(c.A) / 255,
	}
}

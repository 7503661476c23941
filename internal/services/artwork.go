package services

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	_ "image/png"

	color_extractor "github.com/marekm4/color-extractor"
)

// maxColors caps how many dominant colours are kept per cover.
const maxColors = 3

// dominantColors decodes cover art and returns its dominant colours, or nil when the bytes are not an image.
func dominantColors(data []byte) []string {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil
	}

	colors := color_extractor.ExtractColors(img)
	if len(colors) > maxColors {
		colors = colors[:maxColors]
	}

	hex := make([]string, 0, len(colors))
	for _, c := range colors {
		hex = append(hex, colorToHex(c))
	}
	return hex
}

func colorToHex(c color.Color) string {
	r, g, b, _ := c.RGBA()
	return fmt.Sprintf("#%02x%02x%02x", uint8(r>>8), uint8(g>>8), uint8(b>>8))
}

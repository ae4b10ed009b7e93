package render

import (
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
)

// decodeConfig reads just enough of r to report image dimensions, without
// decoding pixel data; the still-image pipeline only ever produces PNG or
// JPEG stills.
func decodeConfig(r io.Reader) (image.Config, string, error) {
	return image.DecodeConfig(r)
}

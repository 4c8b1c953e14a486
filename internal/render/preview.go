package render

import (
	"fmt"
	"image"
	"image/draw"
	_ "image/png"
	"os"

	"github.com/chai2010/webp"
	xdraw "golang.org/x/image/draw"
)

// SaveWebPPreview writes a downscaled WebP copy of an already rendered PNG
// map. The preview keeps the aspect ratio; width 0 selects 640 px.
func SaveWebPPreview(pngPath, outPath string, width int) error {
	f, err := os.Open(pngPath)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	src, _, err := image.Decode(f)
	if err != nil {
		return fmt.Errorf("decode %s: %w", pngPath, err)
	}

	if width <= 0 {
		width = 640
	}
	bounds := src.Bounds()
	height := bounds.Dy() * width / bounds.Dx()
	if height <= 0 {
		height = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, draw.Over, nil)

	out, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer func() { _ = out.Close() }()

	return webp.Encode(out, dst, &webp.Options{Lossless: false, Quality: 85})
}

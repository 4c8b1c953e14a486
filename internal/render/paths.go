package render

import (
	"fmt"
	"path/filepath"
)

// Export paths are pure functions of the export directory and city name,
// so repeated runs overwrite the same artifacts.

// PNGPath returns the location of the PNG map export.
func PNGPath(dir, city string) string {
	return filepath.Join(dir, fmt.Sprintf("urban_green_space_map_%s.png", city))
}

// PDFPath returns the location of the PDF map export.
func PDFPath(dir, city string) string {
	return filepath.Join(dir, fmt.Sprintf("urban_green_space_analysis_%s.pdf", city))
}

// PreviewPath returns the location of the WebP preview export.
func PreviewPath(dir, city string) string {
	return filepath.Join(dir, fmt.Sprintf("urban_green_space_map_%s_preview.webp", city))
}

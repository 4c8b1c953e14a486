// Package processor orchestrates the urban green space analysis pipeline.
package processor

import (
	"os"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/rs/zerolog/log"

	"github.com/urbanatlas/greenspace/internal/config"
	"github.com/urbanatlas/greenspace/internal/export"
	"github.com/urbanatlas/greenspace/internal/gdb"
	"github.com/urbanatlas/greenspace/internal/geo"
	"github.com/urbanatlas/greenspace/internal/render"
	"github.com/urbanatlas/greenspace/internal/shapefile"
)

// GreenSpacesClass is the combined feature class derived from the green
// layer subsets.
const GreenSpacesClass = "GreenSpaces"

// AreaField is the calculated per-feature area attribute, in hectares.
const AreaField = "Area_Hectares"

// Run executes the full analysis for one city: extract the configured
// subsets into the geodatabase, derive the combined green spaces class
// with areas, extract residential areas and export the map artifacts.
func Run(cfg *config.Config, withPreview, withGeoJSON bool) error {
	g, created, err := gdb.Ensure(cfg.Workspace, cfg.Geodatabase)
	if err != nil {
		return err
	}
	if cfg.Projected {
		g.SRID = 0
	}

	if created {
		log.Info().Str("gdb", g.Root).Msg("Created new geodatabase")
	} else {
		log.Info().Str("gdb", g.Root).Msg("Using existing geodatabase")
	}

	// Extract the green subsets.
	var present []string
	for _, rule := range cfg.GreenLayers {
		if err := extract(g, cfg, rule); err != nil {
			return err
		}
		if g.Exists(rule.Out) {
			present = append(present, rule.Out)
		}
	}

	// Merge or copy into the combined class.
	switch len(present) {
	case 0:
		log.Warn().Msg("No green spaces found. The analysis may be incomplete.")
	case 1:
		err = Retry(func() error { return g.Copy(GreenSpacesClass, present[0]) },
			cfg.Retry.Attempts, cfg.Retry.Wait())
	default:
		err = Retry(func() error { return g.Merge(GreenSpacesClass, present...) },
			cfg.Retry.Attempts, cfg.Retry.Wait())
	}
	if err != nil {
		return err
	}

	if g.Exists(GreenSpacesClass) {
		err = Retry(func() error { return g.CalculateArea(GreenSpacesClass, AreaField, cfg.Projected) },
			cfg.Retry.Attempts, cfg.Retry.Wait())
		if err != nil {
			return err
		}
		log.Info().Str("fc", GreenSpacesClass).Str("field", AreaField).Msg("Calculated areas")
	}

	// Extract residential areas.
	if err := extract(g, cfg, cfg.Residential); err != nil {
		return err
	}

	green := readIfExists(g, GreenSpacesClass)
	residential := readIfExists(g, cfg.Residential.Out)

	if len(cfg.Extent) == 4 {
		extent := orb.Bound{
			Min: orb.Point{cfg.Extent[0], cfg.Extent[1]},
			Max: orb.Point{cfg.Extent[2], cfg.Extent[3]},
		}
		green = clip(green, extent)
		residential = clip(residential, extent)
	}

	if err := os.MkdirAll(cfg.ExportDir, 0755); err != nil {
		return err
	}

	fig, err := render.Map(green, residential, cfg.City)
	if err != nil {
		return err
	}

	pngPath := render.PNGPath(cfg.ExportDir, cfg.City)
	pdfPath := render.PDFPath(cfg.ExportDir, cfg.City)

	if err := render.Save(fig, pngPath); err != nil {
		return err
	}
	if err := render.Save(fig, pdfPath); err != nil {
		return err
	}

	if withPreview {
		previewPath := render.PreviewPath(cfg.ExportDir, cfg.City)
		if err := render.SaveWebPPreview(pngPath, previewPath, 0); err != nil {
			return err
		}
		log.Info().Str("path", previewPath).Msg("Preview saved")
	}

	if withGeoJSON && green != nil {
		geojsonPath := export.GeoJSONPath(cfg.ExportDir, cfg.City)
		if err := export.GeoJSON(geojsonPath, green); err != nil {
			return err
		}
		log.Info().Str("path", geojsonPath).Msg("GeoJSON summary saved")
	}

	log.Info().Str("gdb", g.Root).Msg("Analysis complete, results stored in the geodatabase")
	log.Info().Str("png", pngPath).Str("pdf", pdfPath).Msg("Map exported")

	return nil
}

// extract selects features from the rule's source shapefile into a new
// feature class, retrying while the workspace is locked.
func extract(g *gdb.Geodatabase, cfg *config.Config, rule config.LayerRule) error {
	path, err := shapefile.Find(cfg.Workspace, rule.Source)
	if err != nil {
		return err
	}

	src, err := shapefile.Read(path)
	if err != nil {
		return err
	}

	where := gdb.Where{Field: rule.Field, In: rule.Include}

	var count int
	err = Retry(func() error {
		n, err := g.Select(rule.Out, src, where)
		count = n
		return err
	}, cfg.Retry.Attempts, cfg.Retry.Wait())
	if err != nil {
		return err
	}

	log.Info().
		Str("source", path).
		Str("fc", rule.Out).
		Int("features", count).
		Msg("Extracted features")

	return nil
}

func readIfExists(g *gdb.Geodatabase, name string) *geojson.FeatureCollection {
	if !g.Exists(name) {
		return nil
	}
	fc, err := g.Read(name)
	if err != nil {
		log.Error().Err(err).Str("fc", name).Msg("Failed to read feature class")
		return nil
	}
	return fc
}

func clip(fc *geojson.FeatureCollection, extent orb.Bound) *geojson.FeatureCollection {
	if fc == nil {
		return nil
	}
	return geo.NewIndex(fc).Clip(extent)
}

package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/godeepar/bimgeo"
	"github.com/godeepar/bimgeo/config"
	"github.com/godeepar/bimgeo/crs"
	"github.com/godeepar/bimgeo/export"
	"github.com/godeepar/bimgeo/metrics"
)

var convertFlags struct {
	crs          string
	types        []string
	properties   []string
	workers      int
	simplify     float64
	centroidMode string
	output       string
	indent       bool
	shapefile    string
	metrics      string
	summary      bool
}

var convertCmd = &cobra.Command{
	Use:   "convert [model files...]",
	Short: "Convert models into a GeoJSON FeatureCollection",
	Example: `  bimgeo convert site.json --crs "EPSG:25830 → EPSG:4326" -o site.geojson
  bimgeo convert a.obj b.obj --types IfcSlab,IfcWall --properties IFC_ID,Source_File --shapefile out.shp`,
	Args: cobra.ArbitraryArgs,
	RunE: runConvert,
}

func init() {
	f := convertCmd.Flags()
	f.StringVar(&convertFlags.crs, "crs", crs.DefaultPair, `source and target crs, "SRC → DST"`)
	f.StringSliceVarP(&convertFlags.types, "types", "t", nil, "entity types to convert (default IfcProduct)")
	f.StringSliceVarP(&convertFlags.properties, "properties", "p", nil, "properties copied onto each feature (default IFC_ID,IFC_Type,Source_File)")
	f.IntVarP(&convertFlags.workers, "workers", "w", 1, "elements flattened in parallel")
	f.Float64Var(&convertFlags.simplify, "simplify", 0, "Douglas-Peucker tolerance in target crs units")
	f.StringVar(&convertFlags.centroidMode, "centroid", string(bimgeo.CentroidPrimaryRing), "primary-ring or area-weighted")
	f.StringVarP(&convertFlags.output, "output", "o", "", "GeoJSON output path (default stdout)")
	f.BoolVar(&convertFlags.indent, "indent", true, "indent the GeoJSON output")
	f.StringVar(&convertFlags.shapefile, "shapefile", "", "also write a polygon shapefile")
	f.StringVar(&convertFlags.metrics, "metrics", "", "write run metrics to a node exporter textfile")
	f.BoolVar(&convertFlags.summary, "summary", true, "print a run summary to stderr")
}

// applyConvertFlags lets explicitly set flags override the configuration.
func applyConvertFlags(cmd *cobra.Command, cfg *config.Config) error {
	f := cmd.Flags()
	if f.Changed("crs") {
		cfg.CRS = convertFlags.crs
	}
	if f.Changed("types") {
		cfg.EntityTypes = convertFlags.types
	}
	if f.Changed("properties") {
		cfg.Properties = convertFlags.properties
	}
	if f.Changed("workers") {
		cfg.Workers = convertFlags.workers
	}
	if f.Changed("simplify") {
		cfg.Simplify = convertFlags.simplify
	}
	if f.Changed("centroid") {
		cfg.CentroidMode = convertFlags.centroidMode
	}
	if f.Changed("output") {
		cfg.Output.GeoJSON = convertFlags.output
	}
	if f.Changed("indent") {
		cfg.Output.Indent = convertFlags.indent
	}
	if f.Changed("shapefile") {
		cfg.Output.Shapefile = convertFlags.shapefile
	}
	if f.Changed("metrics") {
		cfg.Output.Metrics = convertFlags.metrics
	}
	return cfg.Validate()
}

func runConvert(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := applyConvertFlags(cmd, cfg); err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	// a bad crs pair stops the run before any model is read
	reprojector, err := crs.NewFromPair(cfg.CRS)
	if err != nil {
		logger.Error("crs configuration rejected", zap.String("crs", cfg.CRS), zap.Error(err))
		return err
	}

	models, err := openModels(args, cfg, logger)
	if err != nil {
		return err
	}
	metrics.ModelsLoadedTotal.Add(float64(len(models)))

	mode, _ := bimgeo.ParseCentroidMode(cfg.CentroidMode)
	converter := bimgeo.NewConverter(reprojector, bimgeo.Options{
		Workers:           cfg.Workers,
		SimplifyTolerance: cfg.Simplify,
		CentroidMode:      mode,
		Logger:            logger,
	})

	logger.Info("converting",
		zap.Int("models", len(models)),
		zap.String("crs", reprojector.String()),
		zap.Strings("types", cfg.EntityTypes),
	)

	result, err := converter.Convert(cmd.Context(), models, cfg.EntityTypes, cfg.Properties)
	if err != nil {
		return err
	}

	for _, w := range result.Warnings {
		if errors.Is(w, bimgeo.ErrEmptyResult) {
			fmt.Fprintln(cmd.ErrOrStderr(), "warning: no features were produced, check the entity types and the crs")
		}
	}

	if cfg.Output.GeoJSON == "" {
		err = export.WriteGeoJSON(cmd.OutOrStdout(), result.Collection, cfg.Output.Indent)
	} else {
		err = export.WriteGeoJSONFile(cfg.Output.GeoJSON, result.Collection, cfg.Output.Indent)
	}
	if err != nil {
		return fmt.Errorf("writing geojson: %w", err)
	}

	if cfg.Output.Shapefile != "" {
		if err := export.WriteShapefile(cfg.Output.Shapefile, result.Collection, cfg.Properties); err != nil {
			return fmt.Errorf("writing shapefile: %w", err)
		}
	}

	if cfg.Output.Metrics != "" {
		if err := metrics.WriteTextfile(cfg.Output.Metrics); err != nil {
			logger.Warn("non fatal: metrics textfile not written", zap.String("path", cfg.Output.Metrics), zap.Error(err))
		}
	}

	if convertFlags.summary {
		renderSummary(cmd.ErrOrStderr(), reprojector.String(), result)
	}

	return nil
}

package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/godeepar/bimgeo/config"
	"github.com/godeepar/bimgeo/model"
)

var (
	configPath string
	logLevel   string
	yUp        bool
)

var rootCmd = &cobra.Command{
	Use:   "bimgeo",
	Short: "BIM to GeoJSON footprints",
	Long: `bimgeo flattens the elements of tessellated BIM models into 2D footprints,
reprojects them into a geographic crs and writes them as a GeoJSON FeatureCollection
carrying the element GlobalId, its centroid and the selected IFC properties.

Models are read from ifcJSON style .json exports or IfcConvert style .obj files.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML configuration file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "debug, info, warn or error")
	rootCmd.PersistentFlags().BoolVar(&yUp, "y-up", false, "OBJ files use Y as the vertical axis")

	rootCmd.AddCommand(convertCmd, inspectCmd, crsCmd)
}

// loadConfig reads the configuration and applies the persistent flags.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel = logLevel
	}
	if cmd.Flags().Changed("y-up") {
		cfg.YUp = yUp
	}

	return cfg, nil
}

// newLogger builds a production logger at the configured level, tagged with
// a run id.
func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, err
	}

	zcfg := zap.NewProductionConfig()
	zcfg.Level = lvl
	if lvl.Level() == zap.DebugLevel {
		zcfg = zap.NewDevelopmentConfig()
		zcfg.Level = lvl
	}

	logger, err := zcfg.Build()
	if err != nil {
		return nil, err
	}

	return logger.With(zap.String("run_id", uuid.NewString())), nil
}

// openModels loads every path, failing on the first that cannot be read.
func openModels(paths []string, cfg *config.Config, logger *zap.Logger) ([]model.Model, error) {
	if len(paths) == 0 {
		paths = cfg.Inputs
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no model files given")
	}

	models := make([]model.Model, 0, len(paths))
	for _, path := range paths {
		m, err := model.OpenWith(path, model.OBJOptions{YUp: cfg.YUp})
		if err != nil {
			return nil, err
		}
		logger.Debug("model loaded", zap.String("path", path), zap.Int("entity_types", len(m.EntityTypes())))
		models = append(models, m)
	}

	return models, nil
}

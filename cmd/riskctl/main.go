// Command riskctl fits the risk model and scores patients from the terminal.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"healthrisk/config"
	"healthrisk/db"
	"healthrisk/logging"
	"healthrisk/ml"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// options shared by every subcommand
type options struct {
	configPath string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:   "riskctl",
		Short: "Healthcare risk model from the command line",
		Long: `riskctl fits the linear risk model on the configured dataset and
scores patients without starting the dashboard server.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", "config.yaml", "path to the configuration file")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log pipeline progress")

	root.AddCommand(newFitCmd(opts), newPredictCmd(opts), newImportCmd(opts))
	return root
}

// loadConfig reads the config file. A missing default file falls back to the
// built-in defaults; a missing file named with --config is an error.
func (o *options) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if errors.Is(err, os.ErrNotExist) && !cmd.Flags().Changed("config") {
		return config.Default(), nil
	}
	return cfg, err
}

func (o *options) logger(cfg *config.Config) (*zap.Logger, error) {
	if !o.verbose {
		return zap.NewNop(), nil
	}
	logCfg := cfg.Log
	logCfg.Level = "debug"
	logger, _, err := logging.New(logCfg)
	return logger, err
}

// pipeline loads the configured dataset and fits the model.
func (o *options) pipeline(cmd *cobra.Command) (*ml.Pipeline, error) {
	cfg, err := o.loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	logger, err := o.logger(cfg)
	if err != nil {
		return nil, err
	}
	source, err := db.NewSource(cfg.Dataset)
	if err != nil {
		return nil, err
	}
	pipeline, err := ml.NewPipeline(source, ml.PipelineConfig{Target: cfg.Dataset.Target}, logger)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ml.ErrorKind(err), err)
	}
	return pipeline, nil
}

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cartesi/pos-dlib/archive"
	"github.com/cartesi/pos-dlib/config"
	"github.com/cartesi/pos-dlib/core"
	"github.com/cartesi/pos-dlib/dapp"
	"github.com/cartesi/pos-dlib/internal/logging"
	"github.com/cartesi/pos-dlib/storage"
)

// app holds what every subcommand shares once the root pre-run has loaded it.
type app struct {
	cfgPath string
	verbose bool

	cfg    *config.Config
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "reactor",
		Short:         "Decide which PoS and lottery transactions to submit",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(a.cfgPath)
			if err != nil {
				return err
			}
			logger, err := logging.New(cfg.Logging, a.verbose)
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			a.cfg, a.logger = cfg, logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}
	root.PersistentFlags().StringVar(&a.cfgPath, "config", "reactor.yaml", "path to config file")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "log at debug level")

	root.AddCommand(
		newServeCmd(a),
		newReactCmd(a),
		newPrettyCmd(a),
		newVariantsCmd(),
		newConfigCmd(a),
	)
	return root
}

// openArchive opens the service-status archive under the data dir and seeds
// it with the statuses from the config file.
func (a *app) openArchive() (*archive.Archive, func() error, error) {
	if err := os.MkdirAll(a.cfg.DataDir, 0755); err != nil {
		return nil, nil, fmt.Errorf("mkdir data dir: %w", err)
	}
	db, err := storage.NewLevelDB(filepath.Join(a.cfg.DataDir, "archive"))
	if err != nil {
		return nil, nil, err
	}
	arch := archive.New(db, a.logger)
	for _, s := range a.cfg.Services {
		if err := arch.SetService(s); err != nil {
			db.Close()
			return nil, nil, err
		}
	}
	return arch, db.Close, nil
}

func readInstance(path string) (*core.Instance, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var inst core.Instance
	if err := json.Unmarshal(data, &inst); err != nil {
		return nil, fmt.Errorf("parse instance %s: %w", path, err)
	}
	return &inst, nil
}

func variantFlag(cmd *cobra.Command, target *string) {
	cmd.Flags().StringVar(target, "variant", "", "contract variant (Lottery, PoS, PoSClaim, PoSPrototype)")
	_ = cmd.MarkFlagRequired("variant")
}

func newVariantsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "variants",
		Short: "List supported contract variants",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, k := range dapp.Kinds() {
				fmt.Fprintln(cmd.OutOrStdout(), k)
			}
			return nil
		},
	}
}

package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/sandevgo/moodmem/internal/config"
	"github.com/sandevgo/moodmem/pkg/log"
)

var initCmd = &cobra.Command{
	Use:          "init",
	Short:        "Write the default configuration to the runtime directory",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		var flushLog func()
		ctx, flushLog = setupLogger(ctx)
		defer flushLog()

		logger := log.FromCtx(ctx)
		runtimePath := config.GetRuntimePath()

		path, err := config.WriteDefaults(runtimePath)
		if errors.Is(err, config.ErrEnvExists) {
			logger.Warn().Str("path", path).Msg("configuration already exists, leaving it untouched")
			return nil
		}
		if err != nil {
			return err
		}

		logger.Info().Str("path", path).Msg("wrote default configuration")
		logger.Info().Msg("Initialization complete! You can now run 'moodmem analyze' or 'moodmem start'.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}

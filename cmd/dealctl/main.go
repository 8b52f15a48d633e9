// Command dealctl analyzes real-estate deals offline with the same cost
// model the API uses.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"dealscout/internal/logger"
)

var (
	cfgFile string
	version = "dev"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "dealctl",
		Short: "Offline real-estate deal analyzer",
		Long: `dealctl evaluates a property under an investment strategy and purchase model
and prints the financing costs, net profit and ROI.

Default factors can be set in $HOME/.config/dealctl/config.yaml or through
DEALCTL_* environment variables, e.g. DEALCTL_FACTORS_INTEREST_RATE=7.`,
		SilenceUsage:      true,
		PersistentPreRunE: initConfig,
	}

	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.config/dealctl/config.yaml)")
	root.PersistentFlags().String("env", "development", "logging environment (development, production)")
	_ = viper.BindPFlag("env", root.PersistentFlags().Lookup("env"))

	root.AddCommand(analyzeCmd())
	root.AddCommand(presetsCmd())
	root.AddCommand(versionCmd())

	return root
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	logger.Sync()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func initConfig(_ *cobra.Command, _ []string) error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}
		viper.AddConfigPath(fmt.Sprintf("%s/.config/dealctl", home))
		viper.AddConfigPath(".")
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("DEALCTL")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}

	logger.Init(viper.GetString("env"))
	if used := viper.ConfigFileUsed(); used != "" {
		logger.Named("dealctl").Debugf("using config file %s", used)
	}
	return nil
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the dealctl version",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "dealctl %s\n", version)
		},
	}
}

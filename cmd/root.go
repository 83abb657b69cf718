/*
Copyright © 2025 Valentyn Solomko <valentyn.solomko@gmail.com>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/valpere/pajajap/internal/config"
	"github.com/valpere/pajajap/internal/logging"
)

var version = "0.1.0"

var (
	configFile string

	cfg    *config.Config
	logger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "pajajap",
	Short: "Terminal client for the Pa'ajap translation service",
	Long: `A terminal client that sends text to a remote translation service and shows
the returned translation together with the raw model output.

Use "pajajap translate --help" for one-shot translation and
"pajajap interactive" for an editor where Ctrl+Enter translates.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(viper.GetViper(), configFile)
		if err != nil {
			return err
		}
		cfg = loaded

		l, err := logging.New(cfg.LogLevel, cfg.LogFormat)
		if err != nil {
			return err
		}
		logger = l
		logger.Debug("configuration loaded",
			zap.String("api_url", cfg.APIURL),
			zap.Duration("timeout", cfg.Timeout),
			zap.String("locale", cfg.Locale),
			zap.String("fallback", cfg.Fallback))
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configFile, "config", "", "Config file (default ./pajajap.yaml or $XDG_CONFIG_HOME/pajajap/pajajap.yaml)")
	flags.String("api-url", config.DefaultAPIURL, "Translation service base URL")
	flags.Duration("timeout", 0, "Request timeout, 0 disables it (default 2m0s)")
	flags.String("locale", "en", "Locale for labels and messages")
	flags.String("fallback", "presence", "When a reply counts as missing a translation: presence or truthy")
	flags.String("log-level", "warn", "Log level: debug, info, warn, error")
	flags.String("log-format", "console", "Log format: console or json")

	bindFlags(viper.GetViper(), flags, map[string]string{
		"api_url":    "api-url",
		"timeout":    "timeout",
		"locale":     "locale",
		"fallback":   "fallback",
		"log_level":  "log-level",
		"log_format": "log-format",
	})
}

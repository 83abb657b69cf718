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
	"github.com/spf13/cobra"

	"github.com/valpere/pajajap/internal/terminal"
)

var interactiveCmd = &cobra.Command{
	Use:     "interactive",
	Aliases: []string{"i"},
	Short:   "Edit text in the terminal and translate with Ctrl+Enter",
	Long: `Open an editor on the terminal. Enter inserts a new line; Ctrl+Enter sends
the text to the translation service. Ctrl+D or Ctrl+C quits.

Terminals report Ctrl+Enter differently: a line feed (Ctrl+J) always works,
and the CSI-u and xterm modifyOtherKeys encodings are recognised too.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return terminal.RunTerminal(cmd.Context(), buildClient(), terminal.Config{
			Catalog: buildCatalog(),
			Policy:  cfg.Policy(),
			Logger:  logger.Named("terminal"),
		})
	},
}

func init() {
	rootCmd.AddCommand(interactiveCmd)
}

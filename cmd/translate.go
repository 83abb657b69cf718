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
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/valpere/pajajap/internal/controller"
	"github.com/valpere/pajajap/internal/ui"
)

var showRaw bool

var translateCmd = &cobra.Command{
	Use:   "translate [text...]",
	Short: "Translate text once and print the result",
	Long: `Send text to the translation service and print the translation to stdout.

The text is taken from the arguments, or from stdin when no arguments are
given. Leading and trailing whitespace is removed; blank input sends nothing.
The raw model output is printed to stderr unless --raw=false.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		var text string
		if len(args) > 0 {
			text = strings.Join(args, " ")
		} else {
			data, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return fmt.Errorf("failed to read stdin: %w", err)
			}
			text = string(data)
		}

		fields := controller.Fields{
			Source:      ui.NewField(text),
			Translation: ui.NewField(""),
			Thoughts:    ui.NewField(""),
			Button:      ui.NewPushButton(""),
		}
		ctrl := controller.New(fields, buildClient(), controllerOptions()...)

		out := ctrl.OnTranslateClick(cmd.Context())
		if !out.Sent() {
			return nil
		}

		fmt.Fprintln(cmd.OutOrStdout(), fields.Translation.Value())
		if raw := fields.Thoughts.Value(); showRaw && raw != "" {
			fmt.Fprintln(cmd.ErrOrStderr(), raw)
		}

		if out.Kind == controller.KindTransport {
			return fmt.Errorf("translation failed: %w", out.Err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(translateCmd)

	translateCmd.Flags().BoolVar(&showRaw, "raw", true, "Print the raw model output to stderr")
}

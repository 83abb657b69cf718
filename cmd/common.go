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
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/valpere/pajajap/internal/controller"
	"github.com/valpere/pajajap/internal/messages"
	"github.com/valpere/pajajap/internal/translator"
)

// bindFlags binds each config key to its flag. A flag only overrides the
// config when it was set on the command line.
func bindFlags(v *viper.Viper, flags *pflag.FlagSet, keys map[string]string) {
	for key, name := range keys {
		if err := v.BindPFlag(key, flags.Lookup(name)); err != nil {
			panic(err)
		}
	}
}

// buildClient constructs the translation client from the loaded config.
func buildClient() *translator.Client {
	return translator.NewClient(cfg.APIURL,
		translator.WithTimeout(cfg.Timeout),
		translator.WithLogger(logger.Named("translator")),
	)
}

func buildCatalog() *messages.Catalog {
	return messages.New(cfg.Locale, logger.Named("messages"))
}

func controllerOptions() []controller.Option {
	return []controller.Option{
		controller.WithCatalog(buildCatalog()),
		controller.WithFallbackPolicy(cfg.Policy()),
		controller.WithLogger(logger.Named("controller")),
	}
}

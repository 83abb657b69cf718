// Package messages holds the user-facing strings of the translate form.
//
// Strings are loaded from the embedded active.*.toml files through go-i18n.
// English is the default and the final fallback for every lookup.
package messages

import (
	"embed"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/pelletier/go-toml/v2"
	"go.uber.org/zap"
	"golang.org/x/text/language"
)

//go:embed active.*.toml
var localeFS embed.FS

// Message IDs.
const (
	ButtonIdle          = "ButtonIdle"
	ButtonBusy          = "ButtonBusy"
	TranslationFallback = "TranslationFallback"
	ConnectionError     = "ConnectionError"
	SessionHelp         = "SessionHelp"
)

var defaults = map[string]string{
	ButtonIdle:          "Translate",
	ButtonBusy:          "Translating...",
	TranslationFallback: "Error translating",
	ConnectionError:     "Error: Could not connect to server",
	SessionHelp:         "Type text, press Ctrl+Enter to translate, Ctrl+D to quit.",
}

var localeFiles = []string{"active.en.toml", "active.fr.toml"}

// Catalog resolves message IDs for one locale.
type Catalog struct {
	locale    string
	localizer *i18n.Localizer
	logger    *zap.Logger
}

// New builds a Catalog for locale (e.g. "fr"). An empty or unknown locale
// resolves to English.
func New(locale string, logger *zap.Logger) *Catalog {
	if logger == nil {
		logger = zap.NewNop()
	}

	bundle := i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	for _, file := range localeFiles {
		if _, err := bundle.LoadMessageFileFS(localeFS, file); err != nil {
			logger.Warn("failed to load message file", zap.String("file", file), zap.Error(err))
		}
	}

	languages := []string{}
	if locale != "" {
		if _, err := language.Parse(locale); err != nil {
			logger.Warn("unknown locale, using English", zap.String("locale", locale), zap.Error(err))
		} else {
			languages = append(languages, locale)
		}
	}
	languages = append(languages, language.English.String())

	return &Catalog{
		locale:    locale,
		localizer: i18n.NewLocalizer(bundle, languages...),
		logger:    logger,
	}
}

// Default returns a Catalog for English.
func Default() *Catalog {
	return New("", nil)
}

// Text renders the message identified by id. Unknown IDs render as the ID.
func (c *Catalog) Text(id string) string {
	if id == "" {
		return ""
	}

	def, known := defaults[id]
	cfg := &i18n.LocalizeConfig{MessageID: id}
	if known {
		cfg.DefaultMessage = &i18n.Message{ID: id, Other: def}
	}

	msg, err := c.localizer.Localize(cfg)
	if msg != "" {
		return msg
	}
	if err != nil {
		c.logger.Debug("localize failed", zap.String("id", id), zap.String("locale", c.locale), zap.Error(err))
	}
	if known {
		return def
	}
	return id
}

package i18n

import (
	"embed"
	"log"

	"github.com/BurntSushi/toml"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

//go:embed locales/*.toml
var localeFS embed.FS

var (
	// Bundle is the global translation bundle
	Bundle *i18n.Bundle
	// Localizer is the default localizer
	Localizer *i18n.Localizer
)

// Init initializes the i18n system with the given default locale
func Init(locale string) error {
	Bundle = i18n.NewBundle(language.Russian)
	Bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	for _, file := range []string{"locales/active.ru.toml", "locales/active.en.toml"} {
		if _, err := Bundle.LoadMessageFileFS(localeFS, file); err != nil {
			log.Printf("[i18n] Failed to load locale %s: %v", file, err)
		}
	}

	if locale == "" {
		locale = language.Russian.String()
	}
	Localizer = i18n.NewLocalizer(Bundle, locale)

	return nil
}

// GetLocalizer returns a localizer for the specified language
func GetLocalizer(lang string) *i18n.Localizer {
	if lang == "" {
		return Localizer
	}
	return i18n.NewLocalizer(Bundle, lang)
}

// T translates a message ID using the default localizer
func T(messageID string) string {
	return TFor(Localizer, messageID)
}

// TFor translates a message ID with a specific localizer
func TFor(localizer *i18n.Localizer, messageID string) string {
	if localizer == nil {
		return messageID
	}
	msg, err := localizer.Localize(&i18n.LocalizeConfig{
		MessageID: messageID,
	})
	if err != nil {
		return messageID
	}
	return msg
}

// TWithData translates a message ID with template data
func TWithData(messageID string, data map[string]interface{}) string {
	if Localizer == nil {
		return messageID
	}
	msg, err := Localizer.Localize(&i18n.LocalizeConfig{
		MessageID:    messageID,
		TemplateData: data,
	})
	if err != nil {
		return messageID
	}
	return msg
}

package i18n

import (
	"embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"wiki-quiz/internal/domain"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

//go:embed locales/*.json
var localeFS embed.FS

var (
	bundleOnce sync.Once
	bundle     *i18n.Bundle
	bundleErr  error
)

// loadBundle parses every embedded locale file once, English as the default.
func loadBundle() (*i18n.Bundle, error) {
	bundleOnce.Do(func() {
		b := i18n.NewBundle(language.English)
		b.RegisterUnmarshalFunc("json", json.Unmarshal)

		entries, err := localeFS.ReadDir("locales")
		if err != nil {
			bundleErr = fmt.Errorf("read locales dir: %w", err)
			return
		}
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			data, err := localeFS.ReadFile("locales/" + e.Name())
			if err != nil {
				bundleErr = fmt.Errorf("read locale file %s: %w", e.Name(), err)
				return
			}
			if _, err := b.ParseMessageFileBytes(data, e.Name()); err != nil {
				bundleErr = fmt.Errorf("parse locale file %s: %w", e.Name(), err)
				return
			}
		}
		bundle = b
	})
	return bundle, bundleErr
}

// Translator renders messages in one language. Messages missing from that
// language fall back to English.
type Translator struct {
	lang string
	loc  *i18n.Localizer
}

// New returns a Translator for lang, a BCP 47 tag such as "en" or "ru-RU".
func New(lang string) (*Translator, error) {
	if strings.TrimSpace(lang) == "" {
		lang = language.English.String()
	}
	tag, err := language.Parse(lang)
	if err != nil {
		return nil, fmt.Errorf("parse language %q: %w", lang, err)
	}
	b, err := loadBundle()
	if err != nil {
		return nil, err
	}
	return &Translator{
		lang: tag.String(),
		loc:  i18n.NewLocalizer(b, tag.String(), language.English.String()),
	}, nil
}

// Lang returns the requested language tag.
func (t *Translator) Lang() string { return t.lang }

// T translates a message by ID. Unknown IDs are returned unchanged.
func (t *Translator) T(msgID string) string {
	return t.localize(&i18n.LocalizeConfig{MessageID: msgID})
}

// Td translates a message by ID with template data.
func (t *Translator) Td(msgID string, data map[string]any) string {
	return t.localize(&i18n.LocalizeConfig{MessageID: msgID, TemplateData: data})
}

// Tp translates a pluralized message by ID.
func (t *Translator) Tp(msgID string, count int) string {
	return t.localize(&i18n.LocalizeConfig{
		MessageID:    msgID,
		PluralCount:  count,
		TemplateData: map[string]any{"Count": count},
	})
}

func (t *Translator) localize(cfg *i18n.LocalizeConfig) string {
	s, err := t.loc.Localize(cfg)
	if err != nil {
		return cfg.MessageID
	}
	return s
}

// TierMessage is the final-screen copy for a tier.
type TierMessage struct {
	Title   string
	Message string
	Emoji   string
}

var tierKeys = map[domain.Tier]string{
	domain.TierPerfect:      "TierPerfect",
	domain.TierExcellent:    "TierExcellent",
	domain.TierGreat:        "TierGreat",
	domain.TierGood:         "TierGood",
	domain.TierKeepLearning: "TierKeepLearning",
	domain.TierKeepTrying:   "TierKeepTrying",
}

// Tier returns the localized copy for tier. Unknown tiers use Keep Trying.
func (t *Translator) Tier(tier domain.Tier) TierMessage {
	key, ok := tierKeys[tier]
	if !ok {
		key = tierKeys[domain.TierKeepTrying]
	}
	return TierMessage{
		Title:   t.T(key + "Title"),
		Message: t.T(key + "Message"),
		Emoji:   t.T(key + "Emoji"),
	}
}

// TierText returns the copy for tier in lang.
func TierText(lang string, tier domain.Tier) (TierMessage, error) {
	t, err := New(lang)
	if err != nil {
		return TierMessage{}, err
	}
	return t.Tier(tier), nil
}

package session

import (
	"context"
	"strings"

	"github.com/bregydoc/gtranslate"
	"golang.org/x/text/language"
	"golang.org/x/xerrors"
)

// Translator machine-translates text between two languages.
type Translator interface {
	Translate(ctx context.Context, text, from, to string) (string, error)
}

// GoogleTranslator uses the public Google Translate endpoint.
type GoogleTranslator struct{}

func (GoogleTranslator) Translate(ctx context.Context, text, from, to string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	out, err := gtranslate.TranslateWithParams(text, gtranslate.TranslationParams{
		From: from,
		To:   to,
	})
	if err != nil {
		return "", xerrors.Errorf("translating %q from %s to %s: %w", text, from, to, err)
	}
	return out, nil
}

// TranslationLanguage maps a locale code such as "de_DE" or "zh_TW" to the
// language code the translation backend expects ("de", "zh-TW").
func TranslationLanguage(code string) (string, error) {
	tag, err := language.Parse(strings.ReplaceAll(code, "_", "-"))
	if err != nil {
		return "", xerrors.Errorf("parsing locale code %q: %w", code, err)
	}

	base, _ := tag.Base()
	if base.String() != "zh" {
		return base.String(), nil
	}

	// Chinese is the one language the backend splits by script.
	script, _ := tag.Script()
	region, _ := tag.Region()
	switch {
	case script.String() == "Hant", region.String() == "TW", region.String() == "HK", region.String() == "MO":
		return "zh-TW", nil
	default:
		return "zh-CN", nil
	}
}

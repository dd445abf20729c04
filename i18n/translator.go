package i18n

import (
	"fmt"
	"strings"
)

type Translator struct {
	t         translation
	locale    string
	ressource string
	registry  *TranslationRegistry
}

// Registry retruns the translation registry the Translator was created from
func (t *Translator) Registry() *TranslationRegistry {
	return t.registry
}

// T retrives the translation for the supplied key
func (t *Translator) T(key ...string) string {
	return t.execute(t, key...)
}

// TData retrives the translation for the supplied key and executes it
// against the given view data, used for strings that embed values like
// the family or inviter name
func (t *Translator) TData(data map[string]string, key ...string) string {
	return t.execute(data, key...)
}

func (t *Translator) execute(data interface{}, key ...string) string {
	k := strings.Join(key, ".")
	res := t.t[k]
	if res == nil {
		return fmt.Sprintf("missing (%s): %s", t.locale, k)
	}
	buffer := new(strings.Builder)
	err := res.Execute(buffer, data)
	if err != nil {
		return fmt.Sprintf("error (%s): %s", t.locale, k)
	}
	return buffer.String()
}

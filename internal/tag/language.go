package tag

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// Language is a backend language record.
type Language struct {
	ID   string `json:"id"`
	LCID string `json:"lcid"`
	Code string `json:"code"`
	Name string `json:"name"`
}

// DisplayName returns the backend name, falling back to the locale's own name.
func (l Language) DisplayName() string {
	if name := strings.TrimSpace(l.Name); name != "" {
		return name
	}
	return LocaleName(l.LCID)
}

// LocaleName renders a locale code in its own language, e.g. "español (México)"
// for es-mx. Unparseable codes are returned as given.
func LocaleName(lcid string) string {
	lcid = NormalizeLCID(lcid)
	t, err := language.Parse(lcid)
	if err != nil {
		return lcid
	}
	if name := display.Self.Name(t); name != "" {
		return name
	}
	return lcid
}

// Package i18n holds the dashboard's English and Afaan Oromoo string tables.
// Lookups fall back to English, then to the key itself, so a missing
// translation never blanks out the UI.
package i18n

// Lang selects the active translation table.
type Lang string

const (
	English Lang = "en"
	Oromo   Lang = "om"
)

// Parse returns the language for a stored preference value.
func Parse(s string) (Lang, bool) {
	switch Lang(s) {
	case English:
		return English, true
	case Oromo:
		return Oromo, true
	}
	return English, false
}

// Next cycles to the other language.
func (l Lang) Next() Lang {
	if l == English {
		return Oromo
	}
	return English
}

var english = map[string]string{
	"app.title": "Water Quality Dashboard",

	"sensor.ph":           "pH",
	"sensor.temperature":  "Temperature",
	"sensor.turbidity":    "Turbidity",
	"sensor.tds":          "TDS",
	"sensor.oxygen":       "Dissolved Oxygen",
	"sensor.conductivity": "Conductivity",

	"tier.Normal":  "Normal",
	"tier.Alert":   "Alert",
	"tier.Warning": "Warning",
	"tier.Low":     "Low",
	"tier.High":    "High",

	"alert.breach": "%s reading %s is outside the safe range %s",
	"alert.near":   "%s reading %s is approaching the safe limit %s",

	"notify.language":    "Language switched to %s",
	"notify.export":      "Readings exported to %s",
	"notify.export.fail": "Export failed: %s",

	"lang.en": "English",
	"lang.om": "Afaan Oromoo",

	"ui.last_updated": "Last updated",
	"ui.safe_range":   "Safe range",
	"ui.paused":       "Paused",
	"ui.table":        "Recent Readings",
	"ui.timestamp":    "Timestamp",
	"ui.status":       "Status",
	"ui.help":         "q quit · space pause · l language · t table · e export · x dismiss",
}

var oromo = map[string]string{
	"app.title": "Daashboordii Qulqullina Bishaanii",

	"sensor.ph":           "pH",
	"sensor.temperature":  "Ho'a",
	"sensor.turbidity":    "Booruummaa",
	"sensor.tds":          "TDS",
	"sensor.oxygen":       "Oksijiinii Bulbulamaa",
	"sensor.conductivity": "Kondaaktiviitii",

	"tier.Normal":  "Idilee",
	"tier.Alert":   "Of-eeggannoo",
	"tier.Warning": "Akeekkachiisa",
	"tier.Low":     "Gad-aanaa",
	"tier.High":    "Ol-aanaa",

	"alert.breach": "Dubbisni %s %s daangaa nagaa %s ala jira",
	"alert.near":   "Dubbisni %s %s daangaa nagaa %s itti dhiyaachaa jira",

	"notify.language":    "Afaan gara %s jijjiirame",
	"notify.export":      "Dubbisni gara %s olkaa'ame",
	"notify.export.fail": "Olkaa'uun hin milkoofne: %s",

	"lang.en": "Ingiliffa",
	"lang.om": "Afaan Oromoo",

	"ui.last_updated": "Yeroo dhumaaf haaromfame",
	"ui.safe_range":   "Daangaa nagaa",
	"ui.paused":       "Dhaabbateera",
	"ui.table":        "Dubbisa Dhiyoo",
	"ui.timestamp":    "Yeroo",
	"ui.status":       "Haala",
	"ui.help":         "q bahi · space dhaabi · l afaan · t gabatee · e olkaa'i · x cufi",
}

var tables = map[Lang]map[string]string{
	English: english,
	Oromo:   oromo,
}

// T looks key up in the table for lang.
func T(lang Lang, key string) string {
	if tab, ok := tables[lang]; ok {
		if s, ok := tab[key]; ok {
			return s
		}
	}
	if s, ok := english[key]; ok {
		return s
	}
	return key
}

// Translator is a Lang bound to the lookup, handy to pass around.
type Translator struct {
	lang Lang
}

func New(lang Lang) Translator {
	return Translator{lang: lang}
}

func (t Translator) Lang() Lang {
	return t.lang
}

func (t Translator) T(key string) string {
	return T(t.lang, key)
}

// Sensor returns the display name for a catalog sensor ID.
func (t Translator) Sensor(id string) string {
	return t.T("sensor." + id)
}

// TierLabel returns the display label for a tier name.
func (t Translator) TierLabel(tier string) string {
	return t.T("tier." + tier)
}

// LangName returns the display name of a language, in t's language.
func (t Translator) LangName(l Lang) string {
	return t.T("lang." + string(l))
}

package model

// Theme selects the launcher color scheme.
type Theme string

const (
	// ThemeLight forces the light color scheme.
	ThemeLight Theme = "light"

	// ThemeDark forces the dark color scheme.
	ThemeDark Theme = "dark"

	// ThemeAuto follows the system preference.
	ThemeAuto Theme = "auto"
)

// IsValid returns true if the theme is recognized.
func (t Theme) IsValid() bool {
	switch t {
	case ThemeLight, ThemeDark, ThemeAuto:
		return true
	default:
		return false
	}
}

// Bounds for integer preference options. Values outside the range are
// dropped during sanitization, not clamped.
const (
	MinResultsPerPage = 5
	MaxResultsPerPage = 100
	MinHistoryItems   = 0
	MaxHistoryItems   = 10000
)

// PreferencesRecord holds the fixed set of user preference options.
type PreferencesRecord struct {
	// DefaultEngine is the identifier of the preferred engine.
	DefaultEngine string `json:"defaultEngine"`

	// Theme is the launcher color scheme.
	Theme Theme `json:"theme"`

	// ResultsPerPage is how many results to request (5-100).
	ResultsPerPage int `json:"resultsPerPage"`

	// OpenInNewTab opens search results in a new tab.
	OpenInNewTab bool `json:"openInNewTab"`

	// ShowPreviews shows result previews.
	ShowPreviews bool `json:"showPreviews"`

	// AutoComplete enables query autocompletion.
	AutoComplete bool `json:"autoComplete"`

	// EnableHistory records dispatched searches.
	EnableHistory bool `json:"enableHistory"`

	// MaxHistoryItems caps the retained history (0-10000).
	MaxHistoryItems int `json:"maxHistoryItems"`
}

// Map projects the record onto the loosely typed wire shape used inside
// configuration documents. Only the recognized keys appear.
func (p PreferencesRecord) Map() map[string]any {
	return map[string]any{
		"defaultEngine":   p.DefaultEngine,
		"theme":           string(p.Theme),
		"resultsPerPage":  p.ResultsPerPage,
		"openInNewTab":    p.OpenInNewTab,
		"showPreviews":    p.ShowPreviews,
		"autoComplete":    p.AutoComplete,
		"enableHistory":   p.EnableHistory,
		"maxHistoryItems": p.MaxHistoryItems,
	}
}

// DefaultPreferences returns the documented preference defaults.
func DefaultPreferences() PreferencesRecord {
	return PreferencesRecord{
		DefaultEngine:   "",
		Theme:           ThemeAuto,
		ResultsPerPage:  10,
		OpenInNewTab:    true,
		ShowPreviews:    true,
		AutoComplete:    true,
		EnableHistory:   true,
		MaxHistoryItems: 1000,
	}
}

package internal

// Mode is the content-safety policy applied to subtitle translation.
type Mode string

const (
	ModeNormal    Mode = "normal"
	ModeAdultSafe Mode = "adult"
)

// Language is a supported target language.
type Language struct {
	Code string // callback/wire code, e.g. "my"
	Name string // human-readable name used in menus and prompts
}

// SupportedLanguages is the fixed target-language menu, in display order.
var SupportedLanguages = []Language{
	{Code: "my", Name: "Burmese"},
	{Code: "en", Name: "English"},
	{Code: "ja", Name: "Japanese"},
	{Code: "th", Name: "Thai"},
	{Code: "ko", Name: "Korean"},
	{Code: "zh", Name: "Chinese"},
}

// LanguageByCode resolves a callback code to a supported language.
func LanguageByCode(code string) (Language, bool) {
	for _, l := range SupportedLanguages {
		if l.Code == code {
			return l, true
		}
	}
	return Language{}, false
}

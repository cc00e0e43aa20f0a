package bot

import (
	"fmt"
	"strings"

	"github.com/myansub/subtran/internal"
)

// SelectionKind discriminates decoded callback payloads.
type SelectionKind int

const (
	SelectionInvalid SelectionKind = iota
	SelectionLanguage
	SelectionMode
)

// Selection is a button press decoded once at the transport boundary. The
// orchestrator never sees the raw payload strings.
type Selection struct {
	Kind     SelectionKind
	Language internal.Language
	Mode     internal.Mode
}

const (
	langPrefix = "lang_"
	modePrefix = "mode_"
)

func languageCallback(code string) string {
	return langPrefix + code
}

func modeCallback(mode internal.Mode, code string) string {
	return fmt.Sprintf("%s%s_%s", modePrefix, mode, code)
}

// decodeSelection parses a callback payload. Anything malformed — wrong
// prefix, too few parts, unknown language code — fails closed to
// SelectionInvalid.
func decodeSelection(data string) Selection {
	switch {
	case strings.HasPrefix(data, langPrefix):
		lang, ok := internal.LanguageByCode(strings.TrimPrefix(data, langPrefix))
		if !ok {
			return Selection{}
		}
		return Selection{Kind: SelectionLanguage, Language: lang}

	case strings.HasPrefix(data, modePrefix):
		parts := strings.Split(data, "_")
		if len(parts) < 3 {
			return Selection{}
		}
		lang, ok := internal.LanguageByCode(parts[2])
		if !ok {
			return Selection{}
		}
		mode := internal.ModeAdultSafe
		if parts[1] == string(internal.ModeNormal) {
			mode = internal.ModeNormal
		}
		return Selection{Kind: SelectionMode, Language: lang, Mode: mode}

	default:
		return Selection{}
	}
}

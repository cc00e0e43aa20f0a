// Package classify maps file names to their handling category. The category
// decides whether a file is translated as a subtitle, translated as a
// key=value string file, extracted as an archive, or rejected.
package classify

import (
	"path/filepath"
	"strings"
)

// Kind is the handling category of a file.
type Kind int

const (
	Unsupported Kind = iota
	Subtitle
	StringFile
	Archive
)

func (k Kind) String() string {
	switch k {
	case Subtitle:
		return "subtitle"
	case StringFile:
		return "string-file"
	case Archive:
		return "archive"
	default:
		return "unsupported"
	}
}

var (
	subtitleExts = map[string]bool{".srt": true, ".vtt": true, ".ass": true}
	stringExts   = map[string]bool{".str": true}
	archiveExts  = map[string]bool{".zip": true}
)

// Detect returns the category for a file name based on its extension.
// Matching is case-insensitive; anything unknown (including names with no
// extension) is Unsupported.
func Detect(name string) Kind {
	ext := strings.ToLower(filepath.Ext(name))
	switch {
	case subtitleExts[ext]:
		return Subtitle
	case stringExts[ext]:
		return StringFile
	case archiveExts[ext]:
		return Archive
	default:
		return Unsupported
	}
}

// Translatable reports whether the category is translated directly
// (as opposed to extracted or rejected).
func Translatable(k Kind) bool {
	return k == Subtitle || k == StringFile
}

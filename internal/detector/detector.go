// Package detector wraps lingua-go language detection. Detection is used
// only as a prompt hint and for logging; an undetectable text is not an
// error.
package detector

import (
	lingua "github.com/pemistahl/lingua-go"
)

type Detector struct {
	detector lingua.LanguageDetector
}

func New() *Detector {
	d := lingua.NewLanguageDetectorBuilder().
		FromAllLanguages().
		Build()

	return &Detector{detector: d}
}

// Hint returns the English name of the detected language ("English",
// "Japanese", ...) or ok=false when the text is empty or ambiguous.
func (d *Detector) Hint(text string) (string, bool) {
	if text == "" {
		return "", false
	}
	lang, ok := d.detector.DetectLanguageOf(text)
	if !ok {
		return "", false
	}
	return lang.String(), true
}

// Package prompt builds the instruction strings sent to the translation
// gateway. Each builder is a pure function of the file content, the target
// language, and an optional detected-source hint; the structural preservation
// rules (keys, timecodes, tags) live in the prompt text itself.
package prompt

import (
	"fmt"
	"strings"
)

// sourceClause names the source language when detection produced a confident
// hint, and falls back to auto-detection wording otherwise.
func sourceClause(detected string) string {
	if detected == "" {
		return "Auto-detect the source language."
	}
	return fmt.Sprintf("The source text appears to be %s.", detected)
}

// StringFile builds the prompt for key=value string files. Only right-hand
// values are translated; keys, spacing and newlines are preserved verbatim.
func StringFile(content, targetLang, detected string) string {
	var sb strings.Builder
	sb.WriteString("You are a professional translation engine.\n")
	sb.WriteString(sourceClause(detected))
	sb.WriteString(fmt.Sprintf(" Translate the RIGHT-HAND VALUES only in this `.str` file into %s.\n", targetLang))
	sb.WriteString("Rules:\n")
	sb.WriteString("- Preserve key names (left side) exactly.\n")
	sb.WriteString("- Preserve format, spacing and newlines.\n")
	sb.WriteString("- Only translate the values.\n")
	sb.WriteString("Example:\n")
	sb.WriteString("hello_world=Hello World\n")
	sb.WriteString("-> hello_world=Translated Here\n")
	sb.WriteString("Now translate:\n")
	sb.WriteString(content)
	return sb.String()
}

// Subtitle builds the normal-mode subtitle prompt. Dialogue text is
// translated; line numbers, timecodes and formatting tags stay unchanged.
func Subtitle(content, targetLang, detected string) string {
	var sb strings.Builder
	sb.WriteString("You are a subtitle translation engine.\n")
	sb.WriteString(sourceClause(detected))
	sb.WriteString(fmt.Sprintf(" Translate ONLY the spoken/dialogue text into %s.\n", targetLang))
	sb.WriteString("DO NOT change:\n")
	sb.WriteString("- Line numbers\n")
	sb.WriteString("- Timecodes\n")
	sb.WriteString("- Formatting / tags like <i>, <b>, {\\i1}, etc.\n")
	sb.WriteString("Preserve line breaks and spacing exactly.\n")
	sb.WriteString("Translate faithfully.\n")
	sb.WriteString("Now translate:\n")
	sb.WriteString(content)
	return sb.String()
}

// SubtitleAdultSafe builds the adult-safe subtitle prompt: the same
// structural contract as Subtitle plus a policy constraint that existing
// explicit dialogue may be translated faithfully but never amplified,
// expanded, or newly introduced.
func SubtitleAdultSafe(content, targetLang, detected string) string {
	var sb strings.Builder
	sb.WriteString("You are a subtitle translation assistant.\n")
	sb.WriteString("The subtitle may contain adult or explicit content. This is allowed AS LONG AS YOU DO NOT ADD, EXPAND, OR INTENSIFY SEXUAL CONTENT.\n")
	sb.WriteString(sourceClause(detected))
	sb.WriteString(fmt.Sprintf(" Translate ONLY the existing dialogue into %s.\n", targetLang))
	sb.WriteString("DO NOT:\n")
	sb.WriteString("- Add new sexual details\n")
	sb.WriteString("- Change tone to be more sexual\n")
	sb.WriteString("Preserve structure, line numbers, timecodes and tags.\n")
	sb.WriteString("Now translate:\n")
	sb.WriteString(content)
	return sb.String()
}

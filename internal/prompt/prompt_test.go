package prompt

import (
	"strings"
	"testing"
)

func TestStringFile(t *testing.T) {
	content := "hello_world=Hello World\nbye=Goodbye\n"
	p := StringFile(content, "Japanese", "")

	if !strings.Contains(p, "Japanese") {
		t.Error("prompt must name the target language")
	}
	if !strings.Contains(p, "Auto-detect the source language.") {
		t.Error("prompt must request source auto-detection when no hint is given")
	}
	if !strings.Contains(p, "Preserve key names (left side) exactly.") {
		t.Error("prompt must state the key-preservation rule")
	}
	if !strings.HasSuffix(p, content) {
		t.Error("prompt must end with the verbatim file content")
	}
}

func TestStringFile_DetectedHint(t *testing.T) {
	p := StringFile("k=v\n", "Korean", "English")

	if !strings.Contains(p, "appears to be English") {
		t.Error("prompt must carry the detected-source hint")
	}
	if strings.Contains(p, "Auto-detect") {
		t.Error("hinted prompt must not also request auto-detection")
	}
}

func TestSubtitle(t *testing.T) {
	content := "1\n00:00:01,000 --> 00:00:02,000\n<i>Hello</i>\n"
	p := Subtitle(content, "Burmese", "")

	for _, want := range []string{
		"subtitle translation engine",
		"Burmese",
		"Line numbers",
		"Timecodes",
		"{\\i1}",
		"Preserve line breaks and spacing exactly.",
	} {
		if !strings.Contains(p, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
	if !strings.HasSuffix(p, content) {
		t.Error("prompt must end with the verbatim file content")
	}
}

func TestSubtitleAdultSafe(t *testing.T) {
	content := "1\n00:00:01,000 --> 00:00:02,000\nHello\n"
	p := SubtitleAdultSafe(content, "Thai", "")

	for _, want := range []string{
		"DO NOT ADD, EXPAND, OR INTENSIFY",
		"Add new sexual details",
		"Change tone to be more sexual",
		"line numbers, timecodes and tags",
		"Thai",
	} {
		if !strings.Contains(p, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
	if !strings.HasSuffix(p, content) {
		t.Error("prompt must end with the verbatim file content")
	}
}

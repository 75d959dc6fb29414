package llm

import (
	"strings"
	"testing"
)

func TestBuildPrompt(t *testing.T) {
	raw := "Photosynthesis converts light into chemical energy."
	prompt := BuildPrompt(raw)

	if !strings.Contains(prompt, raw) {
		t.Error("prompt should contain the raw text")
	}
	for _, field := range []string{"question", "options", "answer", "type"} {
		if !strings.Contains(prompt, field) {
			t.Errorf("prompt should name the %q field", field)
		}
	}
	if !strings.Contains(prompt, "JSON") {
		t.Error("prompt should ask for JSON output")
	}
}

func TestCleanResponse(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		want  string
	}{
		{
			"fenced",
			"Here you go:\n```json\n[{\"question\": \"q\"}]\n```\nHope that helps!",
			`[{"question": "q"}]`,
		},
		{
			"fenced no surrounding prose",
			"```json[1, 2]```",
			"[1, 2]",
		},
		{
			"unfenced",
			"  [{\"question\": \"q\"}]  ",
			`[{"question": "q"}]`,
		},
		{
			"plain fence without json tag",
			"```\n[1]\n```",
			"```\n[1]\n```",
		},
		{
			"empty",
			"",
			"",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanResponse(tt.reply); got != tt.want {
				t.Errorf("CleanResponse() = %q, want %q", got, tt.want)
			}
		})
	}
}

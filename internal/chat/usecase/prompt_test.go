package usecase

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"

	"nutrition-assistant/internal/chat"
)

func TestChunk(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"single word", "Hi", []string{"Hi"}},
		{"sentence", "Eat more greens", []string{"Eat ", "more ", "greens"}},
		{"double space", "a  b", []string{"a ", " ", "b"}},
		{"trailing space", "done ", []string{"done "}},
		{"newlines stay in tokens", "Breakfast:\n- oats", []string{"Breakfast:\n- ", "oats"}},
		{"tabs stay in tokens", "a\tb c", []string{"a\tb ", "c"}},
		{"empty", "", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Chunk(tt.text)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Chunk(%q) = %q, want %q", tt.text, got, tt.want)
			}
			if strings.Join(got, "") != tt.text {
				t.Errorf("round trip lost characters: %q", strings.Join(got, ""))
			}
		})
	}
}

func TestNormalizeKey(t *testing.T) {
	if got := NormalizeKey("  What Should I EAT?\n"); got != "what should i eat?" {
		t.Errorf("unexpected key %q", got)
	}
}

func TestBuildPrompt(t *testing.T) {
	msgs := chat.Conversation{{Role: chat.RoleUser, Content: "Hi"}}

	tests := []struct {
		name    string
		profile chat.HealthProfile
		want    string
	}{
		{"no profile", nil, "SYS\nuser: Hi"},
		{"null profile", json.RawMessage(`null`), "SYS\nuser: Hi"},
		{"empty object", json.RawMessage(` {} `), "SYS\nuser: Hi"},
		{"profile", json.RawMessage("{\n  \"age\": 30\n}"), "SYS\nhealth profile: {\"age\":30}\nuser: Hi"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BuildPrompt("SYS", tt.profile, msgs); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

package renamer

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestPromptConfirmerAnswers(t *testing.T) {
	tests := []struct {
		input   string
		want    bool
		wantErr bool
	}{
		{input: "y\n", want: true},
		{input: "YES\n", want: true},
		{input: "  Yes  \n", want: true},
		{input: "yes", want: true},
		{input: "n\n", want: false},
		{input: "\n", want: false},
		{input: "yeah\n", want: false},
		{input: "", wantErr: true},
	}
	for _, tc := range tests {
		t.Run(strings.TrimSpace(tc.input), func(t *testing.T) {
			var prompt bytes.Buffer
			confirmer := NewPromptConfirmer(strings.NewReader(tc.input), &prompt)
			got, err := confirmer.Confirm(context.Background(), "a.mp4", "a_20240101_Dog.mp4")
			if tc.wantErr {
				if err == nil {
					t.Fatal("expected error on empty input")
				}
				return
			}
			if err != nil {
				t.Fatalf("Confirm returned error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("Confirm(%q) = %v, want %v", tc.input, got, tc.want)
			}
			if !strings.Contains(prompt.String(), "a_20240101_Dog.mp4") || !strings.Contains(prompt.String(), "[y/N]") {
				t.Fatalf("unexpected prompt %q", prompt.String())
			}
		})
	}
}

func TestPromptConfirmerReadsSequentialAnswers(t *testing.T) {
	confirmer := NewPromptConfirmer(strings.NewReader("y\nn\n"), &bytes.Buffer{})
	first, _ := confirmer.Confirm(context.Background(), "a", "b")
	second, _ := confirmer.Confirm(context.Background(), "c", "d")
	if !first || second {
		t.Fatalf("expected yes then no, got %v %v", first, second)
	}
}

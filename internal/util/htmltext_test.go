package util

import (
	"strings"
	"testing"
)

func TestVisibleText_SkipsScriptsAndStyles(t *testing.T) {
	page := `<html><head><title>T</title><style>body{color:red}</style></head>
<body><script>alert("hi")</script><p>Visible words.</p><noscript>fallback</noscript></body></html>`

	text, err := VisibleText(page)
	if err != nil {
		t.Fatalf("VisibleText failed: %v", err)
	}

	if !strings.Contains(text, "Visible words.") {
		t.Errorf("Expected visible text, got %q", text)
	}
	for _, hidden := range []string{"alert", "color:red", "fallback", "T"} {
		if strings.Contains(text, hidden) {
			t.Errorf("Expected %q to be stripped, got %q", hidden, text)
		}
	}
}

func TestVisibleText_BlockElementsBecomeParagraphs(t *testing.T) {
	page := `<body><p>First block</p><p>Second block</p></body>`

	text, err := VisibleText(page)
	if err != nil {
		t.Fatalf("VisibleText failed: %v", err)
	}

	idx := strings.Index(text, "Second block")
	if idx < 0 {
		t.Fatalf("Expected both blocks, got %q", text)
	}
	if !strings.Contains(text[:idx], "\n\n") {
		t.Errorf("Expected a paragraph break between blocks, got %q", text)
	}
}

func TestVisibleText_InlineTextJoinedWithSpaces(t *testing.T) {
	page := `<p>The <b>cache</b> broke <i>again</i>.</p>`

	text, err := VisibleText(page)
	if err != nil {
		t.Fatalf("VisibleText failed: %v", err)
	}

	if !strings.Contains(text, "The cache broke again") {
		t.Errorf("Expected inline runs joined with spaces, got %q", text)
	}
}

func TestVisibleText_PlainTextPassesThrough(t *testing.T) {
	text, err := VisibleText("just plain words")
	if err != nil {
		t.Fatalf("VisibleText failed: %v", err)
	}
	if text != "just plain words" {
		t.Errorf("Expected plain text unchanged, got %q", text)
	}
}

package styles

import (
	"strings"
	"testing"
)

func TestRenderPlain(t *testing.T) {
	t.Setenv("ARMDIS_NO_COLOR", "1")
	out := Render("# LDR\n\n| field | value |\n|---|---|\n| Rt | r0 |\n", 80)
	for _, want := range []string{"LDR", "field", "Rt", "r0"} {
		if !strings.Contains(out, want) {
			t.Errorf("rendered markdown missing %q:\n%s", want, out)
		}
	}
}

func TestMarkdownRenderer(t *testing.T) {
	r, err := MarkdownRenderer(60)
	if err != nil || r == nil {
		t.Fatalf("MarkdownRenderer: %v", err)
	}
}

package vector

import (
	"errors"
	"strings"
	"testing"
)

const sampleSVG = `<svg xmlns="http://www.w3.org/2000/svg" width="200" height="100" viewBox="0 0 200 100"><circle cx="100" cy="50" r="40" fill="#336698"/><path d="M10 10 L190 90"/></svg>`

func TestIsSVG(t *testing.T) {
	tests := []struct {
		name string
		data string
		want bool
	}{
		{"plain root", `<svg width="1" height="1"></svg>`, true},
		{"self closed", `<svg/>`, true},
		{"xml declaration", `<?xml version="1.0"?><svg></svg>`, true},
		{"doctype and comment", "<!DOCTYPE svg>\n<!-- generator -->\n<svg></svg>", true},
		{"leading whitespace", "\n\t  <svg></svg>", true},
		{"utf8 bom", "\xef\xbb\xbf<svg></svg>", true},
		{"png magic", "\x89PNG\r\n\x1a\n", false},
		{"html", "<html><body></body></html>", false},
		{"svga element is not svg", "<svga></svga>", false},
		{"empty", "", false},
		{"jpeg bytes", "\xff\xd8\xff\xe0", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsSVG([]byte(tt.data)); got != tt.want {
				t.Errorf("IsSVG = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDimensions(t *testing.T) {
	tests := []struct {
		name         string
		markup       string
		wantW, wantH int
		wantErr      bool
	}{
		{"width and height attrs", sampleSVG, 200, 100, false},
		{"px units", `<svg width="300px" height="150px"></svg>`, 300, 150, false},
		{"viewBox only", `<svg viewBox="0 0 640 480"></svg>`, 640, 480, false},
		{"viewBox with commas", `<svg viewBox="0,0,64,48"></svg>`, 64, 48, false},
		{"percent falls back to viewBox", `<svg width="100%" height="100%" viewBox="0 0 50 25"></svg>`, 50, 25, false},
		{"no geometry", `<svg></svg>`, 0, 0, true},
		{"not svg", `<html></html>`, 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h, err := Dimensions([]byte(tt.markup))
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidMarkup) {
					t.Errorf("error = %v, want ErrInvalidMarkup", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Dimensions failed: %v", err)
			}
			if w != tt.wantW || h != tt.wantH {
				t.Errorf("dimensions: got %dx%d, want %dx%d", w, h, tt.wantW, tt.wantH)
			}
		})
	}
}

func TestResize_InnerContentUnchanged(t *testing.T) {
	out, err := Resize([]byte(sampleSVG), 100, 50)
	if err != nil {
		t.Fatalf("Resize failed: %v", err)
	}

	origDoc, err := parseDocument([]byte(sampleSVG))
	if err != nil {
		t.Fatalf("failed to parse input: %v", err)
	}
	outDoc, err := parseDocument(out)
	if err != nil {
		t.Fatalf("failed to parse output: %v", err)
	}

	if outDoc.inner != origDoc.inner {
		t.Errorf("inner content changed:\n got: %s\nwant: %s", outDoc.inner, origDoc.inner)
	}
}

func TestResize_RewritesRootGeometry(t *testing.T) {
	out, err := Resize([]byte(sampleSVG), 100, 50)
	if err != nil {
		t.Fatalf("Resize failed: %v", err)
	}

	w, h, err := Dimensions(out)
	if err != nil {
		t.Fatalf("Dimensions failed: %v", err)
	}
	if w != 100 || h != 50 {
		t.Errorf("dimensions: got %dx%d, want 100x50", w, h)
	}

	// The original coordinate space must survive so content rescales.
	doc, _ := parseDocument(out)
	vb, ok := attrValue(viewBoxRe, doc.attrs)
	if !ok {
		t.Fatal("viewBox missing from resized root")
	}
	if _, _, vw, vh, _ := parseViewBox(vb); vw != 200 || vh != 100 {
		t.Errorf("viewBox extent: got %vx%v, want original 200x100", vw, vh)
	}
}

func TestResize_SynthesizesViewBox(t *testing.T) {
	in := `<svg width="400" height="200"><rect width="10" height="10"/></svg>`

	out, err := Resize([]byte(in), 200, 100)
	if err != nil {
		t.Fatalf("Resize failed: %v", err)
	}
	doc, _ := parseDocument(out)
	vb, ok := attrValue(viewBoxRe, doc.attrs)
	if !ok {
		t.Fatal("viewBox not synthesized")
	}
	if _, _, vw, vh, _ := parseViewBox(vb); vw != 400 || vh != 200 {
		t.Errorf("synthesized viewBox: got %vx%v, want 400x200", vw, vh)
	}
}

func TestResize_DefaultsViewBoxToTarget(t *testing.T) {
	in := `<svg><rect width="10" height="10"/></svg>`

	out, err := Resize([]byte(in), 64, 32)
	if err != nil {
		t.Fatalf("Resize failed: %v", err)
	}
	doc, _ := parseDocument(out)
	vb, _ := attrValue(viewBoxRe, doc.attrs)
	if _, _, vw, vh, _ := parseViewBox(vb); vw != 64 || vh != 32 {
		t.Errorf("defaulted viewBox: got %vx%v, want 64x32", vw, vh)
	}
}

func TestResize_PreservesProlog(t *testing.T) {
	in := `<?xml version="1.0" encoding="UTF-8"?><svg width="10" height="10"></svg>`

	out, err := Resize([]byte(in), 5, 5)
	if err != nil {
		t.Fatalf("Resize failed: %v", err)
	}
	if !strings.HasPrefix(string(out), `<?xml version="1.0" encoding="UTF-8"?>`) {
		t.Errorf("XML declaration lost: %s", out)
	}
}

func TestResize_InvalidInput(t *testing.T) {
	if _, err := Resize([]byte("not markup"), 10, 10); !errors.Is(err, ErrInvalidMarkup) {
		t.Errorf("error = %v, want ErrInvalidMarkup", err)
	}
	if _, err := Resize([]byte(sampleSVG), 0, 10); err == nil {
		t.Error("Resize should reject non-positive dimensions")
	}
}

func TestExtend_CentersContent(t *testing.T) {
	out, err := Extend([]byte(sampleSVG), 400, 300)
	if err != nil {
		t.Fatalf("Extend failed: %v", err)
	}
	s := string(out)

	// 200x100 original in a 400x300 canvas: offsets (100, 100).
	if !strings.Contains(s, "translate(100,100)") {
		t.Errorf("missing centering translation: %s", s)
	}
	if !strings.Contains(s, `viewBox="0 0 400 300"`) {
		t.Errorf("missing target viewBox: %s", s)
	}
	if !strings.Contains(s, "<circle") || !strings.Contains(s, "<path") {
		t.Errorf("original content missing: %s", s)
	}
}

func TestExtend_BackgroundRect(t *testing.T) {
	out, err := Extend([]byte(sampleSVG), 300, 200)
	if err != nil {
		t.Fatalf("Extend failed: %v", err)
	}
	s := string(out)

	// First fill in document order is the circle's #336698.
	if !strings.Contains(s, "#336698") {
		t.Errorf("detected background color not applied: %s", s)
	}
	if !strings.Contains(s, "<rect") {
		t.Errorf("background rectangle missing: %s", s)
	}
}

func TestExtend_FlooredOffsets(t *testing.T) {
	in := `<svg xmlns="http://www.w3.org/2000/svg" width="100" height="100"></svg>`

	out, err := Extend([]byte(in), 101, 104)
	if err != nil {
		t.Fatalf("Extend failed: %v", err)
	}
	if !strings.Contains(string(out), "translate(0,2)") {
		t.Errorf("offsets should floor to (0,2): %s", out)
	}
}

func TestExtend_InvalidInput(t *testing.T) {
	if _, err := Extend([]byte(`<svg></svg>`), 100, 100); !errors.Is(err, ErrInvalidMarkup) {
		t.Errorf("error = %v, want ErrInvalidMarkup (no dimensions)", err)
	}
}

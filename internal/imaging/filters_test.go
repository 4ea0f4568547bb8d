package imaging

import (
	"image/color"
	"testing"
)

func TestSharpen_PreservesDimensions(t *testing.T) {
	img := createPatternImage(64, 48)

	out := Sharpen(img, 2.0)
	if out.Bounds().Dx() != 64 || out.Bounds().Dy() != 48 {
		t.Errorf("dimensions: got %dx%d, want 64x48", out.Bounds().Dx(), out.Bounds().Dy())
	}
}

func TestSharpen_ZeroAmountIsNoop(t *testing.T) {
	img := createPatternImage(32, 32)

	if out := Sharpen(img, 0); out != img {
		t.Error("amount 0 should return the source unchanged")
	}
}

func TestApplyFilter(t *testing.T) {
	img := createPatternImage(40, 40)

	filters := []string{
		"grayscale", "sepia", "invert", "blur", "edge-detect",
		"brightness", "contrast", "saturation",
	}
	for _, name := range filters {
		t.Run(name, func(t *testing.T) {
			out, err := ApplyFilter(img, name, 0.5)
			if err != nil {
				t.Fatalf("ApplyFilter(%s) failed: %v", name, err)
			}
			if out.Bounds().Dx() != 40 || out.Bounds().Dy() != 40 {
				t.Errorf("dimensions changed: got %dx%d", out.Bounds().Dx(), out.Bounds().Dy())
			}
		})
	}
}

func TestApplyFilter_Invert(t *testing.T) {
	img := createInMemoryImage(10, 10, color.RGBA{0, 0, 0, 255})

	out, err := ApplyFilter(img, "invert", 0)
	if err != nil {
		t.Fatalf("ApplyFilter failed: %v", err)
	}
	r, _, _, _ := out.At(5, 5).RGBA()
	if r>>8 != 255 {
		t.Errorf("inverted black: got R=%d, want 255", r>>8)
	}
}

func TestApplyFilter_Unknown(t *testing.T) {
	img := createInMemoryImage(10, 10, color.RGBA{0, 0, 0, 255})

	if _, err := ApplyFilter(img, "posterize", 0); err == nil {
		t.Error("ApplyFilter should fail for unknown filter name")
	}
}

func TestRotateFlip(t *testing.T) {
	img := createPatternImage(60, 40)

	tests := []struct {
		name         string
		rotate       int
		flipH, flipV bool
		wantW, wantH int
	}{
		{"no-op", 0, false, false, 60, 40},
		{"rotate 90 swaps axes", 90, false, false, 40, 60},
		{"rotate 180 keeps axes", 180, false, false, 60, 40},
		{"rotate 270 swaps axes", 270, false, false, 40, 60},
		{"flip only", 0, true, true, 60, 40},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := RotateFlip(img, tt.rotate, tt.flipH, tt.flipV)
			if err != nil {
				t.Fatalf("RotateFlip failed: %v", err)
			}
			if out.Bounds().Dx() != tt.wantW || out.Bounds().Dy() != tt.wantH {
				t.Errorf("dimensions: got %dx%d, want %dx%d",
					out.Bounds().Dx(), out.Bounds().Dy(), tt.wantW, tt.wantH)
			}
		})
	}
}

func TestRotateFlip_90Clockwise(t *testing.T) {
	// Red top-left quadrant moves to the top-right under a clockwise turn.
	img := createPatternImage(40, 40)

	out, err := RotateFlip(img, 90, false, false)
	if err != nil {
		t.Fatalf("RotateFlip failed: %v", err)
	}
	r, g, _, _ := out.At(39, 0).RGBA()
	if r>>8 != 255 || g>>8 != 0 {
		t.Errorf("top-right after 90cw: got (%d,%d), want red", r>>8, g>>8)
	}
}

func TestRotateFlip_InvalidAngle(t *testing.T) {
	img := createInMemoryImage(10, 10, color.RGBA{0, 0, 0, 255})

	if _, err := RotateFlip(img, 45, false, false); err == nil {
		t.Error("RotateFlip should fail for unsupported angle")
	}
}

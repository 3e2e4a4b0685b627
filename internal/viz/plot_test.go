package viz

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestTrace(t *testing.T) {
	out := Trace("temperature", []float64{1.0, 1.1, 0.9, 1.05})
	if !strings.Contains(out, "temperature") {
		t.Errorf("caption missing from plot:\n%s", out)
	}

	if out := Trace("x", []float64{1.0}); out != "" {
		t.Errorf("single-sample trace should render nothing, got %q", out)
	}
}

func TestSavePNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trace.png")
	xs := []float64{0, 1, 2, 3}
	ys := []float64{1.0, 1.2, 0.9, 1.1}

	if err := SavePNG(xs, ys, "temperature", "t", "T", path); err != nil {
		t.Fatalf("save png: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Size() == 0 {
		t.Error("empty png written")
	}
}

func TestSavePNGMismatchedLengths(t *testing.T) {
	if err := SavePNG([]float64{1}, []float64{1, 2}, "", "", "", "x.png"); err == nil {
		t.Fatal("accepted mismatched trace lengths")
	}
}

package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/afalcongonzalez/chromaviews/internal/analyzer"
	"github.com/afalcongonzalez/chromaviews/internal/colorspace"
	"github.com/afalcongonzalez/chromaviews/internal/names"
	"github.com/afalcongonzalez/chromaviews/internal/palette"
)

var testInfo = BuildInfo{Version: "1.0.0", BuildTime: "today", GitCommit: "abc123"}

// runCmd executes the root command in a scratch directory so no stray .env
// file is picked up.
func runCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	testChdir(t, t.TempDir())

	var out, errOut bytes.Buffer
	cmd := NewRootCmd(testInfo)
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

// createPatternImage writes an image with a different color in each quadrant.
func createPatternImage(t *testing.T, width, height int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var c color.Color
			if x < width/2 && y < height/2 {
				c = color.RGBA{255, 0, 0, 255} // Red top-left
			} else if x >= width/2 && y < height/2 {
				c = color.RGBA{0, 255, 0, 255} // Green top-right
			} else if x < width/2 && y >= height/2 {
				c = color.RGBA{0, 0, 255, 255} // Blue bottom-left
			} else {
				c = color.RGBA{255, 255, 255, 255} // White bottom-right
			}
			img.Set(x, y, c)
		}
	}

	path := filepath.Join(t.TempDir(), "pattern.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestVersionCmd(t *testing.T) {
	out, err := runCmd(t, "version")
	if err != nil {
		t.Fatalf("version failed: %v", err)
	}
	for _, want := range []string{"chromaviews 1.0.0", "Build time: today", "Git commit: abc123"} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q missing %q", out, want)
		}
	}
}

func TestNameCmd(t *testing.T) {
	out, err := runCmd(t, "name", "FF0000")
	if err != nil {
		t.Fatalf("name failed: %v", err)
	}
	if !strings.Contains(out, "Red (red)") || !strings.Contains(out, "ΔE 0.00") {
		t.Errorf("unexpected output %q", out)
	}

	out, err = runCmd(t, "name", "#4682b4", "--format", "json")
	if err != nil {
		t.Fatalf("name --format json failed: %v", err)
	}
	var m names.Match
	if err := json.Unmarshal([]byte(out), &m); err != nil {
		t.Fatalf("invalid JSON %q: %v", out, err)
	}
	if m.Name != "steel blue" || m.Primary != "Blue" {
		t.Errorf("got %+v", m)
	}
}

func TestNameCmd_Errors(t *testing.T) {
	if _, err := runCmd(t, "name", "ZZZZZZ"); !errors.Is(err, colorspace.ErrInvalidHex) {
		t.Errorf("error %v, want ErrInvalidHex", err)
	}
	if _, err := runCmd(t, "name", "FF0000", "--format", "yaml"); err == nil {
		t.Error("expected error for unknown format")
	}
	if _, err := runCmd(t, "name"); err == nil {
		t.Error("expected error without an argument")
	}
}

func TestNameCmd_NamesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "names.json")
	content := `[{"name": "studio slate", "hex": "#123457"}]`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("NAMES_FILE", path)

	out, err := runCmd(t, "name", "123457", "--format", "json")
	if err != nil {
		t.Fatalf("name failed: %v", err)
	}
	var m names.Match
	if err := json.Unmarshal([]byte(out), &m); err != nil {
		t.Fatal(err)
	}
	if m.Name != "studio slate" || m.DeltaE != 0 {
		t.Errorf("got %+v, want the extra name", m)
	}

	t.Setenv("NAMES_FILE", filepath.Join(t.TempDir(), "missing.json"))
	if _, err := runCmd(t, "name", "123457"); err == nil {
		t.Error("expected error for a missing names file")
	}
}

func TestAnalyzeCmd_JSON(t *testing.T) {
	img := createPatternImage(t, 40, 40)

	out, err := runCmd(t, "analyze", "-k", "4", "--no-enhance", "--format", "json", img)
	if err != nil {
		t.Fatalf("analyze failed: %v", err)
	}

	var res analyzer.Result
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if res.Width != 40 || res.Height != 40 {
		t.Errorf("size %dx%d", res.Width, res.Height)
	}

	got := make(map[string]string)
	for _, p := range res.Palette {
		got[p.Hex] = p.Name
	}
	want := map[string]string{
		"#ff0000": "Red (red)",
		"#00ff00": "Lime (lime)",
		"#0000ff": "Blue (blue)",
		"#ffffff": "White (white)",
	}
	for hex, name := range want {
		if got[hex] != name {
			t.Errorf("%s: got %q, want %q", hex, got[hex], name)
		}
	}
}

func TestAnalyzeCmd_TextAndOverlay(t *testing.T) {
	img := createPatternImage(t, 60, 30)
	overlay := filepath.Join(t.TempDir(), "marked.png")

	out, err := runCmd(t, "analyze", "-k", "4", "--max-dimension", "30", "--overlay", overlay, img)
	if err != nil {
		t.Fatalf("analyze failed: %v", err)
	}
	if !strings.HasPrefix(out, "Image: 30x15") {
		t.Errorf("output should start with the prepared size: %q", out)
	}
	if !strings.Contains(out, "sample at (") {
		t.Errorf("output lists no samples: %q", out)
	}
	if strings.Contains(out, "\033[") {
		t.Error("non-terminal output should not contain escape codes")
	}

	f, err := os.Open(overlay)
	if err != nil {
		t.Fatalf("overlay not written: %v", err)
	}
	defer f.Close()
	cfg, err := png.DecodeConfig(f)
	if err != nil {
		t.Fatalf("overlay is not a PNG: %v", err)
	}
	if cfg.Width != 30 || cfg.Height != 15 {
		t.Errorf("overlay size %dx%d, want 30x15", cfg.Width, cfg.Height)
	}
}

func TestAnalyzeCmd_Errors(t *testing.T) {
	img := createPatternImage(t, 10, 10)

	if _, err := runCmd(t, "analyze", "-k", "2", img); !errors.Is(err, palette.ErrClusterCount) {
		t.Errorf("k=2: error %v, want ErrClusterCount", err)
	}
	if _, err := runCmd(t, "analyze", "--format", "xml", img); err == nil {
		t.Error("expected error for unknown format")
	}
	if _, err := runCmd(t, "analyze", filepath.Join(t.TempDir(), "missing.png")); err == nil {
		t.Error("expected error for missing file")
	}
	if _, err := runCmd(t, "--log-level", "loud", "analyze", img); err == nil {
		t.Error("expected error for an unknown log level")
	}
}

func TestAnalyzeCmd_DefaultKFromEnvironment(t *testing.T) {
	t.Setenv("DEFAULT_K", "40")
	img := createPatternImage(t, 10, 10)

	if _, err := runCmd(t, "analyze", img); err == nil {
		t.Error("an out of range DEFAULT_K should fail validation")
	}
}

func TestSwatch(t *testing.T) {
	c := colorspace.RGB{R: 70, G: 130, B: 180}

	if got := swatch(c, false); got != "    " {
		t.Errorf("plain swatch %q", got)
	}
	if got := swatch(c, true); got != "\033[48;2;70;130;180m    \033[0m" {
		t.Errorf("color swatch %q", got)
	}
	if useColor(&bytes.Buffer{}) {
		t.Error("a buffer is not a terminal")
	}
}

// testChdir changes the working directory to dir for the duration of the
// test and restores it on cleanup (equivalent of testing.T.Chdir, which
// requires Go 1.24).
func testChdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Fatal(err)
		}
	})
}

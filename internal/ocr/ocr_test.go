package ocr

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"
)

type call struct {
	name string
	args []string
}

type fakeRunner struct {
	calls  []call
	stdout string
	stderr string
	err    error
	// onRun lets a test create the files the real binary would have written.
	onRun func(name string, args []string)
}

func (f *fakeRunner) Run(_ context.Context, name string, args ...string) ([]byte, []byte, error) {
	f.calls = append(f.calls, call{name: name, args: args})
	if f.onRun != nil {
		f.onRun(name, args)
	}
	return []byte(f.stdout), []byte(f.stderr), f.err
}

func samplePNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, 4, 4))
	img.Set(1, 1, color.White)
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestRecognizeImageRunsTesseract(t *testing.T) {
	fr := &fakeRunner{stdout: "Hello   world\r\n\n\n\nsecond line  \n"}
	e := NewExtractor(Config{Tesseract: "/opt/tess", Lang: "deu"}, nil).WithRunner(fr)

	got, err := e.RecognizeImage(context.Background(), samplePNG(t))
	if err != nil {
		t.Fatalf("RecognizeImage() error = %v", err)
	}
	if got != "Hello world\n\nsecond line" {
		t.Errorf("RecognizeImage() = %q", got)
	}
	if len(fr.calls) != 1 {
		t.Fatalf("expected 1 call, got %d", len(fr.calls))
	}
	c := fr.calls[0]
	if c.name != "/opt/tess" {
		t.Errorf("binary = %q", c.name)
	}
	want := []string{"stdout", "-l", "deu", "--psm", "6"}
	if !reflect.DeepEqual(c.args[1:], want) {
		t.Errorf("args = %v, want <img> %v", c.args, want)
	}
	if filepath.Ext(c.args[0]) != ".png" {
		t.Errorf("input file = %q, want a .png", c.args[0])
	}
	if _, err := os.Stat(c.args[0]); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("temp image %q was not cleaned up", c.args[0])
	}
}

func TestRecognizeImageConvertsJPEG(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		t.Fatal(err)
	}

	var written []byte
	fr := &fakeRunner{stdout: "ok"}
	fr.onRun = func(_ string, args []string) {
		written, _ = os.ReadFile(args[0])
	}
	e := NewExtractor(Config{}, nil).WithRunner(fr)
	if _, err := e.RecognizeImage(context.Background(), buf.Bytes()); err != nil {
		t.Fatalf("RecognizeImage() error = %v", err)
	}
	if !bytes.HasPrefix(written, pngMagic) {
		t.Error("tesseract input was not re-encoded as PNG")
	}
}

func TestRecognizeImageErrors(t *testing.T) {
	t.Run("undecodable", func(t *testing.T) {
		fr := &fakeRunner{}
		e := NewExtractor(Config{}, nil).WithRunner(fr)
		_, err := e.RecognizeImage(context.Background(), []byte("not an image"))
		if !errors.Is(err, ErrUnsupportedImage) {
			t.Errorf("error = %v, want ErrUnsupportedImage", err)
		}
		if len(fr.calls) != 0 {
			t.Error("tesseract should not run for undecodable input")
		}
	})

	t.Run("tesseract fails", func(t *testing.T) {
		boom := errors.New("exit status 1")
		fr := &fakeRunner{err: boom, stderr: "Error opening data file"}
		e := NewExtractor(Config{}, nil).WithRunner(fr)
		_, err := e.RecognizeImage(context.Background(), samplePNG(t))
		if !errors.Is(err, boom) {
			t.Fatalf("error = %v, want wrapped %v", err, boom)
		}
		if !strings.Contains(err.Error(), "Error opening data file") {
			t.Errorf("stderr missing from error: %v", err)
		}
	})

	t.Run("embedded engine without build tag", func(t *testing.T) {
		if EmbeddedAvailable() {
			t.Skip("built with gosseract")
		}
		e := NewExtractor(Config{Engine: EngineEmbedded}, nil).WithRunner(&fakeRunner{})
		_, err := e.RecognizeImage(context.Background(), samplePNG(t))
		if !errors.Is(err, ErrEngineUnavailable) {
			t.Errorf("error = %v, want ErrEngineUnavailable", err)
		}
	})
}

func TestRenderPage(t *testing.T) {
	page := samplePNG(t)
	fr := &fakeRunner{}
	fr.onRun = func(_ string, args []string) {
		prefix := args[len(args)-1]
		_ = os.WriteFile(prefix+".png", page, 0o600)
	}
	e := NewExtractor(Config{Pdftoppm: "pdftoppm", DPI: 150}, nil).WithRunner(fr)

	got, err := e.RenderPage(context.Background(), "doc.pdf", 3)
	if err != nil {
		t.Fatalf("RenderPage() error = %v", err)
	}
	if !bytes.Equal(got, page) {
		t.Error("RenderPage() returned different bytes")
	}
	args := fr.calls[0].args
	want := []string{"-f", "3", "-l", "3", "-r", "150", "-png", "-singlefile", "doc.pdf"}
	if !reflect.DeepEqual(args[:len(want)], want) {
		t.Errorf("args = %v, want prefix %v", args, want)
	}
}

func TestRenderPageNoOutput(t *testing.T) {
	e := NewExtractor(Config{}, nil).WithRunner(&fakeRunner{})
	if _, err := e.RenderPage(context.Background(), "doc.pdf", 1); err == nil {
		t.Error("expected error when pdftoppm writes nothing")
	}
	if _, err := e.RenderPage(context.Background(), "doc.pdf", 0); err == nil {
		t.Error("expected error for page 0")
	}
}

func TestCommandErrors(t *testing.T) {
	boom := errors.New("exit status 99")
	long := strings.Repeat("é", 400) // 800 bytes

	fr := &fakeRunner{err: boom, stderr: "\n" + long + "\n"}
	e := NewExtractor(Config{Tesseract: "/opt/tess/bin/tesseract", Pdftoppm: "/usr/bin/pdftoppm"}, nil).WithRunner(fr)

	_, err := e.RecognizeImage(context.Background(), samplePNG(t))
	var cmdErr *CommandError
	if !errors.As(err, &cmdErr) {
		t.Fatalf("error = %v, want *CommandError", err)
	}
	if cmdErr.Tool != "tesseract" || !errors.Is(err, boom) {
		t.Errorf("tool = %q, err = %v", cmdErr.Tool, cmdErr.Err)
	}
	want := strings.Repeat("é", 256) + "...(truncated)"
	if cmdErr.Stderr != want {
		t.Errorf("stderr = %q (%d bytes)", cmdErr.Stderr, len(cmdErr.Stderr))
	}

	_, err = e.RenderPage(context.Background(), "doc.pdf", 1)
	if !errors.As(err, &cmdErr) || cmdErr.Tool != "pdftoppm" {
		t.Fatalf("RenderPage error = %v", err)
	}
	if strings.Count(err.Error(), "pdftoppm") != 1 {
		t.Errorf("tool named more than once: %v", err)
	}
}

func TestCommandErrorKeepsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	fr := &fakeRunner{err: errors.New("signal: killed")}
	e := NewExtractor(Config{}, nil).WithRunner(fr)

	_, err := e.RecognizeImage(ctx, samplePNG(t))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

func TestClip(t *testing.T) {
	if got := clip("short", 10); got != "short" {
		t.Errorf("clip = %q", got)
	}
	if got := clip("héllo", 2); got != "h...(truncated)" {
		t.Errorf("clip split a rune: %q", got)
	}
}

func TestNewExtractorDefaults(t *testing.T) {
	cfg := NewExtractor(Config{}, nil).Config()
	if cfg.Tesseract != "tesseract" || cfg.Pdftoppm != "pdftoppm" {
		t.Errorf("binaries = %q, %q", cfg.Tesseract, cfg.Pdftoppm)
	}
	if cfg.Lang != "eng" || cfg.DPI != 300 || cfg.PSM != 6 || cfg.Engine != EngineTesseract {
		t.Errorf("defaults = %+v", cfg)
	}
}

type fakeInfo struct{ dir bool }

func (f fakeInfo) Name() string       { return "tesseract" }
func (f fakeInfo) Size() int64        { return 1 }
func (f fakeInfo) Mode() fs.FileMode  { return 0o755 }
func (f fakeInfo) ModTime() time.Time { return time.Time{} }
func (f fakeInfo) IsDir() bool        { return f.dir }
func (f fakeInfo) Sys() any           { return nil }

func stubLocate(t *testing.T, existing map[string]bool, onPath string) {
	t.Helper()
	oldStat, oldLook := statFn, lookPathFn
	t.Cleanup(func() { statFn, lookPathFn = oldStat, oldLook })
	statFn = func(p string) (fs.FileInfo, error) {
		if existing[p] {
			return fakeInfo{}, nil
		}
		return nil, fs.ErrNotExist
	}
	lookPathFn = func(string) (string, error) {
		if onPath == "" {
			return "", errors.New("not found")
		}
		return onPath, nil
	}
}

func TestLocate(t *testing.T) {
	t.Run("override wins", func(t *testing.T) {
		stubLocate(t, map[string]bool{"/custom/tess": true, "/usr/bin/tesseract": true}, "/bin/tesseract")
		got, err := Locate("/custom/tess")
		if err != nil || got != "/custom/tess" {
			t.Errorf("Locate() = %q, %v", got, err)
		}
	})
	t.Run("missing override is an error", func(t *testing.T) {
		stubLocate(t, map[string]bool{"/usr/bin/tesseract": true}, "")
		if _, err := Locate("/nope"); err == nil {
			t.Error("expected error")
		}
	})
	t.Run("well-known path in order", func(t *testing.T) {
		stubLocate(t, map[string]bool{"/usr/local/bin/tesseract": true, "/opt/homebrew/bin/tesseract": true}, "/bin/tesseract")
		got, err := Locate("")
		if err != nil || got != "/usr/local/bin/tesseract" {
			t.Errorf("Locate() = %q, %v", got, err)
		}
	})
	t.Run("falls back to PATH", func(t *testing.T) {
		stubLocate(t, nil, "/snap/bin/tesseract")
		got, err := Locate("")
		if err != nil || got != "/snap/bin/tesseract" {
			t.Errorf("Locate() = %q, %v", got, err)
		}
	})
	t.Run("nothing found", func(t *testing.T) {
		stubLocate(t, nil, "")
		if _, err := Locate(""); err == nil {
			t.Error("expected error")
		}
	})
}

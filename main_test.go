package main

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"newsCaster/overlay"
	"newsCaster/segment"
)

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	t.Setenv(envFontPath, "")
	full := append([]string{"-config", filepath.Join(t.TempDir(), "none.yaml")}, args...)
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), full, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func writeBackground(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for p := 0; p < len(img.Pix); p += 4 {
		copy(img.Pix[p:p+4], []uint8{0x20, 0x40, 0x60, 0xff})
	}
	img.SetNRGBA(0, 0, color.NRGBA{R: 0xff, A: 0xff})
	if err := overlay.EncodeFile(path, img); err != nil {
		t.Fatalf("EncodeFile(%q) error = %v", path, err)
	}
}

func TestRunUsage(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want int
	}{
		{"no command", nil, exitUsage},
		{"unknown command", []string{"render"}, exitUsage},
		{"bad global flag", []string{"-nope", "split"}, exitUsage},
		{"bad command flag", []string{"split", "-nope"}, exitUsage},
		{"stray argument", []string{"pair", "extra"}, exitUsage},
		{"help", []string{"-h"}, exitOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if code, _, _ := runCLI(t, tt.args...); code != tt.want {
				t.Fatalf("run(%v) = %d, want %d", tt.args, code, tt.want)
			}
		})
	}
}

func TestRunInvalidConfig(t *testing.T) {
	t.Setenv(envFontPath, "")
	path := writeConfig(t, "workers: -2\n")
	var stdout, stderr bytes.Buffer
	if code := run(context.Background(), []string{"-config", path, "split"}, &stdout, &stderr); code != exitError {
		t.Fatalf("run() = %d, want %d", code, exitError)
	}
}

func TestPipelineCommands(t *testing.T) {
	root := t.TempDir()
	script := filepath.Join(root, "latest.txt")
	subtitles := filepath.Join(root, "subtitle")
	pictures := filepath.Join(root, "picture")
	resized := filepath.Join(root, "resized")
	composited := filepath.Join(root, "textAdded")
	audio := filepath.Join(root, "audio")
	manifest := filepath.Join(root, "manifest.yaml")

	if err := os.WriteFile(script, []byte("Markets rally\nTech leads\n\n\nRates hold steady\n"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	code, out, _ := runCLI(t, "split", "-script", script, "-out", subtitles)
	if code != exitOK || !strings.Contains(out, "wrote 2 segments") {
		t.Fatalf("split = %d %q", code, out)
	}

	writeBackground(t, filepath.Join(pictures, "harbour.png"), 120, 90)
	writeBackground(t, filepath.Join(pictures, "skyline.bmp"), 90, 120)
	code, out, _ = runCLI(t, "prepare", "-src", pictures, "-out", resized, "-width", "320", "-height", "180")
	if code != exitOK || !strings.Contains(out, "prepared 2/2 backgrounds") {
		t.Fatalf("prepare = %d %q", code, out)
	}

	code, out, _ = runCLI(t, "compose", "-text", subtitles, "-backgrounds", resized, "-out", composited,
		"-workers", "2", "-seed", "3", "-date", "2026-10-17")
	if code != exitOK || !strings.Contains(out, "composited 2/2 segments") {
		t.Fatalf("compose = %d %q", code, out)
	}
	for _, stem := range []string{"1", "2"} {
		img, err := overlay.DecodeFile(filepath.Join(composited, stem+".png"))
		if err != nil {
			t.Fatalf("DecodeFile(%s.png) error = %v", stem, err)
		}
		if img.Bounds().Dx() != 320 || img.Bounds().Dy() != 180 {
			t.Fatalf("%s.png bounds = %v, want 320x180", stem, img.Bounds())
		}
	}

	for _, name := range []string{"1.mp3", "2.wav", "3.mp3"} {
		path := filepath.Join(audio, name)
		if err := os.MkdirAll(audio, 0o755); err != nil {
			t.Fatalf("MkdirAll() error = %v", err)
		}
		if err := os.WriteFile(path, []byte("ID3"), 0o644); err != nil {
			t.Fatalf("WriteFile() error = %v", err)
		}
	}
	code, out, _ = runCLI(t, "pair", "-images", composited, "-audio", audio, "-out", manifest)
	if code != exitOK || !strings.Contains(out, "paired 2 segments") {
		t.Fatalf("pair = %d %q", code, out)
	}
	got, err := segment.ReadManifest(manifest)
	if err != nil {
		t.Fatalf("ReadManifest() error = %v", err)
	}
	if len(got.Segments) != 2 || got.Segments[0].Stem != "1" || got.Segments[1].Stem != "2" {
		t.Fatalf("manifest = %+v, want stems 1 and 2", got.Segments)
	}
}

func TestComposeEmptySubtitlesSucceeds(t *testing.T) {
	root := t.TempDir()
	code, out, _ := runCLI(t, "compose", "-text", filepath.Join(root, "subtitle"), "-backgrounds", root, "-out", filepath.Join(root, "out"))
	if code != exitOK {
		t.Fatalf("compose = %d, want %d", code, exitOK)
	}
	if !strings.Contains(out, "composited 0/0 segments") {
		t.Fatalf("compose output = %q", out)
	}
}

func TestComposeReportsFailuresWithoutFailing(t *testing.T) {
	root := t.TempDir()
	subtitles, backgrounds, output := filepath.Join(root, "subtitle"), filepath.Join(root, "bg"), filepath.Join(root, "out")
	if _, err := segment.WriteSegments(subtitles, []string{"one", "two"}); err != nil {
		t.Fatalf("WriteSegments() error = %v", err)
	}
	writeBackground(t, filepath.Join(backgrounds, "plain.png"), 200, 120)
	if err := os.MkdirAll(filepath.Join(output, "1.png"), 0o755); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}

	code, out, _ := runCLI(t, "compose", "-text", subtitles, "-backgrounds", backgrounds, "-out", output)
	if code != exitOK {
		t.Fatalf("compose = %d, want %d", code, exitOK)
	}
	if !strings.Contains(out, "Failed") || !strings.Contains(out, "composited 1/2 segments") {
		t.Fatalf("compose output = %q", out)
	}
}

func TestComposeRejectsBadDate(t *testing.T) {
	if code, _, _ := runCLI(t, "compose", "-date", "17/10/2026"); code != exitError {
		t.Fatalf("compose = %d, want %d", code, exitError)
	}
}

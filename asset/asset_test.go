package asset

import (
	"bytes"
	"context"
	"errors"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/gogpu/gradient"
)

type fakeEditor struct {
	uploaded []Asset
	inserted []Ref
	ref      Ref
	upErr    error
	insErr   error
}

func (f *fakeEditor) Upload(_ context.Context, a Asset) (Ref, error) {
	f.uploaded = append(f.uploaded, a)
	return f.ref, f.upErr
}

func (f *fakeEditor) Insert(_ context.Context, kind Kind, ref Ref) error {
	if kind != KindImage {
		return errors.New("unexpected kind")
	}
	f.inserted = append(f.inserted, ref)
	return f.insErr
}

func testImage(t *testing.T) *gradient.Pixmap {
	t.Helper()
	stops := []gradient.ColorStop{
		{Color: gradient.Hex("#22577A"), Position: 0},
		{Color: gradient.Hex("#57CC99"), Position: 100},
	}
	pm, err := gradient.RenderExport(stops, gradient.ImageSpec{Width: 16, Height: 8, Angle: 90})
	if err != nil {
		t.Fatalf("RenderExport() error = %v", err)
	}
	return pm
}

func TestFromImage(t *testing.T) {
	a, err := FromImage(testImage(t))
	if err != nil {
		t.Fatalf("FromImage() error = %v", err)
	}
	if a.Kind != KindImage || a.MimeType != "image/png" {
		t.Errorf("FromImage() = kind %q mime %q", a.Kind, a.MimeType)
	}
	if !strings.HasPrefix(a.URL, "data:image/png;base64,") {
		t.Errorf("URL = %.40q...", a.URL)
	}
	if a.ThumbnailURL != a.URL {
		t.Error("thumbnail differs from url")
	}
}

func TestAddToDesign(t *testing.T) {
	ed := &fakeEditor{ref: "r1"}
	ref, err := AddToDesign(context.Background(), ed, ed, testImage(t))
	if err != nil {
		t.Fatalf("AddToDesign() error = %v", err)
	}
	if ref != "r1" {
		t.Errorf("ref = %q, want r1", ref)
	}
	if len(ed.uploaded) != 1 {
		t.Errorf("uploaded %d assets, want 1", len(ed.uploaded))
	}
	if diff := cmp.Diff([]Ref{"r1"}, ed.inserted); diff != "" {
		t.Errorf("inserted mismatch (-want +got):\n%s", diff)
	}
}

func TestAddToDesign_Errors(t *testing.T) {
	boom := errors.New("boom")
	tests := []struct {
		name string
		ed   *fakeEditor
		want error
	}{
		{"upload fails", &fakeEditor{ref: "r", upErr: boom}, boom},
		{"empty ref", &fakeEditor{}, ErrNoRef},
		{"insert fails", &fakeEditor{ref: "r", insErr: boom}, boom},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := AddToDesign(context.Background(), tt.ed, tt.ed, testImage(t))
			if !errors.Is(err, tt.want) {
				t.Errorf("AddToDesign() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestDirStore(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "store")
	s, err := NewDirStore(dir)
	if err != nil {
		t.Fatalf("NewDirStore() error = %v", err)
	}
	if s.Dir() != dir {
		t.Errorf("Dir() = %q", s.Dir())
	}

	img := testImage(t)
	ref, err := AddToDesign(context.Background(), s, s, img)
	if err != nil {
		t.Fatalf("AddToDesign() error = %v", err)
	}
	again, err := AddToDesign(context.Background(), s, s, img)
	if err != nil {
		t.Fatalf("second AddToDesign() error = %v", err)
	}
	if again != ref {
		t.Errorf("same image gave refs %q and %q", ref, again)
	}

	placed, err := s.Placements()
	if err != nil {
		t.Fatalf("Placements() error = %v", err)
	}
	want := []Placement{
		{Kind: KindImage, Ref: ref, File: string(ref) + ".png"},
		{Kind: KindImage, Ref: ref, File: string(ref) + ".png"},
	}
	if diff := cmp.Diff(want, placed); diff != "" {
		t.Errorf("Placements() mismatch (-want +got):\n%s", diff)
	}

	data, err := os.ReadFile(filepath.Join(dir, string(ref)+".png"))
	if err != nil {
		t.Fatalf("uploaded file: %v", err)
	}
	decoded, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("uploaded file is not PNG: %v", err)
	}
	if decoded.Bounds() != img.Bounds() {
		t.Errorf("uploaded bounds = %v, want %v", decoded.Bounds(), img.Bounds())
	}
}

func TestDirStore_Errors(t *testing.T) {
	s, err := NewDirStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	for _, url := range []string{
		"https://example.com/a.png",
		"data:image/png;base64",
		"data:image/png,raw",
		"data:image/png;base64,!!!",
	} {
		if _, err := s.Upload(ctx, Asset{URL: url}); !errors.Is(err, ErrBadURL) {
			t.Errorf("Upload(%q) error = %v, want ErrBadURL", url, err)
		}
	}
	if _, err := s.Upload(ctx, Asset{MimeType: "image/bmp", URL: "data:image/png;base64,AAAA"}); !errors.Is(err, ErrBadURL) {
		t.Errorf("Upload() with mismatched mime error = %v, want ErrBadURL", err)
	}
	if err := s.Insert(ctx, KindImage, "deadbeefdeadbeef"); err == nil {
		t.Error("Insert() of an unknown ref succeeded")
	}

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	if _, err := s.Upload(cancelled, Asset{URL: "data:image/png;base64,AAAA"}); !errors.Is(err, context.Canceled) {
		t.Errorf("Upload() with cancelled context error = %v", err)
	}
}

func TestDirStore_RejectsMalformedRefs(t *testing.T) {
	dir := t.TempDir()
	s, err := NewDirStore(filepath.Join(dir, "store"))
	if err != nil {
		t.Fatal(err)
	}
	// A file outside the store that a loose pattern would reach.
	if err := os.WriteFile(filepath.Join(dir, "x.png"), []byte("png"), 0o600); err != nil {
		t.Fatal(err)
	}
	ref, err := AddToDesign(context.Background(), s, s, testImage(t))
	if err != nil {
		t.Fatalf("AddToDesign() error = %v", err)
	}

	for _, bad := range []Ref{"*", "../x", "deadbeef", "DEADBEEFDEADBEEF", "0123456789abcdeg", ref + "0"} {
		if err := s.Insert(context.Background(), KindImage, bad); !errors.Is(err, ErrBadRef) {
			t.Errorf("Insert(%q) error = %v, want ErrBadRef", bad, err)
		}
	}

	placed, err := s.Placements()
	if err != nil {
		t.Fatal(err)
	}
	if len(placed) != 1 || placed[0].Ref != ref {
		t.Errorf("Placements() = %+v, want only %q", placed, ref)
	}
}

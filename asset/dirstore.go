package asset

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// ManifestName is the file in which DirStore records inserted assets.
const ManifestName = "design.yaml"

var (
	// ErrBadURL is returned for asset URLs DirStore cannot read.
	ErrBadURL = errors.New("asset: unsupported url")

	// ErrBadRef is returned for refs DirStore could not have issued.
	ErrBadRef = errors.New("asset: malformed ref")
)

// refLen is the length of a DirStore ref: 8 hash bytes in lowercase hex.
const refLen = 16

// Placement is one entry of a DirStore manifest.
type Placement struct {
	Kind Kind   `yaml:"kind"`
	Ref  Ref    `yaml:"ref"`
	File string `yaml:"file"`
}

// DirStore uploads assets as files in a directory and records insertions in
// a YAML manifest next to them. It is safe for concurrent use.
type DirStore struct {
	dir string

	mu sync.Mutex
}

// NewDirStore creates dir if needed and returns a store rooted at it.
func NewDirStore(dir string) (*DirStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("asset: create store: %w", err)
	}
	return &DirStore{dir: dir}, nil
}

// Dir returns the store directory.
func (s *DirStore) Dir() string { return s.dir }

// Upload decodes the asset's base64 data URI and writes it to a file named by
// its content hash. Uploading the same image twice yields the same ref.
func (s *DirStore) Upload(ctx context.Context, a Asset) (Ref, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	mime, data, err := decodeDataURI(a.URL)
	if err != nil {
		return "", err
	}
	if a.MimeType != "" && a.MimeType != mime {
		return "", fmt.Errorf("%w: mime %q does not match url %q", ErrBadURL, a.MimeType, mime)
	}

	sum := sha256.Sum256(data)
	ref := Ref(hex.EncodeToString(sum[:refLen/2]))
	name := string(ref) + extOf(mime)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0o644); err != nil { //nolint:gosec // rendered images are not secret
		return "", fmt.Errorf("asset: write: %w", err)
	}
	return ref, nil
}

// Insert appends ref to the manifest. The ref must name an uploaded file.
func (s *DirStore) Insert(ctx context.Context, kind Kind, ref Ref) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	file, err := s.fileOf(ref)
	if err != nil {
		return err
	}
	placed, err := s.readManifest()
	if err != nil {
		return err
	}
	placed = append(placed, Placement{Kind: kind, Ref: ref, File: file})
	data, err := yaml.Marshal(placed)
	if err != nil {
		return fmt.Errorf("asset: encode manifest: %w", err)
	}
	if err := os.WriteFile(filepath.Join(s.dir, ManifestName), data, 0o644); err != nil { //nolint:gosec // manifest is not secret
		return fmt.Errorf("asset: write manifest: %w", err)
	}
	return nil
}

// Placements returns the manifest entries in insertion order.
func (s *DirStore) Placements() ([]Placement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readManifest()
}

func (s *DirStore) readManifest() ([]Placement, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, ManifestName))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("asset: read manifest: %w", err)
	}
	var placed []Placement
	if err := yaml.Unmarshal(data, &placed); err != nil {
		return nil, fmt.Errorf("asset: decode manifest: %w", err)
	}
	return placed, nil
}

func (s *DirStore) fileOf(ref Ref) (string, error) {
	if !validRef(ref) {
		return "", fmt.Errorf("%w: %q", ErrBadRef, ref)
	}
	matches, err := filepath.Glob(filepath.Join(s.dir, string(ref)+".*"))
	if err != nil {
		return "", fmt.Errorf("asset: lookup %s: %w", ref, err)
	}
	for _, m := range matches {
		if filepath.Base(m) != ManifestName {
			return filepath.Base(m), nil
		}
	}
	return "", fmt.Errorf("asset: unknown ref %q", ref)
}

// validRef reports whether ref has the form Upload produces, which also
// keeps it free of glob metacharacters and path separators.
func validRef(ref Ref) bool {
	if len(ref) != refLen {
		return false
	}
	for i := 0; i < len(ref); i++ {
		c := ref[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}

// decodeDataURI splits a base64 data URI into its media type and payload.
func decodeDataURI(uri string) (string, []byte, error) {
	rest, ok := strings.CutPrefix(uri, "data:")
	if !ok {
		return "", nil, fmt.Errorf("%w: not a data uri", ErrBadURL)
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, fmt.Errorf("%w: missing payload", ErrBadURL)
	}
	mime, ok := strings.CutSuffix(meta, ";base64")
	if !ok {
		return "", nil, fmt.Errorf("%w: payload is not base64", ErrBadURL)
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBadURL, err)
	}
	return mime, data, nil
}

func extOf(mime string) string {
	switch mime {
	case "image/png":
		return ".png"
	case "image/bmp":
		return ".bmp"
	case "image/tiff":
		return ".tiff"
	}
	return ".bin"
}

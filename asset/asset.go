// Package asset hands rendered gradients to a host design editor.
//
// The editor is modeled by two collaborators: an Uploader that stores an
// image and returns a reference to it, and an Inserter that places a
// referenced image into the current design. DirStore implements both on a
// local directory.
package asset

import (
	"context"
	"errors"
	"fmt"
	"image"

	"github.com/gogpu/gradient"
)

// Kind is the type of an uploaded asset.
type Kind string

// KindImage is the only kind the renderer produces.
const KindImage Kind = "IMAGE"

// ErrNoRef is returned when an uploader succeeds without a reference.
var ErrNoRef = errors.New("asset: upload returned empty ref")

// Asset describes an image to upload. URL and ThumbnailURL may be data URIs.
type Asset struct {
	Kind         Kind
	MimeType     string
	URL          string
	ThumbnailURL string
}

// Ref identifies an uploaded asset.
type Ref string

// Uploader stores assets.
type Uploader interface {
	Upload(ctx context.Context, a Asset) (Ref, error)
}

// Inserter adds uploaded assets to a design.
type Inserter interface {
	Insert(ctx context.Context, kind Kind, ref Ref) error
}

// FromImage encodes img as a PNG data URI and describes it as an image asset
// whose thumbnail is the image itself.
func FromImage(img image.Image) (Asset, error) {
	uri, err := gradient.DataURI(img, gradient.FormatPNG)
	if err != nil {
		return Asset{}, fmt.Errorf("asset: encode: %w", err)
	}
	return Asset{
		Kind:         KindImage,
		MimeType:     gradient.FormatPNG.MIMEType(),
		URL:          uri,
		ThumbnailURL: uri,
	}, nil
}

// AddToDesign uploads img and inserts the result into the design.
func AddToDesign(ctx context.Context, up Uploader, ins Inserter, img image.Image) (Ref, error) {
	a, err := FromImage(img)
	if err != nil {
		return "", err
	}
	ref, err := up.Upload(ctx, a)
	if err != nil {
		return "", fmt.Errorf("asset: upload: %w", err)
	}
	if ref == "" {
		return "", ErrNoRef
	}
	if err := ins.Insert(ctx, a.Kind, ref); err != nil {
		return ref, fmt.Errorf("asset: insert %s: %w", ref, err)
	}
	gradient.Logger().Debug("asset: added to design", "ref", string(ref), "bytes", len(a.URL))
	return ref, nil
}

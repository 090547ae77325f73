// Package imaging turns uploaded photos into bounded JPEG thumbnails.
package imaging

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

const (
	DefaultMaxEdge = 300
	jpegQuality    = 85
)

var ErrUndecodable = errors.New("image could not be decoded")

// Thumbnail decodes r, flattens any transparency onto white and scales the
// result to fit within maxEdge x maxEdge. Images already inside the box are
// re-encoded at their original size.
func Thumbnail(r io.Reader, maxEdge int) ([]byte, error) {
	if maxEdge <= 0 {
		maxEdge = DefaultMaxEdge
	}

	src, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUndecodable, err)
	}

	sb := src.Bounds()
	w, h := fit(sb.Dx(), sb.Dy(), maxEdge)

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), &image.Uniform{C: color.White}, image.Point{}, draw.Src)
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, sb, draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("failed to encode thumbnail: %w", err)
	}
	return buf.Bytes(), nil
}

// fit scales w x h down to fit the box, keeping aspect ratio. It never
// upscales and never returns a zero dimension.
func fit(w, h, maxEdge int) (int, int) {
	if w <= maxEdge && h <= maxEdge {
		return max(w, 1), max(h, 1)
	}
	if w >= h {
		return maxEdge, max(1, (h*maxEdge+w/2)/w)
	}
	return max(1, (w*maxEdge+h/2)/h), maxEdge
}

// EncodeString renders thumbnail bytes for inline use.
func EncodeString(thumb []byte) string {
	return base64.StdEncoding.EncodeToString(thumb)
}

// Normalize is Thumbnail followed by EncodeString.
func Normalize(r io.Reader, maxEdge int) (string, error) {
	thumb, err := Thumbnail(r, maxEdge)
	if err != nil {
		return "", err
	}
	return EncodeString(thumb), nil
}

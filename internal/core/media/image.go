package media

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"

	// decoders registered for image.Decode
	_ "image/gif"
	_ "image/jpeg"

	perr "birdspot/internal/platform/errors"

	"golang.org/x/image/draw"
)

// Photo decodes raw, fits it within MaxImageSize on its longest edge and re-encodes it as PNG
// alpha is dropped and images are never upscaled
// headers declaring more than MaxPixels are rejected before any pixel data is decoded
func (p *Processor) Photo(ctx context.Context, raw []byte) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	hdr, _, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeInvalidArgument, "image could not be decoded")
	}
	if px := int64(hdr.Width) * int64(hdr.Height); px > p.opts.MaxPixels {
		return nil, perr.Newf(perr.ErrorCodeInvalidArgument,
			"image is %dx%d, more than the %d pixel limit", hdr.Width, hdr.Height, p.opts.MaxPixels)
	}
	src, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeInvalidArgument, "image could not be decoded")
	}

	b := src.Bounds()
	w, h := Fit(b.Dx(), b.Dy(), p.opts.MaxImageSize)
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	if w == b.Dx() && h == b.Dy() {
		draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	} else {
		draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)
	}
	opaque(dst)

	var out bytes.Buffer
	enc := png.Encoder{CompressionLevel: png.BestCompression}
	if err := enc.Encode(&out, dst); err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeUnknown, "encode png")
	}
	return out.Bytes(), nil
}

// Fit scales w x h so the longer edge is at most limit, keeping aspect and never upscaling
func Fit(w, h, limit int) (int, int) {
	if limit <= 0 || (w <= limit && h <= limit) {
		return w, h
	}
	if w >= h {
		nh := max(1, (h*limit+w/2)/w)
		return limit, nh
	}
	nw := max(1, (w*limit+h/2)/h)
	return nw, limit
}

func opaque(img *image.NRGBA) {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := img.NRGBAAt(x, y)
			img.SetNRGBA(x, y, color.NRGBA{R: c.R, G: c.G, B: c.B, A: 0xff})
		}
	}
}

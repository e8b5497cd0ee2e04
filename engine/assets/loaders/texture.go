package loaders

import (
	"fmt"
	"image"
	"image/color"

	"golang.org/x/image/draw"

	"github.com/spaghettifunk/orbit/engine/renderer/metadata"
)

type TextureKind int

const (
	TextureSolid TextureKind = iota
	TextureChecker
	// Vertical blend from Color at the top to Alt at the bottom.
	TextureGradient
)

type TextureParams struct {
	Kind TextureKind
	// Size the pattern is generated at.
	Width, Height int
	Color, Alt    color.RGBA
	// Checker cells per side.
	Cells int
	// When set and different from the generated size the pixels are resampled.
	TargetWidth, TargetHeight int
}

// TextureLoader generates textures procedurally; nothing is read from disk.
type TextureLoader struct{}

func (tl *TextureLoader) Load(path string, params interface{}) (*metadata.Resource, error) {
	p, ok := params.(*TextureParams)
	if !ok {
		return nil, fmt.Errorf("texture loader expects *TextureParams, got %T", params)
	}
	if p.Width <= 0 || p.Height <= 0 {
		return nil, fmt.Errorf("invalid texture size %dx%d", p.Width, p.Height)
	}

	img := image.NewRGBA(image.Rect(0, 0, p.Width, p.Height))
	switch p.Kind {
	case TextureSolid:
		draw.Draw(img, img.Bounds(), image.NewUniform(p.Color), image.Point{}, draw.Src)
	case TextureChecker:
		cells := p.Cells
		if cells <= 0 {
			cells = 8
		}
		cw, ch := max(p.Width/cells, 1), max(p.Height/cells, 1)
		for y := 0; y < p.Height; y++ {
			for x := 0; x < p.Width; x++ {
				c := p.Color
				if (x/cw+y/ch)%2 == 1 {
					c = p.Alt
				}
				img.SetRGBA(x, y, c)
			}
		}
	case TextureGradient:
		for y := 0; y < p.Height; y++ {
			t := float64(y) / float64(max(p.Height-1, 1))
			c := lerpRGBA(p.Color, p.Alt, t)
			for x := 0; x < p.Width; x++ {
				img.SetRGBA(x, y, c)
			}
		}
	default:
		return nil, fmt.Errorf("unknown texture kind %d", p.Kind)
	}

	if p.TargetWidth > 0 && p.TargetHeight > 0 && (p.TargetWidth != p.Width || p.TargetHeight != p.Height) {
		img = Resample(img, p.TargetWidth, p.TargetHeight, p.Kind == TextureChecker)
	}

	return &metadata.Resource{
		Name:     path,
		FullPath: path,
		Type:     metadata.ResourceTypeImage,
		DataSize: uint64(len(img.Pix)),
		Data:     img,
	}, nil
}

func (tl *TextureLoader) Unload(res *metadata.Resource) error {
	if res != nil {
		res.Data = nil
	}
	return nil
}

// Resample scales src to width×height. Hard-edged patterns keep their edges
// with nearest neighbour, everything else goes through Catmull-Rom.
func Resample(src *image.RGBA, width, height int, hardEdges bool) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	var scaler draw.Scaler = draw.CatmullRom
	if hardEdges {
		scaler = draw.NearestNeighbor
	}
	scaler.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst
}

func lerpRGBA(a, b color.RGBA, t float64) color.RGBA {
	l := func(x, y uint8) uint8 {
		return uint8(float64(x) + (float64(y)-float64(x))*t + 0.5)
	}
	return color.RGBA{l(a.R, b.R), l(a.G, b.G), l(a.B, b.B), l(a.A, b.A)}
}

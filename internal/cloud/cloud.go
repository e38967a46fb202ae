//    TextAnalysisWorkbench
//    Copyright: E Gunderson 2024-26
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package cloud

import (
	"bytes"
	"errors"
	"image/color"
	"math"
	"unicode/utf8"

	"github.com/e-gun/TextAnalysisWorkbench/internal/vv"
	"github.com/e-gun/TextAnalysisWorkbench/internal/wordfreq"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
)

var ErrNoWords = errors.New("no words to draw")

const (
	PXPERINCH  = 96   // vgimg renders png at 96 dpi
	GLYPHRATIO = 0.6  // average advance width as a share of the font size
	MAXSPIRAL  = 4000 // steps before a word is given up on
)

var palette = []color.Color{
	color.RGBA{R: 0x1f, G: 0x77, B: 0xb4, A: 0xff},
	color.RGBA{R: 0xff, G: 0x7f, B: 0x0e, A: 0xff},
	color.RGBA{R: 0x2c, G: 0xa0, B: 0x2c, A: 0xff},
	color.RGBA{R: 0xd6, G: 0x27, B: 0x28, A: 0xff},
	color.RGBA{R: 0x94, G: 0x67, B: 0xbd, A: 0xff},
	color.RGBA{R: 0x8c, G: 0x56, B: 0x4b, A: 0xff},
}

type Options struct {
	Width      int // pixels
	Height     int
	MaxFont    float64 // pixels
	MinFont    float64
	MaxWords   int
	Background color.Color
}

func DefaultOptions() Options {
	return Options{
		Width:      vv.CLOUDWIDTH,
		Height:     vv.CLOUDHEIGHT,
		MaxFont:    vv.CLOUDMAXFONT,
		MinFont:    vv.CLOUDMINFONT,
		MaxWords:   vv.CLOUDMAXWORDS,
		Background: color.White,
	}
}

// Placed - a word and the box it occupies; x,y is the centre, in pixels from the lower left
type Placed struct {
	Word  string
	Size  float64
	X, Y  float64
	W, H  float64
	Color color.Color
}

func (p Placed) overlaps(o Placed) bool {
	return math.Abs(p.X-o.X)*2 < p.W+o.W && math.Abs(p.Y-o.Y)*2 < p.H+o.H
}

func (p Placed) inside(w, h float64) bool {
	return p.X-p.W/2 >= 0 && p.X+p.W/2 <= w && p.Y-p.H/2 >= 0 && p.Y+p.H/2 <= h
}

// Layout - biggest words first, each walked out along a spiral from the centre until it fits
func Layout(words []wordfreq.WordCount, opt Options) []Placed {
	if len(words) == 0 {
		return nil
	}
	if opt.MaxWords > 0 && len(words) > opt.MaxWords {
		words = words[:opt.MaxWords]
	}

	hi, lo := words[0].Count, words[0].Count
	for _, w := range words {
		hi = max(hi, w.Count)
		lo = min(lo, w.Count)
	}

	size := func(c int) float64 {
		if hi == lo {
			return opt.MaxFont
		}
		return opt.MinFont + (opt.MaxFont-opt.MinFont)*float64(c-lo)/float64(hi-lo)
	}

	W, H := float64(opt.Width), float64(opt.Height)
	aspect := W / H
	var placed []Placed

	for i, w := range words {
		s := size(w.Count)
		p := Placed{
			Word:  w.Word,
			Size:  s,
			W:     GLYPHRATIO * s * float64(utf8.RuneCountInString(w.Word)),
			H:     s,
			Color: palette[i%len(palette)],
		}
		for step := 0; step < MAXSPIRAL; step++ {
			theta := float64(step) * vv.CLOUDSPIRALSTP
			r := theta * 2
			p.X = W/2 + r*math.Cos(theta)*aspect
			p.Y = H/2 + r*math.Sin(theta)
			if p.inside(W, H) && !collides(p, placed) {
				placed = append(placed, p)
				break
			}
		}
	}
	return placed
}

func collides(p Placed, placed []Placed) bool {
	for _, o := range placed {
		if p.overlaps(o) {
			return true
		}
	}
	return false
}

// Render - a png of the cloud
func Render(words []wordfreq.WordCount, opt Options) ([]byte, error) {
	placed := Layout(words, opt)
	if len(placed) == 0 {
		return nil, ErrNoWords
	}

	p := plot.New()
	p.HideAxes()
	p.BackgroundColor = opt.Background
	p.X.Min, p.X.Max = 0, float64(opt.Width)
	p.Y.Min, p.Y.Max = 0, float64(opt.Height)

	xys := make(plotter.XYs, len(placed))
	txt := make([]string, len(placed))
	for i, pl := range placed {
		xys[i].X, xys[i].Y = pl.X, pl.Y
		txt[i] = pl.Word
	}

	labels, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: txt})
	if err != nil {
		return nil, err
	}
	for i, pl := range placed {
		labels.TextStyle[i].Font.Size = pxtopt(pl.Size)
		labels.TextStyle[i].Color = pl.Color
		labels.TextStyle[i].XAlign = text.XCenter
		labels.TextStyle[i].YAlign = text.YCenter
	}
	p.Add(labels)

	wt, err := p.WriterTo(pxtopt(float64(opt.Width)), pxtopt(float64(opt.Height)), "png")
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if _, err = wt.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func pxtopt(px float64) vg.Length {
	return vg.Length(px) * vg.Inch / PXPERINCH
}

package content

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"gocv.io/x/gocv"

	"github.com/ayusman/brochure/internal/store"
)

// Texture size in pixels.
const (
	TextureWidth  = 1024
	TextureHeight = 1400
)

const (
	borderInset  = 40
	ruleY        = 200
	ruleMargin   = 100
	coverRadius  = 300
	bodyMaxWidth = 800
	lineHeight   = 50
	paragraphGap = 20
	artOffsetY   = 100
	artAlpha     = 0.4
)

var (
	Background = color.RGBA{R: 0xFA, G: 0xF1, B: 0xE6, A: 0xFF}
	TextColor  = color.RGBA{R: 0x4A, G: 0x4A, B: 0x4A, A: 0xFF}
	DarkColor  = color.RGBA{R: 0x2A, G: 0x2A, B: 0x2A, A: 0xFF}
	plainColor = color.RGBA{R: 0x55, G: 0x55, B: 0x55, A: 0xFF}
)

type font struct {
	face      gocv.HersheyFont
	scale     float64
	thickness int
}

func (f font) size(s string) image.Point {
	return gocv.GetTextSize(s, f.face, f.scale, f.thickness)
}

var (
	coverTitleFont    = font{gocv.FontHersheyTriplex, 2.8, 5}
	coverSubtitleFont = font{gocv.FontHersheySimplex | gocv.FontItalic, 1.6, 2}
	titleFont         = font{gocv.FontHersheyTriplex, 2.2, 4}
	subtitleFont      = font{gocv.FontHersheySimplex | gocv.FontItalic, 1.25, 2}
	bodyFont          = font{gocv.FontHersheySimplex, 1.0, 2}
	bodyBoldFont      = font{gocv.FontHersheySimplex, 1.0, 3}
	pageNumberFont    = font{gocv.FontHersheyPlain, 2.2, 2}
)

// Renderer draws page faces.
type Renderer struct{}

// NewRenderer creates a Renderer.
func NewRenderer() *Renderer {
	return &Renderer{}
}

// Render draws p and returns it PNG encoded.
func (r *Renderer) Render(p *Page) ([]byte, error) {
	img := gocv.NewMatWithSizeFromScalar(
		gocv.NewScalar(float64(Background.B), float64(Background.G), float64(Background.R), 0),
		TextureHeight, TextureWidth, gocv.MatTypeCV8UC3,
	)
	defer img.Close()

	drawArt(&img, p.Art, p.Theme)

	gocv.Rectangle(&img, image.Rect(borderInset, borderInset, TextureWidth-borderInset, TextureHeight-borderInset), p.Theme, 5)
	putLeft(&img, fmt.Sprintf("%02d", p.Index+1), TextureWidth-80, TextureHeight-60, pageNumberFont, TextColor)

	cx := TextureWidth / 2
	textY := 500
	if p.Kind == store.KindCover {
		gocv.Circle(&img, image.Pt(cx, TextureHeight/2), coverRadius, p.Theme, 3)
		putCentered(&img, p.Title, cx, 500, coverTitleFont, TextColor)
		putCentered(&img, p.Subtitle, cx, 600, coverSubtitleFont, p.Theme)
		textY = 800
	} else {
		gocv.Line(&img, image.Pt(ruleMargin, ruleY), image.Pt(TextureWidth-ruleMargin, ruleY), p.Theme, 2)
		putCentered(&img, p.Title, cx, 300, titleFont, TextColor)
		putCentered(&img, p.Subtitle, cx, 380, subtitleFont, p.Theme)
	}

	for _, line := range p.Body {
		textY = drawRichText(&img, line, cx, textY)
		textY += paragraphGap
	}

	buf, err := gocv.IMEncode(gocv.PNGFileExt, img)
	if err != nil {
		return nil, fmt.Errorf("encode page %d: %w", p.Index, err)
	}
	defer buf.Close()

	out := make([]byte, buf.Len())
	copy(out, buf.GetBytes())
	return out, nil
}

// drawRichText draws one paragraph centered on cx and returns the y below it.
func drawRichText(img *gocv.Mat, text string, cx, y int) int {
	lines := Wrap(ParseRich(text), bodyMaxWidth, func(s Segment) int {
		return segmentFont(s).size(s.Text).X
	})
	for _, line := range lines {
		x := cx - LineWidth(line)/2
		for _, s := range line {
			c := plainColor
			if s.Bold {
				c = DarkColor
			}
			putLeft(img, s.Text, x, y, segmentFont(s), c)
			x += s.Width
		}
		y += lineHeight
	}
	return y
}

func segmentFont(s Segment) font {
	if s.Bold {
		return bodyBoldFont
	}
	return bodyFont
}

// putLeft draws text starting at x, vertically centered on y.
func putLeft(img *gocv.Mat, text string, x, y int, f font, c color.RGBA) {
	if text == "" {
		return
	}
	sz := f.size(text)
	gocv.PutTextWithParams(img, text, image.Pt(x, y+sz.Y/2), f.face, f.scale, c, f.thickness, gocv.LineAA, false)
}

// putCentered draws text centered on (cx, y).
func putCentered(img *gocv.Mat, text string, cx, y int, f font, c color.RGBA) {
	if text == "" {
		return
	}
	putLeft(img, text, cx-f.size(text).X/2, y, f, c)
}

// blend mixes c over the page background with the given opacity.
func blend(c color.RGBA, alpha float64) color.RGBA {
	mix := func(fg, bg uint8) uint8 {
		return uint8(math.Round(float64(bg)*(1-alpha) + float64(fg)*alpha))
	}
	return color.RGBA{R: mix(c.R, Background.R), G: mix(c.G, Background.G), B: mix(c.B, Background.B), A: 0xFF}
}

// drawArt paints the translucent watermark behind the text.
func drawArt(img *gocv.Mat, art string, theme color.RGBA) {
	w, h := TextureWidth, TextureHeight
	cx, cy := w/2, h/2+artOffsetY
	stroke := blend(theme, artAlpha)

	switch art {
	case ArtMandala:
		gocv.Circle(img, image.Pt(cx, cy), 120, blend(theme, 0.1), -1)
		for i := 0; i < 8; i++ {
			gocv.Ellipse(img, image.Pt(cx, cy), image.Pt(200, 80), float64(i)*45, 0, 360, stroke, 3)
		}

	case ArtWheat:
		for _, offset := range []int{-60, 0, 60} {
			x := cx + offset
			stalk := quadratic(image.Pt(x, cy+200), image.Pt(x+offset/2, cy), image.Pt(x, cy-200), 24)
			polyline(img, stalk, stroke, 3)
			for j := 0; j < 5; j++ {
				grain := image.Pt(x, cy-200+j*40)
				gocv.Ellipse(img, grain, image.Pt(10, 20), 45, 0, 360, stroke, 3)
				gocv.Ellipse(img, grain, image.Pt(10, 20), -45, 0, 360, stroke, 3)
			}
		}

	case ArtMountains:
		fillPoly(img, []image.Point{
			image.Pt(0, h), image.Pt(cx-200, h-300), image.Pt(cx, h-100),
			image.Pt(cx+200, h-400), image.Pt(w, h),
		}, stroke)
		fillPoly(img, []image.Point{
			image.Pt(cx-200, h-300), image.Pt(cx-150, h-225), image.Pt(cx-250, h-225),
		}, blend(theme, 1-(1-artAlpha)*(1-0.6)))

	case ArtBowl:
		gocv.Ellipse(img, image.Pt(cx, cy), image.Pt(150, 150), 0, 0, 180, stroke, 5)
		gocv.Ellipse(img, image.Pt(cx, cy), image.Pt(150, 30), 0, 0, 360, stroke, 5)
		for i := -1; i <= 1; i++ {
			x := cx + i*50
			steam := quadratic(image.Pt(x, cy-50), image.Pt(x+20, cy-150), image.Pt(x, cy-250), 24)
			polyline(img, steam, stroke, 3)
		}

	case ArtCompass:
		gocv.Circle(img, image.Pt(cx, cy), 100, stroke, 3)
		fillPoly(img, []image.Point{
			image.Pt(cx, cy-80), image.Pt(cx+20, cy), image.Pt(cx, cy+80), image.Pt(cx-20, cy),
		}, stroke)
	}
}

// quadratic samples a quadratic Bezier curve from p0 to p2 with control p1.
func quadratic(p0, p1, p2 image.Point, steps int) []image.Point {
	pts := make([]image.Point, steps+1)
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		a, b, c := (1-t)*(1-t), 2*(1-t)*t, t*t
		pts[i] = image.Pt(
			int(math.Round(a*float64(p0.X)+b*float64(p1.X)+c*float64(p2.X))),
			int(math.Round(a*float64(p0.Y)+b*float64(p1.Y)+c*float64(p2.Y))),
		)
	}
	return pts
}

func polyline(img *gocv.Mat, pts []image.Point, c color.RGBA, thickness int) {
	pv := gocv.NewPointsVectorFromPoints([][]image.Point{pts})
	defer pv.Close()
	gocv.Polylines(img, pv, false, c, thickness)
}

func fillPoly(img *gocv.Mat, pts []image.Point, c color.RGBA) {
	pv := gocv.NewPointsVectorFromPoints([][]image.Point{pts})
	defer pv.Close()
	gocv.FillPoly(img, pv, c)
}

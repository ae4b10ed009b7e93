// Package overlay implements C2: per-segment caption-band PNGs and the
// centred opening title PNG, and resolves the three-tier font fallback
// chain both painter and subtitle positioner must agree with.
package overlay

import (
	"bytes"
	"image"
	"image/color"
	"image/png"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"scenecast/pkg/geometry"
	"scenecast/internal/models"
)

// Painter renders caption-band and title PNGs for one render's canvas and
// text configuration, caching output by content hash.
type Painter struct {
	cfg   models.RenderConfig
	font  *ResolvedFont
	cache *Cache
}

func NewPainter(cfg models.RenderConfig, resolved *ResolvedFont, cacheDir string) *Painter {
	return &Painter{cfg: cfg, font: resolved, cache: NewCache(cacheDir)}
}

func rgba(c [4]uint8) color.RGBA { return color.RGBA{c[0], c[1], c[2], c[3]} }

func (p *Painter) band() geometry.Band {
	return geometry.Compute(p.cfg.Text.DefaultSize, float64(p.cfg.Canvas.Width))
}

func (p *Painter) lineHeight(face font.Face) float64 {
	m := face.Metrics()
	return fixedToFloat(m.Ascent + m.Descent)
}

func fixedToFloat(v fixed.Int26_6) float64 { return float64(v) / 64 }

// PaintSegment renders the PNG for one text segment. If the overlay mode is
// typing, only the band is drawn (no glyphs); callers pair this with C3's
// subtitle track for the actual text reveal.
func (p *Painter) PaintSegment(seg models.TextSegment, typing bool) (string, geometry.Rect, error) {
	b := p.band()
	face := p.font.Face(p.cfg.Text.DefaultSize)
	defer face.Close()
	lh := p.lineHeight(face)
	blockHeight := b.TextBlockHeight(len(seg.Lines), lh)
	rect := b.BandRect(float64(p.cfg.Canvas.Width), float64(p.cfg.Canvas.Height), blockHeight)

	key := CacheKey{
		Text:      joinLines(seg.Lines),
		Width:     p.cfg.Canvas.Width,
		Height:    p.cfg.Canvas.Height,
		FontSize:  p.cfg.Text.DefaultSize,
		TextColor: p.cfg.Text.TextColorRGBA,
		BandColor: p.cfg.Text.BandColorRGBA,
		FontIdent: p.font.PSName,
	}
	if typing {
		key.Text = "" // band-only PNGs are identical regardless of segment text
	}

	path, err := p.cache.GetOrCreate(key, func() ([]byte, error) {
		img := image.NewRGBA(image.Rect(0, 0, p.cfg.Canvas.Width, p.cfg.Canvas.Height))
		fillRoundedRect(img, rect, b.CornerRadius, rgba(p.cfg.Text.BandColorRGBA))

		if !typing {
			drawCenteredLines(img, face, seg.Lines, rect, b, lh, rgba(p.cfg.Text.TextColorRGBA))
		}
		return encodePNG(img)
	})
	return path, rect, err
}

// PaintOpeningTitle renders the single centred title PNG for the opening
// scene: horizontally and vertically centred on a transparent canvas, with
// 0.6*size line spacing, no band.
func (p *Painter) PaintOpeningTitle(title string) (string, error) {
	face := p.font.TitleFace(p.cfg.Text.DefaultSize * 1.5) // titles read larger than captions
	defer face.Close()
	lh := p.lineHeight(face)
	leading := 0.6 * p.cfg.Text.DefaultSize * 1.5

	fontIdent := p.font.PSName + "-title"
	if p.font.HasExtraBold() {
		fontIdent += "-extrabold"
	}
	key := CacheKey{
		Text:      title,
		Width:     p.cfg.Canvas.Width,
		Height:    p.cfg.Canvas.Height,
		FontSize:  p.cfg.Text.DefaultSize * 1.5,
		TextColor: p.cfg.Text.TextColorRGBA,
		FontIdent: fontIdent,
	}

	return p.cache.GetOrCreate(key, func() ([]byte, error) {
		img := image.NewRGBA(image.Rect(0, 0, p.cfg.Canvas.Width, p.cfg.Canvas.Height))
		lines := []string{title}
		blockHeight := float64(len(lines))*lh + float64(len(lines)-1)*leading
		top := (float64(p.cfg.Canvas.Height) - blockHeight) / 2
		drawer := &font.Drawer{Dst: img, Src: image.NewUniform(rgba(p.cfg.Text.TextColorRGBA)), Face: face}
		y := top + lh*0.8
		for _, line := range lines {
			advance := drawer.MeasureString(line)
			x := (float64(p.cfg.Canvas.Width) - fixedToFloat(advance)) / 2
			drawer.Dot = fixed.P(int(x), int(y))
			drawer.DrawString(line)
			y += lh + leading
		}
		return encodePNG(img)
	})
}

func drawCenteredLines(img *image.RGBA, face font.Face, lines []string, rect geometry.Rect, b geometry.Band, lh float64, col color.RGBA) {
	leading := b.LineLeading(len(lines))
	blockHeight := b.TextBlockHeight(len(lines), lh)
	top := rect.Y + b.InnerTop + (rect.H-b.InnerTop-b.InnerBottom-blockHeight)/2

	drawer := &font.Drawer{Dst: img, Src: image.NewUniform(col), Face: face}
	y := top + lh*0.8
	for _, line := range lines {
		advance := drawer.MeasureString(line)
		x := rect.X + (rect.W-fixedToFloat(advance))/2
		drawer.Dot = fixed.P(int(x), int(y))
		drawer.DrawString(line)
		y += lh + leading
	}
}

func joinLines(lines []string) string {
	out := ""
	for i, l := range lines {
		if i > 0 {
			out += "\n"
		}
		out += l
	}
	return out
}

func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

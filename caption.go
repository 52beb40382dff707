package marionette

import (
	"bytes"
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/gofont/goregular"
)

// CaptionFont wraps a text/v2 face for on-screen captions.
type CaptionFont struct {
	face *text.GoTextFace
	lh   float64 // cached line height
}

// LoadCaptionFont loads a TrueType font from raw TTF/OTF data at size.
func LoadCaptionFont(ttf []byte, size float64) (*CaptionFont, error) {
	source, err := text.NewGoTextFaceSource(bytes.NewReader(ttf))
	if err != nil {
		return nil, fmt.Errorf("marionette: failed to parse TTF data: %w", err)
	}
	face := &text.GoTextFace{Source: source, Size: size}
	m := face.Metrics()
	return &CaptionFont{face: face, lh: m.HAscent + m.HDescent + m.HLineGap}, nil
}

// Measure returns the rendered width and height of s.
func (f *CaptionFont) Measure(s string) (width, height float64) {
	return text.Measure(s, f.face, f.lh)
}

// LineHeight returns the distance between baselines.
func (f *CaptionFont) LineHeight() float64 { return f.lh }

// Draw renders s with its top-left corner at device (x, y).
func (f *CaptionFont) Draw(dst *ebiten.Image, s string, x, y float64, c Color) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.ColorScale.Scale(float32(c.R), float32(c.G), float32(c.B), float32(c.A))
	op.LineSpacing = f.lh
	text.Draw(dst, s, f.face, op)
}

const captionSize = 14

// sceneCaption describes the current scene and the load state of its
// primary figure.
func (a *App) sceneCaption() string {
	idx := a.stage.SceneIndex()
	s := fmt.Sprintf("%s  %d/%d", a.cfg.Scenes[idx], idx+1, len(a.cfg.Scenes))
	f := a.stage.Figure(0)
	switch {
	case f == nil:
	case f.LoadErr() != nil:
		s += "  (failed)"
	case !f.Loaded():
		s += "  (loading)"
	}
	return s
}

// drawCaption draws the scene caption in the bottom-left corner. The font is
// loaded on first use; a load failure disables captions.
func (a *App) drawCaption(screen *ebiten.Image) {
	if a.captionOff {
		return
	}
	if a.caption == nil {
		f, err := LoadCaptionFont(goregular.TTF, captionSize)
		if err != nil {
			a.fw.Logf(LogLevelError, "%v", err)
			a.captionOff = true
			return
		}
		a.caption = f
	}
	s := a.sceneCaption()
	_, h := a.caption.Measure(s)
	a.caption.Draw(screen, s, 6, float64(screen.Bounds().Dy())-h-6, ColorWhite)
}

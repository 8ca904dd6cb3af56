package render

import (
	"bytes"
	"fmt"
	"strconv"

	svg "github.com/ajstarks/svgo"
	"github.com/jsphweid/chordstave/constants"
	"github.com/jsphweid/chordstave/layout"
	"github.com/jsphweid/chordstave/voice"
)

const (
	lineStyle   = "stroke:black;stroke-width:1"
	glyphStyle  = "font-family:serif;fill:black"
	labelStyle  = "font-family:sans-serif;font-size:14px;text-anchor:middle;fill:black"
	defaultInk  = "black"
	headRadiusX = constants.NoteHeadWidth / 2
	headRadiusY = constants.LineSpacing / 2
)

var accidentalGlyphs = map[string]string{
	"#":  "♯",
	"b":  "♭",
	"n":  "♮",
	"x":  "\U0001D12A",
	"##": "\U0001D12A",
	"bb": "\U0001D12B",
}

// SVG is a Surface that writes an SVG document into memory.
type SVG struct {
	buf    bytes.Buffer
	canvas *svg.SVG
}

func NewSVG() *SVG {
	s := &SVG{}
	s.canvas = svg.New(&s.buf)
	return s
}

func (s *SVG) Begin(width, height int) {
	s.buf.Reset()
	s.canvas.Start(width, height)
}

func (s *SVG) Stave(st layout.Stave) {
	c := s.canvas
	c.Group(fmt.Sprintf(`class="vf-stave vf-%s"`, st.Clef))
	for i := 0; i < constants.StaveLines; i++ {
		y := st.LineY(i)
		c.Line(st.X, y, st.EndX(), y, lineStyle)
	}
	c.Line(st.EndX(), st.TopLineY(), st.EndX(), st.BottomLineY(), lineStyle)

	if st.ShowClef {
		clefX := st.X + constants.StavePadding
		if st.Clef == voice.Bass {
			c.Text(clefX, st.LineY(2), "\U0001D122", glyphStyle+";font-size:32px")
		} else {
			c.Text(clefX, st.LineY(3)+5, "\U0001D11E", glyphStyle+";font-size:44px")
		}
	}
	for _, g := range st.KeyGlyphs {
		glyph := "♭"
		if g.Sharp {
			glyph = "♯"
		}
		c.Text(g.X, g.Y+5, glyph, glyphStyle+";font-size:18px")
	}
	if st.ShowTime {
		timeStyle := glyphStyle + ";font-size:20px;font-weight:bold"
		c.Text(st.TimeX, st.LineY(2)-2, strconv.Itoa(st.Time.Numerator), timeStyle)
		c.Text(st.TimeX, st.LineY(4)-2, strconv.Itoa(st.Time.Denominator), timeStyle)
	}
	c.Gend()
}

func (s *SVG) Connector(conn layout.Connector) {
	c := s.canvas
	switch conn.Kind {
	case layout.Brace:
		x := conn.X - 12
		mid := (conn.TopY + conn.BottomY) / 2
		d := fmt.Sprintf("M%d %d Q%d %d %d %d Q%d %d %d %d Q%d %d %d %d Q%d %d %d %d",
			x+8, conn.TopY,
			x, conn.TopY, x+2, (conn.TopY+mid)/2,
			x+4, mid-4, x, mid,
			x+4, mid+4, x+2, (mid+conn.BottomY)/2,
			x, conn.BottomY, x+8, conn.BottomY)
		c.Path(d, `class="vf-brace"`, "fill:none;stroke:black;stroke-width:2")
	case layout.SingleLeft:
		c.Line(conn.X, conn.TopY, conn.X, conn.BottomY, `class="vf-connector"`, lineStyle)
	case layout.BoldDoubleRight:
		c.Line(conn.X-7, conn.TopY, conn.X-7, conn.BottomY, `class="vf-connector"`, lineStyle)
		c.Rect(conn.X-4, conn.TopY, 4, conn.BottomY-conn.TopY, `class="vf-connector"`, "fill:black")
	}
}

func (s *SVG) Note(n layout.PlacedNote, style NoteStyle) {
	c := s.canvas
	ink := style.Colour
	if ink == "" {
		ink = defaultInk
	}

	attrs := []string{fmt.Sprintf(`id="vf-%s"`, n.Id), `class="vf-stavenote"`}
	if style.Hidden {
		attrs = []string{fmt.Sprintf(`id="vf-%s"`, n.Id), `class="vf-stavenote ghost-note"`, `visibility="hidden"`}
	}
	c.Group(attrs...)

	for _, k := range n.Keys {
		for _, y := range k.Ledgers {
			c.Line(n.X-headRadiusX-3, y, n.X+headRadiusX+3, y, "stroke:"+ink+";stroke-width:1")
		}
		if glyph, ok := accidentalGlyphs[k.Accidental]; ok {
			c.Text(n.X-headRadiusX-constants.AccidentalWidth, k.Y+5, glyph, "font-family:serif;font-size:16px;fill:"+ink)
		}
		c.Ellipse(n.X, k.Y, headRadiusX, headRadiusY, "fill:"+ink)
	}
	if len(n.Keys) > 0 {
		c.Line(n.StemX, n.StemY1, n.StemX, n.StemY2, "stroke:"+ink+";stroke-width:1.5")
	}
	c.Gend()
}

func (s *SVG) Label(l layout.PlacedLabel) {
	s.canvas.Text(l.X, l.Y, l.Text, fmt.Sprintf(`class="chord-%s"`, l.Kind), labelStyle)
}

func (s *SVG) End() error {
	s.canvas.End()
	return nil
}

// Bytes returns the document written between Begin and End.
func (s *SVG) Bytes() []byte {
	return s.buf.Bytes()
}

package layout

import (
	"sort"

	"github.com/jsphweid/chordstave/chord"
	"github.com/jsphweid/chordstave/constants"
	"github.com/jsphweid/chordstave/util"
	"github.com/jsphweid/chordstave/voice"
)

type PlacedKey struct {
	Pitch      chord.Pitch
	Accidental string
	Y          int
	Ledgers    []int
}

type PlacedNote struct {
	Id     string
	Voice  int
	Bar    int
	Clef   voice.Clef
	X      int
	Keys   []PlacedKey
	Ghost  bool
	Labels []voice.Label
	StemUp bool
	StemX  int
	StemY1 int
	StemY2 int
	// middle line of the stave the note is drawn on
	middleY int
}

type PlacedLabel struct {
	NoteId string
	Kind   voice.LabelKind
	Text   string
	X      int
	Y      int
}

// Format spaces one bar of one voice evenly across the stave's format width,
// starting at its note-start position. Keys come out lowest first.
func Format(notes []voice.Note, stave Stave) []PlacedNote {
	if len(notes) == 0 {
		return nil
	}
	width := util.Min(constants.FormatWidth, stave.EndX()-stave.NoteStartX-constants.StavePadding)
	step := width / len(notes)

	res := make([]PlacedNote, 0, len(notes))
	for j, n := range notes {
		pn := PlacedNote{
			Id:      n.Id,
			Bar:     stave.Bar,
			Clef:    n.Clef,
			X:       stave.NoteStartX + constants.AccidentalWidth + j*step + constants.NoteHeadWidth/2,
			Ghost:   n.Ghost,
			Labels:  n.Labels,
			middleY: stave.YForDiatonic(stave.middleDiatonic()),
		}
		keys := append([]voice.Key(nil), n.Keys...)
		sort.SliceStable(keys, func(a, b int) bool {
			return keys[a].Pitch.Diatonic() < keys[b].Pitch.Diatonic()
		})
		for _, k := range keys {
			d := k.Pitch.Diatonic()
			pn.Keys = append(pn.Keys, PlacedKey{
				Pitch:      k.Pitch,
				Accidental: k.Accidental,
				Y:          stave.YForDiatonic(d),
				Ledgers:    stave.LedgerLines(d),
			})
		}
		res = append(res, pn)
	}
	return res
}

// StemUp decides stem direction. SATB fixes it per voice: bass and alto stem
// down, tenor and soprano up. Piano notes stem down when their outermost
// keys centre on or above the middle line.
func StemUp(mode voice.Mode, voiceIndex int, n PlacedNote) bool {
	if mode == voice.SATB {
		return voiceIndex%2 == 1
	}
	if len(n.Keys) == 0 {
		return true
	}
	lowest := n.Keys[0].Y
	highest := n.Keys[len(n.Keys)-1].Y
	// y grows downward, so a centre above the middle line has a smaller y
	return lowest+highest > 2*n.middleY
}

func placeStem(n *PlacedNote) {
	if len(n.Keys) == 0 {
		return
	}
	lowest := n.Keys[0].Y
	highest := n.Keys[len(n.Keys)-1].Y
	if n.StemUp {
		n.StemX = n.X + constants.NoteHeadWidth/2
		n.StemY1 = lowest
		n.StemY2 = highest - constants.StemLength
		return
	}
	n.StemX = n.X - constants.NoteHeadWidth/2
	n.StemY1 = highest
	n.StemY2 = lowest + constants.StemLength
}

package constants

// Engraving dimensions, in surface pixels.
const (
	SurfaceWidth  = 1275
	BarsPerLine   = 3
	LeadBarWidth  = 450
	BarWidth      = 400
	BarXOffset    = 15
	TrebleYOffset = 25
	FormatWidth   = 375

	PianoBarHeight   = 300
	PianoBassYOffset = 125
	SATBBarHeight    = 325
	SATBBassYOffset  = 150

	// label baselines on the first line of bars
	ChordNameY         = 35
	PianoChordNumeralY = 250
	SATBChordNumeralY  = 275
)

// Stave geometry.
const (
	LineSpacing     = 10
	SpaceAboveStave = 4 * LineSpacing
	StaveLines      = 5
	StemLength      = 35
	NoteHeadWidth   = 12
	ClefWidth       = 35
	KeyAccWidth     = 10
	TimeSigWidth    = 25
	StavePadding    = 10
	AccidentalWidth = 10
)

// Ghost pitches sit on the middle line of their clef.
const (
	TrebleGhostPitch = "B4"
	BassGhostPitch   = "D3"
)

// Diatonic positions (letter steps above C0) of each clef's top and middle line.
const (
	TrebleTopLine    = 5*7 + 3 // F5
	TrebleMiddleLine = 4*7 + 6 // B4
	BassTopLine      = 3*7 + 5 // A3
	BassMiddleLine   = 3*7 + 1 // D3
)

// Piano mode puts octave 4 and above on the treble stave.
const PianoTrebleMinOctave = 4

// upper bound on chords accepted per render request
const MaxChords = 64

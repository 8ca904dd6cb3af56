package chord

import (
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidKey = errors.New("invalid key")

// order in which sharps are added to a key signature; flats use the reverse
const sharpOrder = "FCGDAEB"

// fifths of each natural letter as a major tonic
var tonicFifths = map[byte]int{'F': -1, 'C': 0, 'G': 1, 'D': 2, 'A': 3, 'E': 4, 'B': 5}

type Key struct {
	Tonic Pitch
	Minor bool
	// Fifths is the signed position on the circle of fifths, positive for sharps.
	Fifths int
}

// ParseKey accepts "C", "F#", "Bb", "Am", "F#m", "Ebmaj" and the analysis
// form's convention of a lower-case tonic for minor keys ("a", "f#").
func ParseKey(s string) (Key, error) {
	var k Key
	s = strings.TrimSpace(s)
	if s == "" {
		return k, fmt.Errorf("%w: empty", ErrInvalidKey)
	}

	minor := s[0] >= 'a' && s[0] <= 'g'
	body := s
	switch {
	case strings.HasSuffix(body, "maj"):
		body = strings.TrimSuffix(body, "maj")
		minor = false
	case strings.HasSuffix(body, "min"):
		body = strings.TrimSuffix(body, "min")
		minor = true
	case strings.HasSuffix(body, "M"):
		body = strings.TrimSuffix(body, "M")
		minor = false
	case len(body) > 1 && strings.HasSuffix(body, "m"):
		body = strings.TrimSuffix(body, "m")
		minor = true
	}

	if body == "" {
		return k, fmt.Errorf("%w: %q", ErrInvalidKey, s)
	}
	letter := body[0]
	if letter >= 'a' && letter <= 'g' {
		letter -= 'a' - 'A'
	}
	fifths, ok := tonicFifths[letter]
	if !ok {
		return k, fmt.Errorf("%w: %q", ErrInvalidKey, s)
	}
	alteration, ok := parseAlteration(body[1:])
	if !ok {
		return k, fmt.Errorf("%w: %q", ErrInvalidKey, s)
	}

	fifths += 7 * alteration
	if minor {
		fifths -= 3
	}

	k.Tonic = Pitch{Letter: letter, Alteration: alteration}
	k.Minor = minor
	k.Fifths = fifths
	return k, nil
}

func (k Key) String() string {
	name := fmt.Sprintf("%c%s", k.Tonic.Letter, AlterationSymbol(k.Tonic.Alteration))
	if k.Minor {
		return name + "m"
	}
	return name
}

// AlterationOf returns how the key signature alters a natural letter.
// Keys past seven sharps or flats double-alter letters in signature order.
func (k Key) AlterationOf(letter byte) int {
	pos := strings.IndexByte(sharpOrder, letter)
	if pos < 0 {
		return 0
	}
	if k.Fifths >= 0 {
		// letter at position pos is sharpened once per full pass that reaches it
		return countPasses(k.Fifths, pos)
	}
	return -countPasses(-k.Fifths, 6-pos)
}

func countPasses(n, pos int) int {
	if n <= pos {
		return 0
	}
	return (n-pos-1)/7 + 1
}

// Signature lists the letters carrying an accidental in the drawn key
// signature, in drawing order, and whether they are sharps.
func (k Key) Signature() ([]byte, bool, error) {
	if k.Fifths > 7 || k.Fifths < -7 {
		return nil, false, fmt.Errorf("%w: %s needs %d accidentals", ErrInvalidKey, k, abs(k.Fifths))
	}
	if k.Fifths >= 0 {
		return []byte(sharpOrder[:k.Fifths]), true, nil
	}
	res := make([]byte, 0, -k.Fifths)
	for i := 0; i < -k.Fifths; i++ {
		res = append(res, sharpOrder[6-i])
	}
	return res, false, nil
}

// AccidentalFor returns the accidental to print before p in this key, or ""
// when the key signature already implies it.
func (k Key) AccidentalFor(p Pitch) string {
	if k.AlterationOf(p.Letter) == p.Alteration {
		return ""
	}
	switch p.Alteration {
	case 0:
		return "n"
	case 2:
		return "x"
	}
	return AlterationSymbol(p.Alteration)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

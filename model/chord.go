package model

import (
	"encoding/json"
	"strings"
)

// Notes decodes from either a JSON array of pitch strings or the analysis
// server's comma separated form ("C3, E3, G3, ").
type Notes []string

func (n *Notes) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*n = list
		return nil
	}

	var joined string
	if err := json.Unmarshal(data, &joined); err != nil {
		return err
	}

	res := Notes{}
	for _, part := range strings.Split(joined, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			res = append(res, part)
		}
	}
	*n = res
	return nil
}

type Chord struct {
	Name        string   `json:"name"`
	Numeral     string   `json:"numeral"`
	Notes       Notes    `json:"notes"`
	Accidentals []string `json:"accidentals"`
}

// AccidentalAt returns the accidental aligned with note i. A chord without
// accidentals has none on any note.
func (c Chord) AccidentalAt(i int) string {
	if i < len(c.Accidentals) {
		return c.Accidentals[i]
	}
	return ""
}

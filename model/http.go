package model

import (
	"encoding/json"
	"time"
)

// AnalysisError is the analysis server's error flag. Older servers send a
// boolean, newer ones an error code such as "NO_VALID_CHORDS".
type AnalysisError struct {
	Failed bool
	Code   string
}

func (e *AnalysisError) UnmarshalJSON(data []byte) error {
	var flag bool
	if err := json.Unmarshal(data, &flag); err == nil {
		e.Failed = flag
		return nil
	}

	var code string
	if err := json.Unmarshal(data, &code); err != nil {
		return err
	}
	e.Code = code
	e.Failed = code != ""
	return nil
}

func (e AnalysisError) MarshalJSON() ([]byte, error) {
	if e.Code != "" {
		return json.Marshal(e.Code)
	}
	return json.Marshal(e.Failed)
}

type ProgressionInfo struct {
	Error      AnalysisError `json:"error"`
	Chords     []Chord       `json:"chords"`
	SATBErrors []string      `json:"satb_errors,omitempty"`
}

type AnalysisResponse struct {
	Chords      ProgressionInfo `json:"chords"`
	Key         string          `json:"key"`
	Time        string          `json:"time"`
	DisplayForm string          `json:"displayForm"`
}

type ScoreCreated struct {
	Id string `json:"id"`
}

type StoredScore struct {
	Id        string    `json:"id"`
	Key       string    `json:"key"`
	Time      string    `json:"time"`
	Mode      string    `json:"mode"`
	NumChords int       `json:"num_chords"`
	SVG       string    `json:"svg"`
	Warnings  []string  `json:"warnings,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type ErrorResponse struct {
	Error string `json:"detail"`
}

type RenderResponse struct {
	Mode      string   `json:"mode"`
	NumBars   int      `json:"num_bars"`
	NumChords int      `json:"num_chords"`
	Ghosts    []string `json:"ghosts"`
	Warnings  []string `json:"warnings,omitempty"`
	SVG       string   `json:"svg"`
}

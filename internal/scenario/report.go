package scenario

import (
	"io"

	jsoniter "github.com/json-iterator/go"

	"github.com/dshills/draftsnap/internal/document"
	"github.com/dshills/draftsnap/internal/geom"
)

// Report is the result of one scenario run.
type Report struct {
	Name        string        `json:"name"`
	Command     string        `json:"command,omitempty"`
	Outcome     string        `json:"outcome,omitempty"`
	Error       string        `json:"error,omitempty"`
	Commits     int           `json:"commits"`
	History     int           `json:"history"`
	Entries     []string      `json:"entries,omitempty"`
	Outstanding int           `json:"outstanding"`
	Models      []ModelReport `json:"models"`
	Trace       []TraceEntry  `json:"trace"`
	Failures    []string      `json:"failures,omitempty"`
	Passed      bool          `json:"passed"`
}

// ModelReport describes a model in the document after the run.
type ModelReport struct {
	ID     string      `json:"id"`
	Name   string      `json:"name"`
	Kind   string      `json:"kind"`
	Points [][]float64 `json:"points,omitempty"`
}

// TraceEntry is the visible state after one event.
type TraceEntry struct {
	Index     int    `json:"index"`
	Action    string `json:"action"`
	Prompt    string `json:"prompt,omitempty"`
	Tip       string `json:"tip,omitempty"`
	InputOpen bool   `json:"inputOpen,omitempty"`
	Error     string `json:"error,omitempty"`
}

// Summary collects the reports of several scenarios.
type Summary struct {
	Reports []*Report `json:"reports"`
	Passed  int       `json:"passed"`
	Failed  int       `json:"failed"`
}

// Add appends r and counts it.
func (s *Summary) Add(r *Report) {
	s.Reports = append(s.Reports, r)
	if r.Passed {
		s.Passed++
	} else {
		s.Failed++
	}
}

// WriteJSON writes v as indented JSON.
func WriteJSON(w io.Writer, v any) error {
	enc := jsoniter.ConfigCompatibleWithStandardLibrary.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func modelReport(m *document.Model) ModelReport {
	r := ModelReport{ID: m.ID(), Name: m.Name(), Kind: m.Body().Kind()}
	off := m.Offset()
	for _, p := range bodyPoints(m.Body()) {
		p = geom.Add(p, off)
		r.Points = append(r.Points, []float64{p[0], p[1], p[2]})
	}
	return r
}

// bodyPoints returns the defining points of b: line ends, circle center,
// box origin.
func bodyPoints(b document.Body) []geom.Point {
	switch b := b.(type) {
	case document.Line:
		return []geom.Point{b.Start, b.End}
	case document.Circle:
		return []geom.Point{b.Center}
	case document.Box:
		return []geom.Point{b.Plane.Origin}
	}
	return nil
}

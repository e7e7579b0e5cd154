package scenario

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"agencyreg/internal/agency/models"
)

// StepResult is the outcome of one step.
type StepResult struct {
	Index     int            `json:"step"`
	Op        string         `json:"op"`
	RequestID string         `json:"request_id"`
	Outcome   string         `json:"outcome"`
	Expected  string         `json:"expected,omitempty"`
	Matched   bool           `json:"matched"`
	Height    uint64         `json:"height,omitempty"`
	Agency    *models.Agency `json:"agency,omitempty"`
	Error     string         `json:"error,omitempty"`
}

// Report collects the results of a run.
type Report struct {
	Steps       []StepResult `json:"steps"`
	FinalAdmin  string       `json:"final_admin"`
	FinalHeight uint64       `json:"final_height"`
}

// Mismatches returns the steps whose outcome differed from their expectation.
func (r *Report) Mismatches() []StepResult {
	var out []StepResult
	for _, s := range r.Steps {
		if !s.Matched {
			out = append(out, s)
		}
	}
	return out
}

// Failed reports whether any expectation was not met.
func (r *Report) Failed() bool {
	return len(r.Mismatches()) > 0
}

// WriteJSON writes the report as indented JSON.
func (r *Report) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// WriteText writes one aligned line per step followed by a summary.
func (r *Report) WriteText(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "STEP\tOP\tOUTCOME\tEXPECTED\tDETAIL")
	for _, s := range r.Steps {
		mark := ""
		if !s.Matched {
			mark = " MISMATCH"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s%s\t%s\n", s.Index, s.Op, s.Outcome, s.Expected, mark, detail(s))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "admin=%s height=%d mismatches=%d\n", r.FinalAdmin, r.FinalHeight, len(r.Mismatches()))
	return err
}

func detail(s StepResult) string {
	switch {
	case s.Agency != nil:
		return fmt.Sprintf("name=%q type=%q verified_at=%d status=%s",
			s.Agency.Name, s.Agency.Type, s.Agency.VerifiedAt, s.Agency.Status)
	case s.Error != "":
		return s.Error
	case s.Height != 0:
		return fmt.Sprintf("height=%d", s.Height)
	}
	return ""
}

package core

import (
	"encoding/json"
	"io"

	"github.com/droidaudit/droidaudit/internal/report"
)

// MarshalReport writes r as the schema-conformant JSON report.
func MarshalReport(w io.Writer, r *Report) error {
	return report.WriteJSON(w, r)
}

// UnmarshalReport decodes a JSON report after validating it against the
// report schema.
func UnmarshalReport(rd io.Reader) (*Report, error) {
	b, err := io.ReadAll(rd)
	if err != nil {
		return nil, err
	}
	if err := report.ValidateReport(b); err != nil {
		return nil, err
	}
	var r Report
	if err := json.Unmarshal(b, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// MarshalFindings pretty-prints findings as JSON for humans or pipelines.
func MarshalFindings(w io.Writer, findings []Finding) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(findings)
}

// UnmarshalFindings decodes findings JSON, useful for ingestion tests.
func UnmarshalFindings(r io.Reader) ([]Finding, error) {
	var fs []Finding
	if err := json.NewDecoder(r).Decode(&fs); err != nil {
		return nil, err
	}
	return fs, nil
}

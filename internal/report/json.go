package report

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/droidaudit/droidaudit/internal/analysis"
	"github.com/xeipuuv/gojsonschema"
)

//go:embed schema.json
var reportSchema []byte

// Schema returns the JSON schema of the report document.
func Schema() []byte { return reportSchema }

// WriteJSON writes r as an indented JSON document.
func WriteJSON(w io.Writer, r *analysis.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// ValidateReport checks a JSON report document against the embedded schema.
func ValidateReport(doc []byte) error {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(reportSchema))
	if err != nil {
		return fmt.Errorf("load schema: %w", err)
	}
	result, err := schema.Validate(gojsonschema.NewBytesLoader(doc))
	if err != nil {
		return fmt.Errorf("schema validation error: %w", err)
	}
	if !result.Valid() {
		var msgs []string
		for _, desc := range result.Errors() {
			msgs = append(msgs, desc.String())
		}
		return fmt.Errorf("report does not match schema: %s", strings.Join(msgs, "; "))
	}
	return nil
}

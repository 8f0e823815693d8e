// Package audit keeps an append-only JSONL history of analysis runs.
package audit

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/droidaudit/droidaudit/internal/analysis"
	"github.com/droidaudit/droidaudit/internal/types"
)

// DefaultFile is the history file name used when only a directory is given.
const DefaultFile = ".droidaudit_history.jsonl"

// Redacted replaces the context of findings that may quote a secret.
const Redacted = "[REDACTED]"

const topFindings = 10

type RunRecord struct {
	Timestamp      time.Time        `json:"timestamp"`
	ReportID       string           `json:"report_id"`
	Root           string           `json:"root"`
	Package        string           `json:"package,omitempty"`
	TotalFindings  int              `json:"total_findings"`
	BaselinedCount int              `json:"baselined_count"`
	SeverityCounts map[string]int   `json:"severity_counts"`
	FilesScanned   int              `json:"files_scanned"`
	Duration       string           `json:"duration"`
	Risk           analysis.Score   `json:"risk"`
	Defense        analysis.Score   `json:"defense"`
	BaselineFile   string           `json:"baseline_file,omitempty"`
	TopFindings    []FindingSummary `json:"top_findings,omitempty"`
	AllFindings    []types.Finding  `json:"all_findings,omitempty"`
}

type FindingSummary struct {
	Location string `json:"location"`
	Type     string `json:"type"`
	Severity string `json:"severity"`
	Line     int    `json:"line,omitempty"`
}

type Log struct {
	path string
}

// NewLog opens the history at path. A directory selects DefaultFile inside it.
func NewLog(path string) *Log {
	if st, err := os.Stat(path); err == nil && st.IsDir() {
		path = filepath.Join(path, DefaultFile)
	}
	return &Log{path: path}
}

// Path returns the history file location.
func (l *Log) Path() string { return l.path }

// History returns the recorded runs, newest first. Undecodable lines are
// skipped.
func (l *Log) History() ([]RunRecord, error) {
	f, err := os.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history: %w", err)
	}
	defer f.Close()

	var records []RunRecord
	decoder := json.NewDecoder(f)
	for decoder.More() {
		var record RunRecord
		if err := decoder.Decode(&record); err != nil {
			break
		}
		records = append(records, record)
	}

	for i, j := 0, len(records)-1; i < j; i, j = i+1, j-1 {
		records[i], records[j] = records[j], records[i]
	}
	return records, nil
}

// Append writes one record.
func (l *Log) Append(record RunRecord) error {
	if dir := filepath.Dir(l.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create history dir: %w", err)
		}
	}
	// Owner-only: records carry finding locations and context.
	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("failed to open history: %w", err)
	}
	defer f.Close()

	if err := json.NewEncoder(f).Encode(record); err != nil {
		return fmt.Errorf("failed to write history record: %w", err)
	}
	return nil
}

// Delete removes the record at index, counted newest first.
func (l *Log) Delete(index int) error {
	records, err := l.History()
	if err != nil {
		return err
	}
	if index < 0 || index >= len(records) {
		return fmt.Errorf("invalid index: %d", index)
	}
	records = append(records[:index], records[index+1:]...)

	for i, j := 0, len(records)-1; i < j; i, j = i+1, j-1 {
		records[i], records[j] = records[j], records[i]
	}

	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("failed to rewrite history: %w", err)
	}
	defer f.Close()

	encoder := json.NewEncoder(f)
	for _, record := range records {
		if err := encoder.Encode(record); err != nil {
			return fmt.Errorf("failed to write history record: %w", err)
		}
	}
	return nil
}

// NewRecord summarises r. baselined is the number of findings the baseline
// suppressed.
func NewRecord(r *analysis.Report, baselined int, baselineFile string) RunRecord {
	severityCounts := make(map[string]int)
	for _, f := range r.Findings {
		severityCounts[string(f.Severity)]++
	}

	top := make([]FindingSummary, 0, topFindings)
	for _, f := range r.Findings {
		if len(top) >= topFindings {
			break
		}
		top = append(top, FindingSummary{
			Location: f.Location,
			Type:     f.Type,
			Severity: string(f.Severity),
			Line:     f.Line,
		})
	}

	return RunRecord{
		Timestamp:      r.GeneratedAt,
		ReportID:       r.ID,
		Root:           r.Root,
		Package:        r.Package,
		TotalFindings:  len(r.Findings),
		BaselinedCount: baselined,
		SeverityCounts: severityCounts,
		FilesScanned:   r.Stats.FilesScanned,
		Duration:       (time.Duration(r.Stats.DurationMS) * time.Millisecond).String(),
		Risk:           r.Risk,
		Defense:        r.Defense.Score,
		BaselineFile:   baselineFile,
		TopFindings:    top,
		AllFindings:    redactSecrets(r.Findings),
	}
}

// redactSecrets returns a copy of findings with the context of hardcoded
// secret matches replaced, so keys never reach the history file.
func redactSecrets(findings []types.Finding) []types.Finding {
	redacted := make([]types.Finding, len(findings))
	for i, f := range findings {
		redacted[i] = f
		if f.Category == types.CatHardcodedSecret && f.Context != "" {
			redacted[i].Context = Redacted
		}
	}
	return redacted
}

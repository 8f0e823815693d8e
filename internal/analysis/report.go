package analysis

import (
	"time"

	"github.com/droidaudit/droidaudit/internal/detectors"
	"github.com/droidaudit/droidaudit/internal/manifest"
	"github.com/droidaudit/droidaudit/internal/types"
)

// SchemaVersion is bumped whenever the JSON shape of Report changes.
const SchemaVersion = "1"

// Report is the aggregate result of one analysis.
type Report struct {
	ID            string               `json:"id"`
	SchemaVersion string               `json:"schema_version"`
	Tool          Tool                 `json:"tool"`
	Root          string               `json:"root"`
	Package       string               `json:"package,omitempty"`
	GeneratedAt   time.Time            `json:"generated_at"`
	Findings      []types.Finding      `json:"findings"`
	Summary       Summary              `json:"summary"`
	Risk          Score                `json:"risk"`
	Defense       Defense              `json:"defense"`
	Permissions   Permissions          `json:"permissions"`
	Components    []manifest.Component `json:"components"`
	Libraries     Libraries            `json:"libraries"`
	Notes         []types.ScanNote     `json:"notes"`
	Diagnostics   []string             `json:"diagnostics"`
	Stats         Stats                `json:"stats"`

	registry *detectors.Registry
}

// Tool identifies the producer of a report.
type Tool struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// Stats records the cost of the analysis.
type Stats struct {
	FilesScanned int   `json:"files_scanned"`
	DurationMS   int64 `json:"duration_ms"`
	Rules        int   `json:"rules"`
}

// Summary holds the finding histograms. BySeverity always carries every
// bucket, UNKNOWN included.
type Summary struct {
	Total      int                    `json:"total"`
	BySeverity map[types.Severity]int `json:"by_severity"`
	ByCategory map[string]int         `json:"by_category"`
	ByType     map[string]int         `json:"by_type"`
}

// Score is a numeric score with its rating label.
type Score struct {
	Value  int    `json:"value"`
	Rating string `json:"rating"`
}

// Defense is the defense-posture score and the counts it is built from.
type Defense struct {
	Score
	Signature int `json:"signature"`
	Root      int `json:"root"`
	Emulator  int `json:"emulator"`
	Debugger  int `json:"debugger"`
}

// Permissions is the permission classification, usage and derived issues.
type Permissions struct {
	Dangerous    []string              `json:"dangerous"`
	Signature    []string              `json:"signature"`
	Normal       []string              `json:"normal"`
	Custom       []string              `json:"custom"`
	Capabilities []manifest.Capability `json:"capabilities"`
	Used         int                   `json:"used"`
	Unused       int                   `json:"unused"`
	Issues       []types.Finding       `json:"issues"`
}

// Libraries groups SDK detections by kind.
type Libraries struct {
	Libraries  []types.LibraryDetection `json:"libraries"`
	AdNetworks []types.LibraryDetection `json:"ad_networks"`
	Tracking   []types.LibraryDetection `json:"tracking_libraries"`
	Issues     []types.Finding          `json:"issues"`
}

// Registry returns the catalog the report was produced with.
func (r *Report) Registry() *detectors.Registry {
	if r.registry == nil {
		return detectors.Default()
	}
	return r.registry
}

package types

import "strings"

// Severity is a coarse-grained risk level for a finding.
type Severity string

const (
	SevInfo    Severity = "INFO"
	SevLow     Severity = "LOW"
	SevMedium  Severity = "MEDIUM"
	SevHigh    Severity = "HIGH"
	SevUnknown Severity = "UNKNOWN"
)

// Severities lists the known levels from most to least severe, followed by
// the UNKNOWN bucket used for anything unrecognised.
var Severities = []Severity{SevHigh, SevMedium, SevLow, SevInfo, SevUnknown}

// Rank orders severities for sorting and thresholds. UNKNOWN ranks lowest.
func (s Severity) Rank() int {
	switch s {
	case SevHigh:
		return 4
	case SevMedium:
		return 3
	case SevLow:
		return 2
	case SevInfo:
		return 1
	default:
		return 0
	}
}

// Known reports whether s is one of the four defined levels.
func (s Severity) Known() bool { return s.Rank() > 0 }

// ParseSeverity maps a case-insensitive name onto a Severity. Unrecognised
// names map to SevUnknown.
func ParseSeverity(s string) Severity {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "HIGH":
		return SevHigh
	case "MEDIUM", "MED":
		return SevMedium
	case "LOW":
		return SevLow
	case "INFO":
		return SevInfo
	default:
		return SevUnknown
	}
}

// Category identifies the detector family that produced a finding.
type Category string

const (
	CatAuthentication  Category = "authentication"
	CatCryptography    Category = "cryptography"
	CatLogging         Category = "logging"
	CatMemory          Category = "memory"
	CatStorage         Category = "storage"
	CatKeyboardCache   Category = "keyboard-cache"
	CatWebView         Category = "webview"
	CatScreenSecurity  Category = "screen-security"
	CatHardcodedSecret Category = "hardcoded-secret"
	CatAntiTampering   Category = "anti-tampering"
	CatRootDetection   Category = "root-detection"
	CatEmulatorDetect  Category = "emulator-detection"
	CatDebuggerDetect  Category = "debugger-detection"
	CatThirdPartyLib   Category = "third-party-library"
	CatAdNetwork       Category = "ad-network"
	CatTrackingLibrary Category = "tracking-library"
	CatManifest        Category = "manifest"
	CatPermission      Category = "permission"
	CatPermissionUsage Category = "permission-usage"
)

// Finding is a single heuristic observation. Line is 1-based and only set
// when the finding stems from a pattern match; Context holds the trimmed
// window around that match.
type Finding struct {
	Category    Category `json:"category,omitempty"`
	Type        string   `json:"type"`
	Severity    Severity `json:"severity"`
	Description string   `json:"description"`
	Location    string   `json:"location"`
	Line        int      `json:"line,omitempty"`
	Context     string   `json:"context,omitempty"`
}

// SourceUnit is one candidate file handed to the scan engine. Path is
// slash-separated and relative to the analysis root. Units are never mutated
// after construction so they can be shared between concurrent category scans.
type SourceUnit struct {
	Path    string
	Content string
	Size    int64
	Hash    uint64
}

// ScanNote records a non-fatal event such as a skipped oversized file.
type ScanNote struct {
	Path   string `json:"path"`
	Reason string `json:"reason"`
	Size   int64  `json:"size,omitempty"`
}

const (
	LocationManifest = "AndroidManifest.xml"
	LocationMultiple = "Multiple files"
)

// Evidence is one observed reference backing a usage or library claim.
type Evidence struct {
	File    string `json:"file"`
	Context string `json:"context"`
}

// MaxEvidence bounds the evidence kept per permission or SDK.
const MaxEvidence = 3

// LibraryDetection summarises the references to one third-party SDK.
type LibraryDetection struct {
	Name        string     `json:"name"`
	Kind        string     `json:"kind"`
	Detected    bool       `json:"detected"`
	Files       []string   `json:"files,omitempty"`
	ImportCount int        `json:"import_count"`
	Evidence    []Evidence `json:"evidence,omitempty"`
}

package detectors

import "github.com/droidaudit/droidaudit/internal/types"

const groupLogMemory = "log_memory_security"

// sensitiveArgs matches a call argument list mentioning a sensitive term.
const sensitiveArgs = `[^)]*?(?:password|token|key|secret|cred|auth|user|email)[^)]*?\)`

func logging() Category {
	sev := types.SevHigh
	return Category{
		ID:    types.CatLogging,
		Type:  "Log Leakage",
		Group: groupLogMemory,
		Trees: []Tree{SourcesTree},
		Rules: []Rule{
			simple("log-android-sensitive", `Log\.(v|d|i|w|e)\(`+sensitiveArgs, "Sensitive data may be logged", sev),
			simple("log-stdout-sensitive", `System\.out\.print(ln)?\(`+sensitiveArgs, "System.out printing sensitive data", sev),
			simple("log-debug-sensitive", `\.debug\(`+sensitiveArgs, "Debug logging of sensitive data", sev),
		},
	}
}

func memory() Category {
	sev := types.SevMedium
	return Category{
		ID:    types.CatMemory,
		Type:  "Memory Leakage",
		Group: groupLogMemory,
		Trees: []Tree{SourcesTree},
		Rules: []Rule{
			simple("mem-edittext-string", `\.getText\(\).toString\(\)`, "EditText content stored as String which may remain in memory", sev),
			simple("mem-sensitive-string", `String\s+\w+\s*=\s*.*?(password|token|key|secret|cred)[^;]*;`, "Sensitive data stored in String variable instead of char array", sev),
			simple("mem-flag-secure-off", `FLAG_SECURE.*?false`, "Screen security flag disabled, allowing screenshots", sev),
			simple("mem-prefs-plaintext", `\.putString\([^,]*?(password|token|key|secret|cred)[^,]*?,`, "Storing sensitive data in SharedPreferences as plain string", sev),
		},
	}
}

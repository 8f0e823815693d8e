package detectors

import (
	"regexp"

	"github.com/droidaudit/droidaudit/internal/types"
)

const groupBase = "base_security"

func secretRule(id, pattern, what string) Rule {
	return simple(id, pattern, "Potential "+what+" found in source code", types.SevHigh)
}

func hardcodedSecrets() Category {
	// Google keys have a fixed-case prefix.
	google := secretRule("secret-google-api-key", "", "Google API Key")
	google.Pattern = regexp.MustCompile(`AIza[0-9A-Za-z_-]{35}`)
	return Category{
		ID:    types.CatHardcodedSecret,
		Type:  "Hardcoded Secret",
		Group: groupBase,
		Trees: []Tree{SourcesTree},
		Rules: []Rule{
			secretRule("secret-api-key", `api[_-]?key\s*=\s*["']([^"']{10,})["']`, "API Key"),
			secretRule("secret-password", `password\s*=\s*["']([^"']{3,})["']`, "Password"),
			secretRule("secret-generic", `secret\s*=\s*["']([^"']{5,})["']`, "Secret"),
			secretRule("secret-firebase-url", `firebase.*\.com`, "Firebase URL"),
			google,
		},
	}
}

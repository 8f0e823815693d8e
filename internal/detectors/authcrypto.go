package detectors

import "github.com/droidaudit/droidaudit/internal/types"

const groupAuthCrypto = "auth_crypto_security"

func authentication() Category {
	sev := types.SevHigh
	return Category{
		ID:    types.CatAuthentication,
		Type:  "Authentication Issue",
		Group: groupAuthCrypto,
		Trees: []Tree{SourcesTree},
		Rules: []Rule{
			simple("auth-hardcoded-username", `(username|user|login)\s*=\s*["']([^"']+)["']`, "Hardcoded username found", sev),
			simple("auth-hardcoded-password", `password\s*=\s*["']([^"']+)["']`, "Hardcoded password found", sev),
			simple("auth-weak-password-hash", `SHA-?1|MD5`, "Weak hash algorithm used for passwords", sev),
			simple("auth-timing-compare", `\.equals\(.*?password`, "Potential timing attack vulnerability in password comparison", sev),
			simple("auth-prefs-password", `getSharedPreferences\([^)]*\)\.getString\([^)]*password[^)]*\)`, "Reading password from SharedPreferences without encryption", sev),
		},
	}
}

func cryptography() Category {
	sev := types.SevHigh
	cipher := Rule{
		ID:       "crypto-cipher-mode",
		Pattern:  ci(`Cipher\.getInstance\([^)]*\)`),
		Label:    "Cipher instantiation",
		Severity: sev,
		Kind:     KindContextual,
		Escalation: &Escalation{
			Insecure: []string{"ECB"},
			Secure:   []string{"CBC", "GCM"},
			Label:    "Potentially insecure cipher mode (not using CBC/GCM)",
		},
	}
	return Category{
		ID:    types.CatCryptography,
		Type:  "Cryptography Issue",
		Group: groupAuthCrypto,
		Trees: []Tree{SourcesTree},
		Rules: []Rule{
			simple("crypto-weak-algorithm", `DES|3DES|RC2|RC4|BLOWFISH|MD4|MD5|SHA-?1`, "Weak or deprecated cryptographic algorithm", sev),
			simple("crypto-ecb-mode", `ECB|Electronic\s+Codebook`, "Insecure ECB mode used for encryption", sev),
			simple("crypto-static-key", `new\s+SecretKeySpec\([^,]+,.+\)`, "Check for hardcoded encryption key", sev),
			cipher,
			simple("crypto-insecure-random", `java\.util\.Random|Math\.random`, "Insecure random number generator used for cryptography", sev),
			simple("crypto-static-iv", `const val IV|static final byte\[\] IV|final static byte\[\] IV|String IV|static String IV`, "Hardcoded Initialization Vector", sev),
		},
	}
}

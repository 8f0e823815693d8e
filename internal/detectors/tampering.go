package detectors

import "github.com/droidaudit/droidaudit/internal/types"

const groupAntiTampering = "anti_tampering"

// Emulator probes are common in obfuscated SDK code, so the category stops
// after a handful of matches per file and a fixed number of contributing
// files.
const (
	EmulatorMaxMatchesPerFile   = 5
	EmulatorMaxFilesWithMatches = 20
)

func info(id, pattern, label string) Rule {
	return simple(id, pattern, label, types.SevInfo)
}

func antiTampering() Category {
	d := func(what string) string { return "Potential " + what + " detected" }
	return Category{
		ID:    types.CatAntiTampering,
		Type:  "Anti-Tampering",
		Group: groupAntiTampering,
		Trees: []Tree{SourcesTree},
		Rules: []Rule{
			info("tamper-get-signatures", `PackageManager\.GET_SIGNATURES`, d("Signature verification check")),
			info("tamper-package-signatures", `getPackageInfo\([^,]+,\s*PackageManager\.GET_SIGNATURES\)`, d("Signature verification check")),
			info("tamper-certificate", `X509Certificate|CertificateFactory\.getInstance\(`, d("Certificate validation")),
			info("tamper-signature-verify", `signature.*?verify|verify.*?signature`, d("Signature verification check")),
			info("tamper-hash-verify", `MessageDigest|digest\.update|digest\.digest`, d("Hash verification")),
		},
	}
}

func rootDetection() Category {
	d := func(what string) string { return "Potential " + what + " mechanism found" }
	return Category{
		ID:    types.CatRootDetection,
		Type:  "Root Detection",
		Group: groupAntiTampering,
		Trees: []Tree{SourcesTree},
		Rules: []Rule{
			info("root-su-binary", `/system/bin/su|/system/xbin/su|/sbin/su|/system/app/Superuser\.apk|/system/app/SuperSU\.apk`, d("Root binary detection")),
			info("root-test-keys", `test-keys`, d("Test keys detection")),
			info("root-library", `RootBeer|RootTools|Rootcloakplus|Rootchecker`, d("Root detection library")),
			info("root-runtime-su", `getRuntime\(\)\.exec\([^)]*su[^)]*\)`, d("Runtime execution check for su")),
			info("root-shell-su", `Shell\.exec\([^)]*su[^)]*\)`, d("Shell execution check for su")),
			info("root-method", `RootDetection|detectRootedDevice|isDeviceRooted`, d("Root detection method")),
		},
	}
}

func emulatorDetection() Category {
	d := func(what string) string { return "Potential " + what + " found" }
	return Category{
		ID:    types.CatEmulatorDetect,
		Type:  "Emulator Detection",
		Group: groupAntiTampering,
		Trees: []Tree{SourcesTree},
		Budget: &Budget{
			MaxMatchesPerFile:   EmulatorMaxMatchesPerFile,
			MaxFilesWithMatches: EmulatorMaxFilesWithMatches,
		},
		Rules: []Rule{
			info("emu-build-fingerprint", `android\.os\.Build\.FINGERPRINT.*?generic|.*?sdk|.*?sdk_gphone`, d("Build fingerprint check")),
			info("emu-build-model", `android\.os\.Build\.MODEL.*?sdk|.*?Emulator|.*?Android SDK`, d("Device model check")),
			info("emu-build-manufacturer", `android\.os\.Build\.MANUFACTURER.*?Google|.*?Genymotion`, d("Manufacturer check")),
			info("emu-build-hardware", `android\.os\.Build\.HARDWARE.*?goldfish|.*?ranchu`, d("Hardware check")),
			info("emu-build-product", `android\.os\.Build\.PRODUCT.*?sdk|.*?google_sdk|.*?sdk_x86|.*?sdk_gphone`, d("Product check")),
			info("emu-method", `isEmulator|detectEmulator|EmulatorDetector`, d("Emulator detection method")),
			info("emu-qemu-strings", `qemu|goldfish|x86_64|x86\.`, d("QEMU/emulator string check")),
		},
	}
}

func debuggerDetection() Category {
	d := func(what string) string { return "Potential " + what + " detected" }
	return Category{
		ID:    types.CatDebuggerDetect,
		Type:  "Anti-Debugging",
		Group: groupAntiTampering,
		Trees: []Tree{SourcesTree},
		Rules: []Rule{
			info("debug-connected-call", `Debug\.isDebuggerConnected\(\)`, d("Debugger connection check")),
			info("debug-class", `android\.os\.Debug`, d("Debug class usage")),
			info("debug-method", `isDebuggerConnected|AmIBeingDebugged`, d("Debugger detection method")),
			info("debug-flag-disabled", `android:debuggable="false"`, d("Explicit debug disabled flag")),
			info("debug-monkey", `ActivityManager\.isUserAMonkey\(\)`, d("Test environment detection")),
			info("debug-attach-context", `attachBaseContext`, d("Runtime manipulation check")),
		},
	}
}

package detectors

import (
	"strings"

	"github.com/droidaudit/droidaudit/internal/types"
)

const groupPlatform = "platform_security"

var (
	inputWidgets       = []string{"EditText", "TextInputLayout"}
	sensitiveInputs    = []string{"password", "credit", "username", "email"}
	activityMarkers    = []string{"extends Activity", "extends AppCompatActivity", ": Activity(", ": AppCompatActivity("}
	sensitiveScreenTag = []string{"password", "login", "auth", "credit", "payment", "secure", "personal", "profile", "account"}
)

// sensitiveInputField reports whether content declares an input widget that
// looks like it collects sensitive data.
func sensitiveInputField(content string) bool {
	return containsAny(content, inputWidgets) && containsAny(strings.ToLower(content), sensitiveInputs)
}

func keyboardCache() Category {
	sev := types.SevLow
	return Category{
		ID:    types.CatKeyboardCache,
		Type:  "Keyboard Cache",
		Group: groupPlatform,
		Trees: []Tree{LayoutsTree, SourcesTree},
		Checks: []FileCheck{
			{
				ID:       "keyboard-layout-suggestions",
				Tree:     LayoutsTree.Name,
				Label:    "Sensitive input field may allow keyboard suggestions/caching",
				Severity: sev,
				Applies: func(c string) bool {
					return sensitiveInputField(c) &&
						strings.Contains(c, "android:inputType") &&
						!strings.Contains(c, "textNoSuggestions")
				},
			},
			{
				ID:       "keyboard-code-suggestions",
				Tree:     SourcesTree.Name,
				Label:    "Programmatically configured input field may allow keyboard suggestions",
				Severity: sev,
				Applies: func(c string) bool {
					return sensitiveInputField(c) &&
						strings.Contains(c, "setInputType") &&
						!strings.Contains(c, "InputType.TYPE_TEXT_FLAG_NO_SUGGESTIONS")
				},
			},
		},
	}
}

func webView() Category {
	sev := types.SevHigh
	return Category{
		ID:    types.CatWebView,
		Type:  "WebView Issue",
		Group: groupPlatform,
		Trees: []Tree{SourcesTree},
		Gate:  []string{"WebView"},
		Rules: []Rule{
			simple("webview-javascript", `setJavaScriptEnabled\(true\)`, "JavaScript enabled in WebView which may lead to XSS", sev),
			simple("webview-js-interface", `addJavascriptInterface\([^,]+,\s*["'][^"']+["']\)`, "JavaScript interface exposed to WebView without proper validation", sev),
			simple("webview-file-access", `setAllowFileAccess\(true\)`, "File access enabled in WebView which may lead to local file inclusion", sev),
			simple("webview-content-access", `setAllowContentAccess\(true\)`, "Content access enabled in WebView which may expose content providers", sev),
			simple("webview-file-url-access", `setAllowFileAccessFromFileURLs\(true\)`, "File URL access enabled which may lead to local file inclusion", sev),
			simple("webview-dom-storage", `setDomStorageEnabled\(true\)`, "DOM storage enabled in WebView which may store sensitive data", sev),
			simple("webview-save-password", `setSavePassword\(true\)`, "Password saving enabled in WebView which may store credentials", sev),
			simple("webview-ssl-proceed", `onReceivedSslError[^{]*\{[^}]*proceed`, "SSL errors ignored in WebView which defeats HTTPS protections", sev),
		},
	}
}

func screenSecurity() Category {
	return Category{
		ID:    types.CatScreenSecurity,
		Type:  "Missing FLAG_SECURE",
		Group: groupPlatform,
		Trees: []Tree{SourcesTree},
		Checks: []FileCheck{{
			ID:       "screen-missing-flag-secure",
			Tree:     SourcesTree.Name,
			Label:    "Sensitive screen missing FLAG_SECURE, allowing screenshots and screen recording",
			Severity: types.SevMedium,
			Applies: func(c string) bool {
				return containsAny(c, activityMarkers) &&
					containsAny(strings.ToLower(c), sensitiveScreenTag) &&
					!strings.Contains(c, "FLAG_SECURE")
			},
		}},
	}
}

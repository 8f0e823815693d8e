package analysis

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/droidaudit/droidaudit/internal/engine"
	"github.com/droidaudit/droidaudit/internal/manifest"
	"github.com/droidaudit/droidaudit/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	p := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
}

const appManifest = `<manifest xmlns:android="http://schemas.android.com/apk/res/android" package="com.acme.app">
  <uses-permission android:name="android.permission.CAMERA"/>
  <uses-permission android:name="android.permission.READ_CONTACTS"/>
  <uses-permission android:name="android.permission.INTERNET"/>
  <permission android:name="com.acme.permission.SYNC"/>
  <application android:allowBackup="false">
    <activity android:name=".Main" android:exported="true"/>
  </application>
</manifest>`

func sampleRoot(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeFile(t, root, manifest.Path, appManifest)
	writeFile(t, root, "sources/com/acme/Main.java", `package com.acme;
import retrofit2.Retrofit;
import com.mixpanel.android.MixpanelAPI;
import com.amplitude.api.Amplitude;
import com.appsflyer.AppsFlyerLib;
class Main {
  void run() {
    CameraManager cm = null;
    Log.d("main", "token=" + token);
    if (isDeviceRooted()) { finish(); }
  }
}
`)
	return root
}

func fixedNow() time.Time { return time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC) }

func TestAnalyze_EndToEnd(t *testing.T) {
	root := sampleRoot(t)
	r, err := Analyze(context.Background(), Options{
		Engine:  engine.Config{Root: root},
		Version: "test",
		Now:     fixedNow,
	})
	require.NoError(t, err)

	assert.NotEmpty(t, r.ID)
	assert.Equal(t, "com.acme.app", r.Package)
	assert.Equal(t, fixedNow(), r.GeneratedAt)
	assert.Equal(t, Tool{Name: ToolName, Version: "test"}, r.Tool)
	assert.Empty(t, r.Diagnostics)
	assert.Equal(t, 1, r.Stats.FilesScanned)

	byType := map[string]int{}
	for _, f := range r.Findings {
		byType[f.Type]++
	}
	assert.Equal(t, 1, byType["Exported Component"])
	assert.Equal(t, 1, byType[TypeUnusedPermission], "only READ_CONTACTS is dangerous and unused")
	assert.Equal(t, 1, byType[TypeCustomPermissions])
	assert.Equal(t, 1, byType[TypeExcessiveTracking])
	assert.Equal(t, 1, byType[TypeNetworkLibraries])
	assert.Equal(t, 1, byType["Log Leakage"])
	assert.Equal(t, 0, byType["Backup Enabled"])

	assert.Equal(t, []string{"android.permission.CAMERA", "android.permission.READ_CONTACTS"}, r.Permissions.Dangerous)
	assert.Equal(t, []string{"com.acme.permission.SYNC"}, r.Permissions.Custom)
	// CAMERA and INTERNET (via the Retrofit import) are used
	assert.Equal(t, 2, r.Permissions.Used)
	assert.Equal(t, 2, r.Permissions.Unused)

	require.Len(t, r.Libraries.Tracking, 3)
	assert.Equal(t, "Retrofit", r.Libraries.Libraries[0].Name)
	assert.Equal(t, r.Summary.Total, len(r.Findings))
	assert.Equal(t, 1, r.Defense.Root)
	assert.Equal(t, 15, r.Defense.Value)
	assert.Equal(t, "Weak", r.Defense.Rating)
}

func TestAnalyze_MissingManifestIsDiagnostic(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "sources/A.java", "class A {}")
	r, err := Analyze(context.Background(), Options{Engine: engine.Config{Root: root}})
	require.NoError(t, err)
	require.Len(t, r.Diagnostics, 1)
	assert.Contains(t, r.Diagnostics[0], "not found")
	assert.Empty(t, r.Permissions.Capabilities)
	assert.NotNil(t, r.Permissions.Dangerous)
	assert.Equal(t, 100, r.Risk.Value)
}

func TestAnalyze_MalformedManifestIsDiagnostic(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, manifest.Path, "<manifest><application></manifest>")
	r, err := Analyze(context.Background(), Options{Engine: engine.Config{Root: root}})
	require.NoError(t, err)
	require.Len(t, r.Diagnostics, 1)
	assert.Contains(t, r.Diagnostics[0], "malformed")
}

func TestAnalyze_MissingRoot(t *testing.T) {
	_, err := Analyze(context.Background(), Options{Engine: engine.Config{Root: filepath.Join(t.TempDir(), "nope")}})
	assert.ErrorIs(t, err, engine.ErrRootNotFound)
}

func TestAnalyze_SkipDropsBeforeScoring(t *testing.T) {
	root := sampleRoot(t)
	all, err := Analyze(context.Background(), Options{Engine: engine.Config{Root: root}})
	require.NoError(t, err)
	filtered, err := Analyze(context.Background(), Options{
		Engine: engine.Config{Root: root},
		Skip:   func(f types.Finding) bool { return f.Severity == types.SevHigh },
	})
	require.NoError(t, err)
	for _, f := range filtered.Findings {
		assert.NotEqual(t, types.SevHigh, f.Severity)
	}
	assert.Zero(t, filtered.Summary.BySeverity[types.SevHigh])
	assert.Greater(t, filtered.Risk.Value, all.Risk.Value)
}

func TestAnalyze_Deterministic(t *testing.T) {
	root := sampleRoot(t)
	a, err := Analyze(context.Background(), Options{Engine: engine.Config{Root: root, Threads: 1}})
	require.NoError(t, err)
	b, err := Analyze(context.Background(), Options{Engine: engine.Config{Root: root, Threads: 8}})
	require.NoError(t, err)
	assert.Equal(t, a.Findings, b.Findings)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestFindingGroups(t *testing.T) {
	root := sampleRoot(t)
	r, err := Analyze(context.Background(), Options{Engine: engine.Config{Root: root}})
	require.NoError(t, err)
	groups := r.FindingGroups()
	for _, g := range []string{"base_security", "log_memory_security", "auth_crypto_security", "storage_security", "platform_security", "anti_tampering"} {
		assert.Contains(t, groups, g)
	}
	assert.NotContains(t, groups, GroupPermissions)
	assert.NotContains(t, groups, GroupThirdParty)
	require.Len(t, groups["platform_security"], 1)
	assert.Equal(t, "Exported Component", groups["platform_security"][0].Type)
	require.NotEmpty(t, groups["log_memory_security"])

	assert.Equal(t, GroupStorage, r.GroupOf(types.Finding{Category: types.CatManifest, Type: manifest.TypeBackupEnabled}))
	assert.Equal(t, GroupBase, r.GroupOf(types.Finding{Category: types.CatManifest, Type: manifest.TypeInsecureNetwork}))
	assert.Equal(t, GroupPermissions, r.GroupOf(types.Finding{Category: types.CatPermission}))
	assert.Equal(t, GroupThirdParty, r.GroupOf(types.Finding{Category: types.CatAdNetwork}))
	assert.Equal(t, "anti_tampering", r.GroupOf(types.Finding{Category: types.CatRootDetection}))
}

func TestPermissionIssues_Excessive(t *testing.T) {
	var b strings.Builder
	b.WriteString(`<manifest xmlns:android="http://schemas.android.com/apk/res/android">`)
	for _, p := range []string{"CAMERA", "READ_CONTACTS", "WRITE_CONTACTS", "RECORD_AUDIO", "ACCESS_FINE_LOCATION", "READ_CALENDAR"} {
		b.WriteString(`<uses-permission android:name="android.permission.` + p + `"/>`)
	}
	b.WriteString(`</manifest>`)
	doc, err := manifest.Parse(strings.NewReader(b.String()))
	require.NoError(t, err)
	m := manifest.Extract(doc)

	var excessive *types.Finding
	unused := 0
	for _, f := range PermissionIssues(m) {
		switch f.Type {
		case TypeExcessivePermissions:
			f := f
			excessive = &f
		case TypeUnusedPermission:
			unused++
		}
	}
	assert.Equal(t, 6, unused)
	require.NotNil(t, excessive)
	assert.Equal(t, "App requests 6 dangerous permissions which may raise privacy concerns", excessive.Description)
	prefix := "The app requests multiple dangerous permissions including: "
	require.True(t, strings.HasPrefix(excessive.Context, prefix))
	assert.True(t, strings.HasSuffix(excessive.Context, "..."))
	assert.LessOrEqual(t, len(excessive.Context), len(prefix)+100+3)
	assert.Equal(t, types.LocationManifest, excessive.Location)
}

func TestLibraryIssues(t *testing.T) {
	det := func(name, kind string) types.LibraryDetection {
		return types.LibraryDetection{Name: name, Kind: kind, Detected: true}
	}
	l := SplitLibraries([]types.LibraryDetection{
		det("OkHttp", "library"),
		det("Volley", "library"),
		det("Gson", "library"),
		det("AppLovin", "ad-network"),
		det("Vungle", "ad-network"),
		det("Flurry", "tracking"),
	})
	fs := LibraryIssues(l)
	require.Len(t, fs, 2)
	assert.Equal(t, TypeMultipleAdNetworks, fs[0].Type)
	assert.Equal(t, types.SevLow, fs[0].Severity)
	assert.Equal(t, "Detected ad networks: AppLovin, Vungle", fs[0].Context)
	assert.Equal(t, TypeNetworkLibraries, fs[1].Type)
	assert.Equal(t, "App uses OkHttp, Volley for network communication", fs[1].Description)
	assert.Equal(t, types.LocationMultiple, fs[1].Location)

	assert.Empty(t, LibraryIssues(SplitLibraries([]types.LibraryDetection{det("Gson", "library"), det("Flurry", "tracking")})))
}

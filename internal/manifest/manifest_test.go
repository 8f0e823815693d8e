package manifest

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/droidaudit/droidaudit/internal/detectors"
	"github.com/droidaudit/droidaudit/internal/engine"
	"github.com/droidaudit/droidaudit/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleManifest = `<?xml version="1.0" encoding="utf-8"?>
<manifest xmlns:android="http://schemas.android.com/apk/res/android" package="com.acme.app">
    <uses-permission android:name="android.permission.INTERNET"/>
    <uses-permission android:name="android.permission.CAMERA"/>
    <uses-permission android:name="android.permission.READ_SMS"/>
    <uses-permission android:name="android.permission.CAMERA"/>
    <uses-permission-sdk-23 android:name="android.permission.ACCESS_FINE_LOCATION"/>
    <permission-group android:name="com.acme.group.PRIVATE"/>
    <permission android:name="com.acme.permission.SYNC" android:protectionLevel="signature"/>
    <application android:label="Acme" android:usesCleartextTraffic="true" android:networkSecurityConfig="@xml/net">
        <activity android:name=".MainActivity">
            <intent-filter>
                <action android:name="android.intent.action.VIEW"/>
                <data android:scheme="acme" android:host="open"/>
                <data android:scheme="https"/>
            </intent-filter>
        </activity>
        <activity android:name=".Hidden" android:exported="false">
            <intent-filter><action android:name="x"/></intent-filter>
        </activity>
        <activity android:name=".Plain"/>
        <service android:name=".SyncService" android:exported="true" android:permission="com.acme.permission.SYNC"/>
        <receiver android:name=".BootReceiver" android:exported="true"/>
        <provider android:name=".Files" android:exported="@bool/expose">
            <intent-filter><data/></intent-filter>
        </provider>
    </application>
</manifest>
`

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	p := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
}

func loadSample(t *testing.T) (*Manifest, string) {
	t.Helper()
	root := t.TempDir()
	writeFile(t, root, Path, sampleManifest)
	m, err := Load(root)
	require.NoError(t, err)
	return m, root
}

func TestLoad_Capabilities(t *testing.T) {
	m, _ := loadSample(t)
	assert.Equal(t, "com.acme.app", m.Package)

	var got []string
	for _, c := range m.Capabilities {
		got = append(got, string(c.Kind)+":"+c.Name)
	}
	assert.Equal(t, []string{
		"requested:android.permission.INTERNET",
		"requested:android.permission.CAMERA",
		"requested:android.permission.READ_SMS",
		"requested:android.permission.ACCESS_FINE_LOCATION",
		"group:com.acme.group.PRIVATE",
		"custom:com.acme.permission.SYNC",
	}, got)

	assert.Equal(t, []string{
		"android.permission.CAMERA",
		"android.permission.READ_SMS",
		"android.permission.ACCESS_FINE_LOCATION",
	}, m.ByClass(detectors.ClassDangerous))
	assert.Equal(t, []string{"com.acme.permission.SYNC"}, m.ByClass(detectors.ClassCustom))
	assert.Len(t, m.Requested(), 4)
}

func TestComponent_Exposure(t *testing.T) {
	cases := []struct {
		name     string
		exported Flag
		filters  int
		want     Exposure
	}{
		{"unset without filter", FlagUnset, 0, NotExposed},
		{"unset with filter", FlagUnset, 1, ExposedViaFilter},
		{"false with filter", FlagFalse, 1, NotExposed},
		{"true without filter", FlagTrue, 0, ExposedExplicit},
		{"true with filter", FlagTrue, 2, ExposedExplicit},
		{"other with filter", FlagOther, 1, ExposedViaFilter},
		{"other without filter", FlagOther, 0, NotExposed},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := Component{Kind: KindActivity, Name: "A", Exported: tc.exported, Filters: make([]IntentFilter, tc.filters)}
			assert.Equal(t, tc.want, c.Exposure())
		})
	}
}

func TestLoad_Components(t *testing.T) {
	m, _ := loadSample(t)
	require.Len(t, m.Components, 6)

	byName := map[string]Component{}
	for _, c := range m.Components {
		byName[c.Name] = c
	}
	assert.Equal(t, ExposedViaFilter, byName[".MainActivity"].Exposure())
	assert.Equal(t, NotExposed, byName[".Hidden"].Exposure())
	assert.Equal(t, NotExposed, byName[".Plain"].Exposure())
	assert.Equal(t, ExposedExplicit, byName[".SyncService"].Exposure())
	assert.True(t, byName[".SyncService"].Protected())
	assert.Equal(t, KindProvider, byName[".Files"].Kind)
	assert.Equal(t, FlagOther, byName[".Files"].Exported)

	main := byName[".MainActivity"].Filters
	require.Len(t, main, 1)
	assert.True(t, main[0].HasData)
	assert.Equal(t, []string{"acme", "https"}, main[0].Schemes)
	assert.Equal(t, []string{"open"}, main[0].Hosts)
}

func TestFindings(t *testing.T) {
	m, root := loadSample(t)
	writeFile(t, root, "resources/res/xml/net.xml", `<network-security-config><base-config cleartextTrafficPermitted="true"/></network-security-config>`)

	var got []string
	for _, f := range m.Findings(root) {
		assert.Equal(t, types.CatManifest, f.Category)
		got = append(got, string(f.Severity)+"|"+f.Type+"|"+f.Description+"|"+f.Location)
	}
	assert.Equal(t, []string{
		"HIGH|Exported Component|Activity '.MainActivity' is exported without permission protection|AndroidManifest.xml",
		"HIGH|Exported Component|Broadcast Receiver '.BootReceiver' is exported without permission protection|AndroidManifest.xml",
		"HIGH|Exported Component|Content Provider '.Files' is exported without permission protection|AndroidManifest.xml",
		"MEDIUM|Deep Link Issue|Deep link handler '.MainActivity' is accessible without permission protection (schemes: acme, https, hosts: open)|AndroidManifest.xml",
		"MEDIUM|Deep Link Issue|Deep link handler '.Files' is accessible without permission protection (schemes: any, hosts: any)|AndroidManifest.xml",
		"MEDIUM|Backup Enabled|App allows backups which could expose sensitive data|AndroidManifest.xml",
		"HIGH|Insecure Network|App allows cleartext traffic which can be intercepted|AndroidManifest.xml",
		"HIGH|Insecure Network Config|Cleartext traffic is permitted in the network security config|resources/res/xml/net.xml",
	}, got)
}

func TestFindings_ApplicationFlags(t *testing.T) {
	cases := []struct {
		attrs  string
		backup bool
	}{
		{``, true},
		{`android:allowBackup="true"`, true},
		{`android:allowBackup="false"`, false},
		{`android:allowBackup="@bool/backup"`, false},
	}
	for _, tc := range cases {
		root := t.TempDir()
		writeFile(t, root, Path, `<manifest xmlns:android="`+AndroidNS+`"><application `+tc.attrs+`/></manifest>`)
		m, err := Load(root)
		require.NoError(t, err)
		var backup bool
		for _, f := range m.Findings(root) {
			if f.Type == TypeBackupEnabled {
				backup = true
			}
			assert.NotEqual(t, TypeInsecureNetwork, f.Type)
		}
		assert.Equal(t, tc.backup, backup, tc.attrs)
	}

	// no <application> element, no application findings
	root := t.TempDir()
	writeFile(t, root, Path, `<manifest/>`)
	m, err := Load(root)
	require.NoError(t, err)
	assert.Empty(t, m.Findings(root))
}

func TestFindings_DefaultNetworkConfig(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, Path, `<manifest xmlns:android="`+AndroidNS+`"><application android:allowBackup="false"/></manifest>`)
	writeFile(t, root, NetworkConfigPath, `<domain-config cleartextTrafficPermitted="true"/>`)
	m, err := Load(root)
	require.NoError(t, err)
	fs := m.Findings(root)
	require.Len(t, fs, 1)
	assert.Equal(t, NetworkConfigPath, fs[0].Location)
}

func TestLoad_MissingAndMalformed(t *testing.T) {
	root := t.TempDir()
	m, err := Load(root)
	assert.ErrorIs(t, err, ErrManifestNotFound)
	require.NotNil(t, m)
	assert.Empty(t, m.Capabilities)
	assert.Empty(t, m.Components)

	writeFile(t, root, Path, `<manifest><application></manifest>`)
	m, err = Load(root)
	assert.ErrorIs(t, err, ErrManifestMalformed)
	assert.False(t, errors.Is(err, ErrManifestNotFound))
	require.NotNil(t, m)
	assert.Empty(t, m.Findings(root))

	writeFile(t, root, Path, `<resources/>`)
	_, err = Load(root)
	assert.ErrorIs(t, err, ErrManifestMalformed)
}

func TestNode_AttrPrefersAndroidNamespace(t *testing.T) {
	doc, err := Parse(strings.NewReader(`<a xmlns:android="` + AndroidNS + `" name="plain" android:name="ns"/>`))
	require.NoError(t, err)
	v, ok := doc.Attr("name")
	assert.True(t, ok)
	assert.Equal(t, "ns", v)

	// an undeclared prefix still reads as android
	doc, err = Parse(strings.NewReader(`<a android:exported="true"/>`))
	require.NoError(t, err)
	v, _ = doc.Attr("exported")
	assert.Equal(t, "true", v)

	_, ok = doc.Attr("missing")
	assert.False(t, ok)
}

type fakeScanner struct {
	cat      detectors.Category
	width    int
	findings []types.Finding
}

func (f *fakeScanner) Scan(_ context.Context, cat detectors.Category, width int) ([]types.Finding, error) {
	f.cat, f.width = cat, width
	return f.findings, nil
}

func TestCorrelate_FoldsEvidence(t *testing.T) {
	m, _ := loadSample(t)
	var fs []types.Finding
	for i := 0; i < 5; i++ {
		fs = append(fs, types.Finding{Description: "android.permission.CAMERA", Location: "sources/Cam.java", Context: "CameraManager"})
	}
	s := &fakeScanner{findings: fs}
	require.NoError(t, m.Correlate(context.Background(), s))

	assert.Equal(t, UsageContextWidth, s.width)
	assert.Equal(t, types.CatPermissionUsage, s.cat.ID)
	var ruleIDs []string
	for _, r := range s.cat.Rules {
		ruleIDs = append(ruleIDs, r.ID)
	}
	assert.Equal(t, []string{
		"android.permission.INTERNET",
		"android.permission.CAMERA",
		"android.permission.READ_SMS",
		"android.permission.ACCESS_FINE_LOCATION",
	}, ruleIDs)

	states := map[string]Usage{}
	for _, c := range m.Capabilities {
		states[c.Name] = c.Usage
	}
	cam := states["android.permission.CAMERA"]
	assert.True(t, cam.Used)
	assert.Equal(t, UsageObserved, cam.State)
	assert.Equal(t, 5, cam.UsageCount)
	assert.Len(t, cam.Evidence, types.MaxEvidence)
	assert.Equal(t, "CAMERA", cam.ShortName)

	assert.Equal(t, UsageNotObserved, states["android.permission.INTERNET"].State)
	assert.False(t, states["android.permission.INTERNET"].Used)
	assert.Equal(t, UsageNoPatternSet, states["com.acme.permission.SYNC"].State)
	assert.False(t, states["com.acme.permission.SYNC"].Used)

	var unused []string
	for _, c := range m.Unused(detectors.ClassDangerous) {
		unused = append(unused, c.ShortName())
	}
	assert.Equal(t, []string{"READ_SMS", "ACCESS_FINE_LOCATION"}, unused)
}

func TestCorrelate_WithEngine(t *testing.T) {
	m, root := loadSample(t)
	writeFile(t, root, "sources/com/acme/Cam.java", "class Cam {\n  CameraManager cm = (CameraManager) ctx.getSystemService(\"camera\");\n}\n")
	writeFile(t, root, "sources/com/google/Vendored.java", "SmsManager x; getContentResolver().query(sms);")

	e, err := engine.New(engine.Config{Root: root})
	require.NoError(t, err)
	require.NoError(t, m.Correlate(context.Background(), e))

	for _, c := range m.Capabilities {
		switch c.Name {
		case "android.permission.CAMERA":
			assert.True(t, c.Usage.Used)
			assert.Equal(t, 2, c.Usage.UsageCount)
			require.NotEmpty(t, c.Usage.Evidence)
			assert.Equal(t, "sources/com/acme/Cam.java", c.Usage.Evidence[0].File)
		case "android.permission.READ_SMS":
			assert.False(t, c.Usage.Used, "vendored code does not count as usage")
		}
	}
}

func TestComponent_MarshalJSON(t *testing.T) {
	c := Component{Kind: KindReceiver, Name: ".R", Exported: FlagTrue}
	b, err := json.Marshal(c)
	require.NoError(t, err)
	var got map[string]any
	require.NoError(t, json.Unmarshal(b, &got))
	assert.Equal(t, "receiver", got["kind"])
	assert.Equal(t, "true", got["exported"])
	assert.Equal(t, "explicit", got["exposure"])
	assert.Equal(t, false, got["protected"])
}

func TestExtract_UnqualifiedAttributes(t *testing.T) {
	doc, err := Parse(strings.NewReader(`<manifest><application>
		<activity name="A"><intent-filter/></activity>
		<activity name="B" exported="false"><intent-filter/></activity>
	</application></manifest>`))
	require.NoError(t, err)
	m := Extract(doc)
	require.Len(t, m.Components, 2)
	assert.Equal(t, "A", m.Components[0].Name)
	assert.True(t, m.Components[0].Exposed())
	assert.False(t, m.Components[1].Exposed())
}

func TestComponent_JSONRoundTrip(t *testing.T) {
	in := Component{Kind: KindProvider, Name: ".P", Exported: FlagOther, Filters: []IntentFilter{{HasData: true, Schemes: []string{"content"}}}}
	b, err := json.Marshal(in)
	require.NoError(t, err)
	var out Component
	require.NoError(t, json.Unmarshal(b, &out))
	assert.Equal(t, in, out)
}

package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllowedByGlobs(t *testing.T) {
	cases := []struct {
		name    string
		rel     string
		include string
		exclude string
		want    bool
	}{
		{"no globs", "sources/A.java", "", "", true},
		{"include hit", "sources/A.java", "**/*.java", "", true},
		{"include miss", "sources/A.kt", "**/*.java", "", false},
		{"include base name", "sources/deep/A.java", "A.java", "", true},
		{"exclude wins", "sources/A.java", "**/*.java", "**/A.java", false},
		{"exclude list", "sources/gen/R.java", "", "  , **/gen/** ,", false},
		{"windows separators", `sources\A.java`, "sources/*.java", "", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := allowedByGlobs(tc.rel, Config{IncludeGlobs: tc.include, ExcludeGlobs: tc.exclude})
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestIsVendored(t *testing.T) {
	assert.True(t, isVendored("sources/com/google/android/gms/Ads.java", DefaultVendored))
	assert.True(t, isVendored("sources/androidx/appcompat/App.java", DefaultVendored))
	assert.False(t, isVendored("sources/com/googlex/App.java", DefaultVendored))
	assert.False(t, isVendored("sources/com/acme/App.java", DefaultVendored))
	assert.True(t, isVendored("sources/okhttp3/Call.java", []string{"**/okhttp3/**"}))
}

func TestHasExt(t *testing.T) {
	exts := []string{".java", ".kt"}
	assert.True(t, hasExt("a/B.java", exts))
	assert.True(t, hasExt("a/B.KT", exts))
	assert.False(t, hasExt("a/B.xml", exts))
	assert.False(t, hasExt("a/java", exts))
}

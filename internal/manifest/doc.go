// Package manifest reads the decoded AndroidManifest.xml of an analysis
// root. It extracts declared permissions and components, derives component
// exposure, reports manifest-level findings and correlates declared
// permissions with API usage found in the sources tree.
package manifest

// Package engine contains the core scanning logic for droidaudit. It walks
// the decompiled tree, runs detector categories, and returns structured
// findings. This package is internal; external consumers should use the
// stable facade in pkg/core.
package engine

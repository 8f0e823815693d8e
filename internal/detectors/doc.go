// Package detectors holds the catalog of Android security heuristics: ordered
// regular-expression rules grouped into categories, whole-file checks, the
// third-party SDK catalog and the permission tables used for usage
// correlation.
package detectors

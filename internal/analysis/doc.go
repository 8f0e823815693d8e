// Package analysis runs a complete analysis of one decompiled application
// tree. It drives the scan engine, the manifest correlator and the library
// detector, then folds their output into a scored Report, the single value
// handed to renderers.
package analysis

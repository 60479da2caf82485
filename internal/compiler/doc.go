// Package compiler turns CUE project definitions into timeline models.
//
// A project file declares the asset library, the track layout with its
// initial items, and optionally a clip graph for chain compositions. The
// compiler uses the CUE SDK's Go API directly (not a CLI subprocess) and
// reports errors with source positions. Validation is a separate pass
// over the compiled project and collects every problem instead of
// failing fast.
package compiler

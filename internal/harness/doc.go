// Package harness runs plan fixtures through the compiler and compares the
// result against golden snapshots.
//
// # Fixture Layout
//
// A fixture directory holds plan files and their snapshots:
//
//	testdata/
//	  plans/
//	    stores_near_berlin.yaml
//	    sales_by_month.cue
//	  golden/
//	    stores_near_berlin.golden
//	    sales_by_month.golden
//
// The golden file name is the plan file name without its extension.
//
// # Snapshot Format
//
// A snapshot is canonical JSON (see dsl.MarshalCanonical) holding the plan
// name, the root type, the fingerprint, the compiled document and the lint
// warnings:
//
//	{"document":{...},"fingerprint":"…","name":"…","type":"search.request","warnings":[]}
//
// Canonical bytes are stable across runs, so snapshots diff cleanly.
//
// # Updating
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
package harness

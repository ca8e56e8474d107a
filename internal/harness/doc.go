// Package harness runs YAML conformance scenarios against the offline icon
// cache.
//
// A scenario is a list of steps (store, load, has, clear, raw, rev_version,
// offline) executed through an icon library wired to a fresh backend. Each
// step may carry expectations on the resulting status, presence flag, or
// loaded icon names. Scenarios that list several backends run the same steps
// against each of them, which checks that the flat store and the SQLite
// store behave alike.
//
// Every backend runs with a deterministic clock starting at testutil.Epoch,
// so the recorded trace is stable and can be compared against golden files:
//
//	scenario, err := harness.LoadScenario("testdata/scenarios/roundtrip.yaml")
//	...
//	err = harness.RunWithGolden(t, scenario)
//
// Regenerate golden files with:
//
//	go test ./internal/harness -update
package harness

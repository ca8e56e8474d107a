package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, src string) *Scenario {
	t.Helper()
	scenario, err := ParseScenario([]byte(src))
	require.NoError(t, err)
	return scenario
}

func TestRun_Deterministic(t *testing.T) {
	scenario, err := LoadScenario("testdata/scenarios/roundtrip.yaml")
	require.NoError(t, err)

	first, err := Run(scenario)
	require.NoError(t, err)
	second, err := Run(scenario)
	require.NoError(t, err)

	assert.True(t, first.Pass, "errors: %v", first.Errors)
	assert.Equal(t, first.Trace, second.Trace)
}

func TestRun_BackendsRunInOrder(t *testing.T) {
	result, err := Run(mustParse(t, `
name: order
description: order
backends: [sqlite, local]
steps:
  - op: has
`))
	require.NoError(t, err)

	require.Len(t, result.Trace, 2)
	assert.Equal(t, BackendSQLite, result.Trace[0].Backend)
	assert.Equal(t, BackendLocal, result.Trace[1].Backend)
	assert.Equal(t, 1, result.Trace[0].Seq)
	assert.Equal(t, 2, result.Trace[1].Seq)
}

func TestRun_EachBackendStartsEmpty(t *testing.T) {
	result, err := Run(mustParse(t, `
name: isolation
description: isolation
backends: [local, local]
steps:
  - op: has
    expect_has: false
  - op: store
    catalog: true
`))
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
}

func TestRun_NullAndEmptyPayloads(t *testing.T) {
	result, err := Run(mustParse(t, `
name: payloads
description: null is absent, an empty sequence is present
backends: [local, sqlite]
steps:
  - op: store
    expect_status: ok
  - op: load
    expect_status: absent
  - op: has
    expect_has: false
  - op: raw
    expect_has: true
  - op: store
    icons: []
  - op: load
    expect_status: ok
    expect_icons: []
  - op: has
    expect_has: true
`))
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)

	assert.Equal(t, "null", result.Trace[1].Payload)
	assert.Equal(t, "sequence", result.Trace[5].Payload)
	assert.Empty(t, result.Trace[5].Icons)
}

func TestRun_ModerncDriver(t *testing.T) {
	result, err := Run(mustParse(t, `
name: modernc
description: pure-Go driver
backends: [sqlite]
driver: sqlite
steps:
  - op: store
    catalog: true
    expect_status: ok
  - op: load
    expect_icons: [heart, star, home]
`))
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
}

func TestRun_InitialVersion(t *testing.T) {
	result, err := Run(mustParse(t, `
name: version
description: version
version: "9.9.9"
steps:
  - op: store
    catalog: true
  - op: raw
`))
	require.NoError(t, err)
	assert.Equal(t, "9.9.9", result.Trace[1].Version)
}

func TestRun_ExpectationMismatches(t *testing.T) {
	result, err := Run(mustParse(t, `
name: mismatch
description: every expectation fails
steps:
  - op: load
    expect_status: ok
  - op: has
    expect_has: true
  - op: store
    catalog: true
  - op: load
    expect_icons: [home]
`))
	require.NoError(t, err)

	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 3)
	assert.Equal(t, `local steps[0] (load): expected status "ok", got "absent"`, result.Errors[0])
	assert.Equal(t, "local steps[1] (has): expected has=true, got has=false", result.Errors[1])
	assert.Equal(t, "local steps[3] (load): expected icons [home], got [heart star home]", result.Errors[2])
	// Mismatches do not stop the run.
	assert.Len(t, result.Trace, 4)
}

func TestCheckStep(t *testing.T) {
	yes := true
	ev := TraceEvent{Status: "ok", Has: &yes, Icons: []string{"a"}}

	assert.Empty(t, checkStep(Step{ExpectStatus: "ok", ExpectHas: &yes, ExpectIcons: []string{"a"}}, ev))
	assert.Len(t, checkStep(Step{ExpectIcons: []string{}}, ev), 1)
	assert.Empty(t, checkStep(Step{ExpectIcons: []string{}}, TraceEvent{}))
}

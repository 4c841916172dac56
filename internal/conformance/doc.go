// Package conformance runs end-to-end scenarios against the decoder and
// translator.
//
// Each scenario pairs a serialized query document with an expectation:
// either the exact SQL it must translate to, or the class of error that
// must reject it.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: scenario_name
//	description: "What this scenario validates"
//	query: |
//	  {"select": [{"type": "column", "column": "category"}],
//	   "from": {"table": "product_offers"}}
//	want_sql: true
//
// Exactly one of want_sql and want_error is set. want_sql compares the
// rendered SQL against testdata/golden/<name>.golden; want_error names
// the error class that must fire:
//
//   - vocabulary: an identifier or token outside the closed sets
//   - shape: a structurally ill-formed document
//   - depth: an attempt to nest subqueries beyond the representation
//
// # Deterministic Testing
//
// Decoding and translation are pure, so a scenario's output is stable
// across runs and suitable for golden comparison. Accepted SQL is
// additionally prepared against an in-memory SQLite database whose
// schema mirrors the scenario vocabulary; preparing is the oracle for
// syntactic validity and nothing is ever executed.
//
// # Usage
//
// Load and run a scenario:
//
//	scenario, err := conformance.LoadScenario("testdata/scenarios/basic_projection.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	runner := conformance.NewRunner(vocabulary, nil)
//	result := runner.Run(scenario)
//	if err := runner.Check(scenario, result); err != nil {
//	    log.Println(err)
//	}
package conformance

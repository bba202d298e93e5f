// Package testsuite implements the Datastar SDK test-suite endpoint.
//
// The shared Datastar test suite sends a JSON document describing events
// and checks that the server streams them back byte for byte:
//
//	{"events": [
//	    {"type": "patchElements", "elements": "<div id=\"a\"></div>", "mode": "inner"},
//	    {"type": "patchSignals", "signals": {"a": 1}, "onlyIfMissing": true},
//	    {"type": "executeScript", "script": "x()", "attributes": {"type": "module"}}
//	]}
//
// Handler serves the endpoint over SSE. Render produces the same bytes
// offline and backs the `datastar encode` command.
//
// Attribute objects keep their document order. When both signals and
// signals-raw are present, signals-raw wins.
package testsuite

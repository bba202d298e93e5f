// Package dstest provides testing helpers for Datastar handlers.
//
// It builds requests the way the Datastar client sends them and records
// SSE responses as decoded events, so handler tests can assert on events
// instead of raw bytes.
//
// # Quick Start
//
//	func TestCounter(t *testing.T) {
//	    req := dstest.Post("/counter").WithSignals(map[string]int{"count": 1}).Build()
//	    s := dstest.Serve(t, counterHandler, req)
//	    dstest.ExpectEvents(t, s, 1)
//
//	    var got struct{ Count int `json:"count"` }
//	    dstest.ExpectPatchSignals(t, s, 0, &got)
//	}
//
// # Requests
//
// GET requests carry the signals in the datastar query parameter, every
// other method in the body. The datastar-request header is set unless
// WithoutDatastarHeader is used.
package dstest

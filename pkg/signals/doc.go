// Package signals extracts Datastar signals from HTTP requests.
//
// Datastar clients send their reactive state ("signals") as a JSON
// document with every backend request. GET requests carry it in the
// datastar query parameter; all other methods send it as the request
// body. This package resolves the source, decodes the document into a
// caller-supplied value and classifies failures as client errors.
//
// # Extraction
//
// Extract and ExtractOptional work on plain values so any HTTP stack can
// use them. Read, ReadOptional and WriteError are the net/http glue:
//
//	var s struct{ Count int `json:"count"` }
//	if err := signals.Read(r, &s); err != nil {
//	    signals.WriteError(w, err)
//	    return
//	}
//
// # Optional Extraction
//
// ExtractOptional and ReadOptional first check the datastar-request
// header. Requests without it are not Datastar requests and are reported
// as NotEngaged without parsing anything. Requests with it are parsed,
// and failures stay failures.
//
// # Errors
//
// Every rejection is an *Error with a Kind and a client-safe Message.
// Status is always 400. Each kind has a sentinel for errors.Is.
package signals

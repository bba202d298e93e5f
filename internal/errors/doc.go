// Package errors provides structured, actionable error messages for the
// datastar command.
//
// Each error has a code that maps to a short message, a detailed
// explanation and a documentation link. Configuration errors can carry
// the file position they refer to, and Format renders the surrounding
// lines.
//
// # Error Codes
//
//   - DS1xx: configuration loading and validation
//   - DS2xx: command line and server failures
//   - DS3xx: test-suite input
//
// # Usage
//
//	err := errors.New("DS102").
//	    WithLocation("datastar.toml", 4, 9).
//	    WithSuggestion("Quote string values")
//
//	fmt.Println(err.Format())
//	// Output:
//	// ERROR DS102: Configuration file could not be parsed
//	//
//	//   datastar.toml:4:9
//	//
//	//       2 │ [log]
//	//       3 │ level = "debug"
//	//   →   4 │ format = json
//	//         │         ^
//	//
//	//   Hint: Quote string values
package errors

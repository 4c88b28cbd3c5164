// Package autoeq parses documents published by the AutoEq project: the
// results index listing every measured headphone, and the per-headphone
// parametric EQ profiles in either of their two formats.
//
// # Formats
//
// AutoEq publishes EQ profiles in a human-readable filter list:
//
//	Preamp: -4.7 dB
//	Filter 1: ON PK Fc 105 Hz Gain -2.5 dB Q 1.41
//
// and a CSV variant with an optional header row:
//
//	Filter Type,Freq,Q,Gain
//	Peaking,105,1.41,-2.5
//
// Parser detects which format a document uses (one whole-document
// decision) and extracts the preamp value plus the ordered band list.
//
// # Error policy
//
// One malformed line or row never fails a parse. Each skipped unit is
// reported as a Diagnostic next to the successfully parsed bands. Only
// empty input (ErrEmptyInput) and a parse that yields zero bands
// (ErrNoBands) are fatal.
//
// # Basic usage
//
//	profile, diags, err := autoeq.NewParser().Parse(content)
//	if err != nil {
//	    return err
//	}
//	for _, d := range diags {
//	    fmt.Println("warning:", d)
//	}
package autoeq

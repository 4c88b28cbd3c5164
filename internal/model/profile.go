package model

// Band is one parametric filter in an EQ profile.
//
// Bands are constructed once during parsing/normalization and never
// mutated afterwards; each pipeline stage hands an immutable snapshot to
// the next.
type Band struct {
	// Shape is the filter topology.
	Shape FilterShape

	// FrequencyHz is the center (or transition) frequency in Hz,
	// truncated to an integer the way the FiiO schema expects.
	FrequencyHz int

	// GainDb is the boost or cut applied by the filter, in dB.
	GainDb float64

	// Q is the quality factor controlling filter width/slope.
	Q float64
}

// Profile is a parsed AutoEq equalization profile.
//
// Band order is the source order and is significant: it determines the
// index each band is emitted at in the target document. A Profile is only
// ever constructed with at least one band; a document that yields zero
// bands is a parse failure, not an empty profile.
type Profile struct {
	// PreampDb is the profile-wide gain offset in dB.
	// 0 when the source has no preamp line.
	PreampDb float64

	// Bands holds the filters in source order.
	Bands []Band
}

// Entry is one headphone listing from the AutoEq index: a display name and
// the relative results path its EQ files live under.
type Entry struct {
	// Name is the headphone model as listed in the index.
	Name string

	// Path is the relative directory under the results root, always ending
	// with a slash. Example: "oratory1990/harman_over-ear_2018/HD 650/"
	Path string
}

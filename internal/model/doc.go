// Package model defines the core data structures shared by the
// autoeq-fiio pipeline.
//
// # FilterShape
//
// FilterShape is a closed enum over the three filter topologies the FiiO
// DSP supports, with exhaustive conversions to every external spelling:
//
//	shape, ok := model.ShapeFromAbbreviation("PK") // text format
//	shape, ok = model.ShapeFromName("Low Shelf")   // CSV format
//	shape.Code()                                   // FiiO code "0"/"1"/"2"
//
// # Band and Profile
//
// Band is one parametric filter (shape, frequency, gain, Q); Profile is an
// ordered band list plus the profile-wide preamp offset:
//
//	profile := &model.Profile{
//	    PreampDb: -4.7,
//	    Bands:    []model.Band{{Shape: model.ShapePeaking, FrequencyHz: 105, GainDb: -2.5, Q: 1.41}},
//	}
//
// # Entry
//
// Entry is one headphone listing (name + relative path) parsed from the
// AutoEq results index.
package model

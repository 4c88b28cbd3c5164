package model

import "strings"

// FilterShape identifies the topology of a parametric EQ filter.
//
// Only the three shapes that the FiiO DSP engine understands are
// representable. Every external spelling of a shape (AutoEq text
// abbreviation, canonical AutoEq name, FiiO numeric code) converts to and
// from this type through total, exhaustive mappings, so an unknown spelling
// is always an explicit (shape, ok=false) branch rather than a silently
// propagated string.
//
// Example:
//
//	shape, ok := model.ShapeFromAbbreviation("LSC")
//	if !ok {
//	    // skip this band
//	}
//	fmt.Println(shape.Code()) // "1"
type FilterShape int

const (
	// ShapePeaking is a peaking (bell) filter. AutoEq "PK", FiiO code "0".
	ShapePeaking FilterShape = iota

	// ShapeLowShelf is a low-shelf filter. AutoEq "LSC", FiiO code "1".
	ShapeLowShelf

	// ShapeHighShelf is a high-shelf filter. AutoEq "HSC", FiiO code "2".
	ShapeHighShelf
)

// Code returns the FiiO DSP numeric code for the shape ("0", "1" or "2").
func (s FilterShape) Code() string {
	switch s {
	case ShapeLowShelf:
		return "1"
	case ShapeHighShelf:
		return "2"
	default:
		return "0"
	}
}

// Abbreviation returns the AutoEq text-format abbreviation for the shape.
func (s FilterShape) Abbreviation() string {
	switch s {
	case ShapeLowShelf:
		return "LSC"
	case ShapeHighShelf:
		return "HSC"
	default:
		return "PK"
	}
}

// String returns the canonical AutoEq shape name, as used in the first
// column of CSV profiles ("Peaking", "Low Shelf", "High Shelf").
func (s FilterShape) String() string {
	switch s {
	case ShapeLowShelf:
		return "Low Shelf"
	case ShapeHighShelf:
		return "High Shelf"
	default:
		return "Peaking"
	}
}

// ShapeFromAbbreviation converts an AutoEq text-format abbreviation
// ("PK", "LSC", "HSC", any case) to a FilterShape.
//
// Returns ok=false for any other token.
func ShapeFromAbbreviation(abbr string) (FilterShape, bool) {
	switch strings.ToUpper(abbr) {
	case "PK":
		return ShapePeaking, true
	case "LSC":
		return ShapeLowShelf, true
	case "HSC":
		return ShapeHighShelf, true
	}
	return ShapePeaking, false
}

// ShapeFromName converts a canonical AutoEq shape name ("Peaking",
// "Low Shelf", "High Shelf", exact case as published) to a FilterShape.
//
// Returns ok=false for any other name.
func ShapeFromName(name string) (FilterShape, bool) {
	switch name {
	case "Peaking":
		return ShapePeaking, true
	case "Low Shelf":
		return ShapeLowShelf, true
	case "High Shelf":
		return ShapeHighShelf, true
	}
	return ShapePeaking, false
}

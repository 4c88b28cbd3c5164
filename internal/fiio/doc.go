// Package fiio renders normalized EQ profiles into the FiiO DSP XML
// configuration format.
//
// BuildDocument applies the two policies the target format imposes, the
// 10-band limit (truncation in source order) and the masterGain switch
// (profile preamp vs. a fixed 0), and Render produces the final
// pretty-printed document:
//
//	doc := fiio.BuildDocument(profile.Bands, "Sennheiser HD 650", profile.PreampDb, "FIIO KA17", true)
//	xmlText, err := doc.Render()
//
// Serialization is pure: the package performs no I/O and has no error
// path beyond XML encoding itself.
package fiio

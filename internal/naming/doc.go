// Package naming owns the canonical filename grammar.
//
// A canonical media filename has the shape
//
//	{OriginalStem}_{YYYYMMDD}_{Caption}{Ext}
//
// where Caption starts with an ASCII capital letter followed by ASCII letters
// and digits. Synthesize builds names in that shape and IsCanonical recognizes
// them; both read the same pattern so the two can never drift apart.
//
// Everything here is pure string work. Filesystem checks live in the guard
// package and the rename state machine lives in renamer.
package naming

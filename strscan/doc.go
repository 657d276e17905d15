// Package strscan provides a cursor-based scanner over a text buffer.
//
// # Overview
//
// A Scanner owns a byte buffer tagged with an Encoding, a byte cursor, and
// the result of the most recent match attempt. Patterns are either literal
// byte strings or regular expressions. Every attempt either matches at the
// cursor (Scan, Skip, Check, Match) or searches forward from it (ScanUntil,
// SkipUntil, CheckUntil, Exist):
//
//	s := strscan.New("3 + 4")
//	n, _, _ := s.ScanInt(10)             // 3
//	s.Skip(strscan.MustCompile(`\s*`))
//	op, _, _ := s.Scan(strscan.Lit("+")) // "+"
//
// A failed attempt is not an error. It returns ok == false, leaves the
// cursor where it was, and clears the match state. Errors are reserved for
// misuse: an uninitialized scanner, an unknown capture name, a pattern whose
// encoding cannot be compared with the buffer, or an Unscan with nothing to
// restore.
//
// # Anchors
//
// By default each attempt sees the rest of the buffer as its subject, so
// `\A` and `^` match at the cursor. A scanner created WithFixedAnchor keeps
// the buffer's absolute meaning: `\A` matches only at byte 0 and `^` only at
// the start of a line.
//
// # Match state
//
//	s := strscan.New("foo bar baz")
//	s.Scan(strscan.MustCompile(`(?<a>\w+) (?<b>\w+) (\w+)`))
//	s.Group(strscan.Index(1))  // "foo"
//	s.Group(strscan.Name("b")) // "bar"
//	s.Group(strscan.Name("c")) // *CaptureNameError
//
// Unscan restores the cursor and match state held before the last
// successful attempt. Only one level is kept.
//
// A Scanner is not safe for concurrent use. Patterns are.
package strscan

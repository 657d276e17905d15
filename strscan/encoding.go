package strscan

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/encoding/unicode/utf32"
)

// Encoding tags a buffer or literal with the character encoding its bytes
// are in. The zero value is UTF8.
type Encoding uint8

const (
	UTF8     Encoding = iota
	Binary            // ASCII-8BIT: raw bytes, one byte per character
	USASCII           // 7-bit ASCII
	EUCJP             // EUC-JP, matched through a UTF-8 view
	ShiftJIS          // Shift_JIS, matched through a UTF-8 view
	UTF16LE           // not ASCII-compatible; literals only
	UTF16BE
	UTF32LE
	UTF32BE
)

type encodingInfo struct {
	name    string
	aliases []string
	ascii   bool
	view    bool // regular expressions run on a transcoded UTF-8 view
	text    encoding.Encoding
	charLen func(b []byte) int
}

var encodings = [...]encodingInfo{
	UTF8:     {name: "UTF-8", aliases: []string{"utf8", "CP65001"}, ascii: true, text: unicode.UTF8, charLen: utf8Len},
	Binary:   {name: "ASCII-8BIT", aliases: []string{"BINARY"}, ascii: true, text: encoding.Nop, charLen: byteLen},
	USASCII:  {name: "US-ASCII", aliases: []string{"ASCII", "ANSI_X3.4-1968", "646"}, ascii: true, text: encoding.Nop, charLen: byteLen},
	EUCJP:    {name: "EUC-JP", aliases: []string{"eucJP"}, ascii: true, view: true, text: japanese.EUCJP, charLen: eucJPLen},
	ShiftJIS: {name: "Shift_JIS", aliases: []string{"SJIS"}, ascii: true, view: true, text: japanese.ShiftJIS, charLen: shiftJISLen},
	UTF16LE:  {name: "UTF-16LE", text: unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM), charLen: utf16Len(false)},
	UTF16BE:  {name: "UTF-16BE", text: unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM), charLen: utf16Len(true)},
	UTF32LE:  {name: "UTF-32LE", text: utf32.UTF32(utf32.LittleEndian, utf32.IgnoreBOM), charLen: utf32Len},
	UTF32BE:  {name: "UTF-32BE", text: utf32.UTF32(utf32.BigEndian, utf32.IgnoreBOM), charLen: utf32Len},
}

func init() {
	if e, err := ianaindex.IANA.Encoding("US-ASCII"); err == nil && e != nil {
		encodings[USASCII].text = e
	}
}

func (e Encoding) info() *encodingInfo {
	if int(e) >= len(encodings) {
		return &encodings[Binary]
	}
	return &encodings[e]
}

// String returns the canonical name of the encoding, e.g. "EUC-JP".
func (e Encoding) String() string {
	return e.info().name
}

// ASCIICompatible reports whether bytes below 0x80 stand for ASCII characters
// in this encoding.
func (e Encoding) ASCIICompatible() bool {
	return e.info().ascii
}

func (e Encoding) named(name string) bool {
	info := e.info()
	if strings.EqualFold(info.name, name) {
		return true
	}
	for _, alias := range info.aliases {
		if strings.EqualFold(alias, name) {
			return true
		}
	}
	return false
}

// LookupEncoding resolves an encoding by name. Besides the names printed by
// Encoding.String, IANA-registered aliases are accepted.
func LookupEncoding(name string) (Encoding, error) {
	name = strings.TrimSpace(name)
	if e, ok := lookupName(name); ok {
		return e, nil
	}

	te, err := ianaindex.IANA.Encoding(name)
	if err != nil || te == nil {
		return 0, fmt.Errorf("%w: unknown encoding %q", ErrInvalidArgument, name)
	}
	canonical, err := ianaindex.MIME.Name(te)
	if err != nil {
		canonical, err = ianaindex.IANA.Name(te)
	}
	if err == nil {
		if e, ok := lookupName(canonical); ok {
			return e, nil
		}
	}
	return 0, fmt.Errorf("%w: unsupported encoding %q", ErrInvalidArgument, name)
}

func lookupName(name string) (Encoding, bool) {
	for i := range encodings {
		if Encoding(i).named(name) {
			return Encoding(i), true
		}
	}
	return 0, false
}

// Encode converts UTF-8 text into enc.
func Encode(text string, enc Encoding) ([]byte, error) {
	if enc == UTF8 || enc == Binary {
		return []byte(text), nil
	}
	out, err := enc.info().text.NewEncoder().Bytes([]byte(text))
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", enc, err)
	}
	return out, nil
}

// Decode converts text in enc to UTF-8. Invalid sequences become U+FFFD.
func Decode(b []byte, enc Encoding) (string, error) {
	if enc == UTF8 || enc == Binary {
		return string(b), nil
	}
	out, err := enc.info().text.NewDecoder().Bytes(b)
	if err != nil {
		return "", fmt.Errorf("decode %s: %w", enc, err)
	}
	return string(out), nil
}

// charLen returns the length in bytes of the character starting b[0].
// It is at least 1 and at most len(b) for non-empty b.
func (e Encoding) charLen(b []byte) int {
	if len(b) == 0 {
		return 0
	}
	n := e.info().charLen(b)
	if n < 1 {
		n = 1
	}
	if n > len(b) {
		n = len(b)
	}
	return n
}

func (e Encoding) countChars(b []byte) int {
	if e == UTF8 {
		return utf8.RuneCount(b)
	}
	if e == Binary || e == USASCII {
		return len(b)
	}
	count := 0
	for i := 0; i < len(b); count++ {
		i += e.charLen(b[i:])
	}
	return count
}

func utf8Len(b []byte) int {
	_, n := utf8.DecodeRune(b)
	return n
}

func byteLen([]byte) int { return 1 }

func eucJPLen(b []byte) int {
	switch c := b[0]; {
	case c == 0x8f:
		return 3
	case c == 0x8e, c >= 0xa1 && c <= 0xfe:
		return 2
	}
	return 1
}

func shiftJISLen(b []byte) int {
	if c := b[0]; (c >= 0x81 && c <= 0x9f) || (c >= 0xe0 && c <= 0xfc) {
		return 2
	}
	return 1
}

func utf16Len(bigEndian bool) func([]byte) int {
	return func(b []byte) int {
		if len(b) < 2 {
			return 1
		}
		unit := uint16(b[0]) | uint16(b[1])<<8
		if bigEndian {
			unit = uint16(b[0])<<8 | uint16(b[1])
		}
		if unit >= 0xd800 && unit < 0xdc00 && len(b) >= 4 {
			return 4
		}
		return 2
	}
}

func utf32Len([]byte) int { return 4 }

func asciiOnly(b []byte) bool {
	for _, c := range b {
		if c >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

// compatible reports whether text in encoding a can be compared with text
// in encoding b.
func compatible(a Encoding, aASCII bool, aEmpty bool, b Encoding, bb []byte) bool {
	if a == b || aEmpty || len(bb) == 0 {
		return true
	}
	if !a.ASCIICompatible() || !b.ASCIICompatible() {
		return false
	}
	return aASCII || asciiOnly(bb)
}

// view is a UTF-8 rendition of a buffer in an encoding the regexp package
// cannot read directly. Offsets inside a character map to -1.
type view struct {
	text   []byte
	toView []int
	toBuf  []int
}

func newView(buf []byte, enc Encoding) *view {
	dec := enc.info().text.NewDecoder()
	v := &view{
		text:   make([]byte, 0, len(buf)),
		toView: make([]int, len(buf)+1),
		toBuf:  make([]int, 0, len(buf)+1),
	}
	for i := range v.toView {
		v.toView[i] = -1
	}

	for i := 0; i < len(buf); {
		n := enc.charLen(buf[i:])
		out, err := dec.Bytes(buf[i : i+n])
		if err != nil || !utf8.Valid(out) || utf8.RuneCount(out) != 1 {
			out = []byte(string(utf8.RuneError))
		}
		v.toView[i] = len(v.text)
		v.toBuf = append(v.toBuf, i)
		for range len(out) - 1 {
			v.toBuf = append(v.toBuf, -1)
		}
		v.text = append(v.text, out...)
		i += n
	}
	v.toView[len(buf)] = len(v.text)
	v.toBuf = append(v.toBuf, len(buf))
	return v
}

package strscan

import (
	"fmt"
	"math/big"
)

// ScanInteger consumes an optionally signed integer in base 10 or 16 at the
// cursor. In base 16 a 0x or 0X prefix is consumed when a hex digit follows
// it, so "0x" alone scans as 0 and consumes only the "0".
func (s *Scanner) ScanInteger(base int) (*big.Int, bool, error) {
	n, err := s.lexInteger(base)
	if err != nil {
		return nil, false, err
	}
	s.begin()
	if n == 0 {
		return nil, false, nil
	}
	v := parseInteger(s.buf[s.pos:s.pos+n], base)
	s.commit([]int{s.pos, s.pos + n}, nil, false, true)
	return v, true, nil
}

// ScanInt is ScanInteger for values that fit in an int64. A value that does
// not fit fails with ErrOutOfRange and leaves the scanner untouched.
func (s *Scanner) ScanInt(base int) (int64, bool, error) {
	n, err := s.lexInteger(base)
	if err != nil {
		return 0, false, err
	}
	var v *big.Int
	if n > 0 {
		v = parseInteger(s.buf[s.pos:s.pos+n], base)
		if !v.IsInt64() {
			return 0, false, fmt.Errorf("%w: %s overflows int64", ErrOutOfRange, s.buf[s.pos:s.pos+n])
		}
	}
	s.begin()
	if n == 0 {
		return 0, false, nil
	}
	s.commit([]int{s.pos, s.pos + n}, nil, false, true)
	return v.Int64(), true, nil
}

// lexInteger returns the length of the integer at the cursor, or 0.
func (s *Scanner) lexInteger(base int) (int, error) {
	if err := s.ensure(); err != nil {
		return 0, err
	}
	if base != 10 && base != 16 {
		return 0, fmt.Errorf("%w: unsupported integer base %d, expected 10 or 16", ErrInvalidArgument, base)
	}
	if !s.enc.ASCIICompatible() {
		return 0, fmt.Errorf("%w: %s buffer is not ASCII compatible", ErrIncompatibleEncoding, s.enc)
	}

	rest := s.buf[s.pos:]
	digit := isDigit
	if base == 16 {
		digit = isHexDigit
	}

	n := 0
	if n < len(rest) && (rest[n] == '-' || rest[n] == '+') {
		n++
	}
	if base == 16 && n+2 < len(rest) && rest[n] == '0' && (rest[n+1] == 'x' || rest[n+1] == 'X') && isHexDigit(rest[n+2]) {
		n += 2
	}
	if n >= len(rest) || !digit(rest[n]) {
		return 0, nil
	}
	for n < len(rest) && digit(rest[n]) {
		n++
	}
	return n, nil
}

func parseInteger(lexeme []byte, base int) *big.Int {
	sign := ""
	if lexeme[0] == '-' || lexeme[0] == '+' {
		sign, lexeme = string(lexeme[:1]), lexeme[1:]
	}
	if base == 16 && len(lexeme) > 2 && lexeme[0] == '0' && (lexeme[1] == 'x' || lexeme[1] == 'X') {
		lexeme = lexeme[2:]
	}
	v, _ := new(big.Int).SetString(sign+string(lexeme), base)
	return v
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isHexDigit(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

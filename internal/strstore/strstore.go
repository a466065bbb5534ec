// Package strstore implements the String Store (SS): a flat byte arena
// holding counted strings (one length byte followed by that many content
// bytes), used for word names and string literals. Strings are appended
// atomically; SetByte (behind `c!`) can overwrite single bytes in place.
// The only way to reclaim space is Truncate, used by `forget`.
package strstore

import "fmt"

// MaxLen is the largest string Append can store: a single length byte
// caps counted strings at 255 bytes of content.
const MaxLen = 255

// Store is the String Store.
type Store struct {
	bytes []byte

	// Limit, if nonzero, is the highest legal address.
	Limit uint
}

// RangeError indicates an access outside the store, or past Limit.
type RangeError struct {
	Addr uint
	Op   string
}

func (e RangeError) Error() string {
	return fmt.Sprintf("string store %v out of range @%v", e.Op, e.Addr)
}

// TooLongError indicates an Append whose payload exceeds MaxLen.
type TooLongError int

func (e TooLongError) Error() string {
	return fmt.Sprintf("string of length %v exceeds counted-string limit %v", int(e), MaxLen)
}

// Here returns the address one past the end of the store: where the next
// Append will land.
func (s *Store) Here() uint { return uint(len(s.bytes)) }

func (s *Store) checkLimit(addr uint, op string) error {
	if s.Limit != 0 && addr > s.Limit {
		return RangeError{addr, op}
	}
	return nil
}

// Append writes a new counted string and returns the address of its length
// byte. Strings longer than MaxLen are rejected.
func (s *Store) Append(data []byte) (uint, error) {
	if len(data) > MaxLen {
		return 0, TooLongError(len(data))
	}
	addr := uint(len(s.bytes))
	if err := s.checkLimit(addr+uint(len(data))+1, "append"); err != nil {
		return 0, err
	}
	s.bytes = append(s.bytes, byte(len(data)))
	s.bytes = append(s.bytes, data...)
	return addr, nil
}

// AppendString is a convenience wrapper around Append for Go strings.
func (s *Store) AppendString(str string) (uint, error) {
	return s.Append([]byte(str))
}

// String reads the counted string whose length byte is at addr. Returns ""
// for an address with no content (out of range) so that callers can
// treat "no name" and "empty name" the same way the dictionary does.
func (s *Store) String(addr uint) string {
	if addr >= uint(len(s.bytes)) {
		return ""
	}
	n := uint(s.bytes[addr])
	end := addr + 1 + n
	if end > uint(len(s.bytes)) {
		end = uint(len(s.bytes))
	}
	return string(s.bytes[addr+1 : end])
}

// ByteAt reads a single byte, e.g. for c@ on a string-store address.
func (s *Store) ByteAt(addr uint) (byte, error) {
	if err := s.checkLimit(addr, "load"); err != nil {
		return 0, err
	}
	if addr >= uint(len(s.bytes)) {
		return 0, nil
	}
	return s.bytes[addr], nil
}

// SetByte writes a single byte, e.g. for c! when staging a literal into
// TMP/PAD via the string store. Growing the store one byte at a time this
// way is only meant for the small staging buffers; bulk content should use
// Append.
func (s *Store) SetByte(addr uint, v byte) error {
	if err := s.checkLimit(addr, "stor"); err != nil {
		return err
	}
	for uint(len(s.bytes)) <= addr {
		s.bytes = append(s.bytes, 0)
	}
	s.bytes[addr] = v
	return nil
}

// Truncate rewinds the store to addr, discarding everything appended since.
// Used by `forget` to free the strings of words being removed.
func (s *Store) Truncate(addr uint) {
	if addr < uint(len(s.bytes)) {
		s.bytes = s.bytes[:addr]
	}
}

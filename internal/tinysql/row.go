package tinysql

import (
	"bytes"
	"fmt"

	"github.com/pkg/errors"
)

// Row layout, fields live at fixed offsets without delimiters or length
// prefixes. Strings longer than their column are truncated, shorter ones
// are padded with zero bytes.
const (
	IDSize         = 4
	UsernameSize   = 32
	EmailSize      = 255
	IDOffset       = 0
	UsernameOffset = IDOffset + IDSize
	EmailOffset    = UsernameOffset + UsernameSize
	RowSize        = IDSize + UsernameSize + EmailSize
)

type Row struct {
	ID       uint32
	Username string
	Email    string
}

func (r Row) String() string {
	return fmt.Sprintf("(%d, %s, %s)", r.ID, r.Username, r.Email)
}

// Marshal writes the row into buf, which must hold at least RowSize bytes.
func (r Row) Marshal(buf []byte) ([]byte, error) {
	if len(buf) < RowSize {
		return nil, errors.Errorf("row buffer too small: %d < %d", len(buf), RowSize)
	}
	buf = buf[:RowSize]

	marshalUint32(buf, r.ID, IDOffset)
	putFixedString(buf[UsernameOffset:UsernameOffset+UsernameSize], r.Username)
	putFixedString(buf[EmailOffset:EmailOffset+EmailSize], r.Email)

	return buf, nil
}

func UnmarshalRow(buf []byte, aRow *Row) error {
	if len(buf) < RowSize {
		return errors.Errorf("row buffer too small: %d < %d", len(buf), RowSize)
	}

	aRow.ID = unmarshalUint32(buf, IDOffset)
	aRow.Username = fixedString(buf[UsernameOffset : UsernameOffset+UsernameSize])
	aRow.Email = fixedString(buf[EmailOffset : EmailOffset+EmailSize])

	return nil
}

func putFixedString(dst []byte, s string) {
	n := copy(dst, s)
	clear(dst[n:])
}

// fixedString reads a zero padded column up to its first zero byte.
func fixedString(src []byte) string {
	if i := bytes.IndexByte(src, 0); i >= 0 {
		src = src[:i]
	}
	return string(src)
}

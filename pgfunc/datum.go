package pgfunc

import (
	"database/sql/driver"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/jongio/parseurl/urlpack"
)

// HeaderSize is the size of the length word that frames a Datum.
const HeaderSize = 4

// maxDatumSize is the largest size a 4-byte length word can describe.
const maxDatumSize = 0x3FFFFFFF

// ErrBadDatum is returned for byte strings whose framing is invalid.
var ErrBadDatum = errors.New("pgfunc: bad datum framing")

// Datum is a packed URL framed for storage: a little-endian uint32 header
// holding the total size shifted left by two, followed by the urlpack binary
// form. The low two header bits are always zero.
type Datum []byte

// NewDatum frames p.
func NewDatum(p *urlpack.Packed) Datum {
	size := HeaderSize + urlpack.DirectorySize + p.Len()
	d := make([]byte, HeaderSize, size)
	binary.LittleEndian.PutUint32(d, uint32(size)<<2)
	return p.AppendBinary(d)
}

// Size returns the total size recorded in the header, or -1 when the header
// is missing or malformed.
func (d Datum) Size() int {
	if len(d) < HeaderSize {
		return -1
	}
	h := binary.LittleEndian.Uint32(d)
	if h&0x3 != 0 {
		return -1
	}
	return int(h >> 2)
}

// Payload returns the bytes following the header after checking that the
// header matches the length of d.
func (d Datum) Payload() ([]byte, error) {
	if len(d) > maxDatumSize {
		return nil, fmt.Errorf("%w: %d bytes exceeds the maximum datum size", ErrBadDatum, len(d))
	}
	size := d.Size()
	if size < 0 {
		return nil, fmt.Errorf("%w: invalid length word", ErrBadDatum)
	}
	if size != len(d) {
		return nil, fmt.Errorf("%w: header says %d bytes, have %d", ErrBadDatum, size, len(d))
	}
	return d[HeaderSize:], nil
}

// Packed unframes and decodes d.
func (d Datum) Packed() (*urlpack.Packed, error) {
	payload, err := d.Payload()
	if err != nil {
		return nil, err
	}
	return urlpack.Unmarshal(payload)
}

// Value implements driver.Valuer. A nil Datum is SQL NULL.
func (d Datum) Value() (driver.Value, error) {
	if d == nil {
		return nil, nil
	}
	return []byte(d), nil
}

// Scan implements sql.Scanner. The source bytes are copied.
func (d *Datum) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*d = nil
	case []byte:
		*d = make(Datum, len(v))
		copy(*d, v)
	case string:
		*d = Datum(v)
	default:
		return fmt.Errorf("pgfunc: cannot scan %T into Datum", src)
	}
	if *d == nil {
		return nil
	}
	_, err := d.Payload()
	return err
}

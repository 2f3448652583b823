package urlpack

import (
	"encoding/binary"
	"errors"
	"fmt"
	"strconv"

	"github.com/jongio/parseurl/urlparse"
)

// DirectorySize is the size in bytes of the serialized directory.
const DirectorySize = urlparse.NumComponents * 8

// maxPortText bounds the stored decimal port; ports above uint32 cannot be
// produced by Encode.
const maxPortText = 10

// ErrCorrupt is returned by Unmarshal for buffers whose directory does not
// describe their region.
var ErrCorrupt = errors.New("urlpack: corrupt buffer")

// MarshalBinary implements encoding.BinaryMarshaler.
func (p *Packed) MarshalBinary() ([]byte, error) {
	return p.AppendBinary(make([]byte, 0, DirectorySize+len(p.Data))), nil
}

// AppendBinary appends the serialized form of p to dst.
func (p *Packed) AppendBinary(dst []byte) []byte {
	for _, e := range p.Dir {
		dst = binary.BigEndian.AppendUint32(dst, e.Offset)
		dst = binary.BigEndian.AppendUint32(dst, e.Length)
	}
	return append(dst, p.Data...)
}

// Unmarshal parses the output of MarshalBinary. The result owns a copy of
// the region, so b may be reused afterwards.
func Unmarshal(b []byte) (*Packed, error) {
	p := &Packed{}
	if err := p.UnmarshalBinary(b); err != nil {
		return nil, err
	}
	return p, nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (p *Packed) UnmarshalBinary(b []byte) error {
	if len(b) < DirectorySize {
		return fmt.Errorf("%w: %d bytes is shorter than the %d byte directory", ErrCorrupt, len(b), DirectorySize)
	}

	var dir Directory
	region := b[DirectorySize:]
	for i := range dir {
		off := binary.BigEndian.Uint32(b[i*8:])
		n := binary.BigEndian.Uint32(b[i*8+4:])
		if n > 0 && uint64(off)+uint64(n) > uint64(len(region)) {
			return fmt.Errorf("%w: %s entry %d+%d exceeds %d byte region",
				ErrCorrupt, urlparse.Component(i), off, n, len(region))
		}
		dir[i] = Entry{Offset: off, Length: n}
	}

	if e := dir[urlparse.ComponentPort]; e.Length > 0 {
		port := region[e.Offset : e.Offset+e.Length]
		if len(port) > maxPortText || !allDigits(port) {
			return fmt.Errorf("%w: port %q is not a decimal number", ErrCorrupt, port)
		}
		if _, err := strconv.ParseUint(string(port), 10, 32); err != nil {
			return fmt.Errorf("%w: port %s does not fit in 32 bits", ErrCorrupt, port)
		}
	}

	p.Dir = dir
	p.Data = append([]byte(nil), region...)
	return nil
}

func allDigits(b []byte) bool {
	for _, c := range b {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

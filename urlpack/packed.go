package urlpack

import (
	"log/slog"
	"strconv"

	"github.com/jongio/parseurl/urlparse"
)

// Entry locates one component inside the region of a Packed value.
type Entry struct {
	Offset uint32
	Length uint32
}

// Directory holds one Entry per component, in urlparse.Component order.
type Directory [urlparse.NumComponents]Entry

// Packed is the storable form of a URL. Packed values are never modified
// after Encode or Unmarshal returns them.
type Packed struct {
	Dir  Directory
	Data []byte
}

// Option configures Encode and Decode.
type Option func(*options)

type options struct {
	logger *slog.Logger
}

// WithLogger sends a debug record describing the directory to l.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

func newOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}

// Encode packs u. A nil u encodes as a value with every component absent.
func Encode(u *urlparse.URL, opts ...Option) *Packed {
	p := &Packed{}
	if u == nil {
		return p
	}

	var parts [urlparse.NumComponents]string
	size := 0
	for c := urlparse.Component(0); c < urlparse.NumComponents; c++ {
		parts[c] = u.Component(c)
		size += len(parts[c])
	}

	p.Data = make([]byte, 0, size)
	for c, part := range parts {
		if part == "" {
			continue
		}
		p.Dir[c] = Entry{Offset: uint32(len(p.Data)), Length: uint32(len(part))}
		p.Data = append(p.Data, part...)
	}

	if o := newOptions(opts); o.logger != nil {
		o.logger.Debug("encoded url", "size", len(p.Data), "directory", p.Dir.String())
	}
	return p
}

// Decode rebuilds the URL held by p. The result shares no memory with p.
func Decode(p *Packed, opts ...Option) *urlparse.URL {
	u := &urlparse.URL{}
	if p == nil {
		return u
	}

	u.Scheme = p.text(urlparse.ComponentScheme)
	u.User = p.text(urlparse.ComponentUser)
	u.Pass = p.text(urlparse.ComponentPass)
	u.Host = p.text(urlparse.ComponentHost)
	if port := p.Bytes(urlparse.ComponentPort); len(port) > 0 {
		// UnmarshalBinary rejects ports that do not fit; a hand-built
		// Packed with one decodes without a port.
		if n, err := strconv.ParseUint(string(port), 10, 32); err == nil {
			u.Port = uint32(n)
		}
	}
	u.Path = p.text(urlparse.ComponentPath)
	u.Query = p.text(urlparse.ComponentQuery)
	u.Fragment = p.text(urlparse.ComponentFragment)

	if o := newOptions(opts); o.logger != nil {
		o.logger.Debug("decoded url", "size", len(p.Data), "directory", p.Dir.String())
	}
	return u
}

// Has reports whether component c is present.
func (p *Packed) Has(c urlparse.Component) bool {
	return c >= 0 && int(c) < urlparse.NumComponents && p.Dir[c].Length > 0
}

// Bytes returns the region bytes of component c, or nil when it is absent.
// The returned slice aliases p and must not be modified.
func (p *Packed) Bytes(c urlparse.Component) []byte {
	if !p.Has(c) {
		return nil
	}
	e := p.Dir[c]
	return p.Data[e.Offset : e.Offset+e.Length : e.Offset+e.Length]
}

// Len returns the size of the region in bytes.
func (p *Packed) Len() int {
	return len(p.Data)
}

func (p *Packed) text(c urlparse.Component) string {
	return string(p.Bytes(c))
}

// String lists the present entries as name=offset+length.
func (d Directory) String() string {
	b := make([]byte, 0, 64)
	for c, e := range d {
		if e.Length == 0 {
			continue
		}
		if len(b) > 0 {
			b = append(b, ' ')
		}
		b = append(b, urlparse.Component(c).String()...)
		b = append(b, '=')
		b = strconv.AppendUint(b, uint64(e.Offset), 10)
		b = append(b, '+')
		b = strconv.AppendUint(b, uint64(e.Length), 10)
	}
	return string(b)
}

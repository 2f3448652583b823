package urlpack

import (
	"bytes"

	"github.com/jongio/parseurl/urlparse"
)

// Render returns the canonical string form of p without decoding it. The
// output equals Decode(p).String().
func Render(p *Packed) string {
	if p == nil {
		return ""
	}
	return string(p.AppendText(make([]byte, 0, p.Len()+16)))
}

// AppendText appends the canonical string form of p to dst.
func (p *Packed) AppendText(dst []byte) []byte {
	scheme := p.Bytes(urlparse.ComponentScheme)
	host := p.Bytes(urlparse.ComponentHost)
	path := p.Bytes(urlparse.ComponentPath)

	start := len(dst)
	if scheme != nil {
		dst = append(dst, scheme...)
		dst = append(dst, ':')
	}
	if hasAuthority(scheme, host, path) {
		dst = append(dst, "//"...)
	}
	if p.Has(urlparse.ComponentUser) || p.Has(urlparse.ComponentPass) || bytes.IndexByte(host, '@') >= 0 {
		dst = append(dst, p.Bytes(urlparse.ComponentUser)...)
		if pass := p.Bytes(urlparse.ComponentPass); pass != nil {
			dst = append(dst, ':')
			dst = append(dst, pass...)
		}
		dst = append(dst, '@')
	}
	dst = append(dst, host...)
	if port := p.Bytes(urlparse.ComponentPort); port != nil {
		dst = append(dst, ':')
		dst = append(dst, port...)
	} else if needsPortColon(scheme, host) {
		dst = append(dst, ':')
	}
	dst = append(dst, path...)
	query := p.Bytes(urlparse.ComponentQuery)
	fragment := p.Bytes(urlparse.ComponentFragment)
	if query != nil || bytes.IndexByte(fragment, '?') >= 0 ||
		(len(host) == 0 && fragment == nil && endsLikePort(dst[start:])) {
		dst = append(dst, '?')
		dst = append(dst, query...)
	}
	if fragment != nil {
		dst = append(dst, '#')
		dst = append(dst, fragment...)
	}
	return dst
}

// MarshalText implements encoding.TextMarshaler with the canonical form.
func (p *Packed) MarshalText() ([]byte, error) {
	return p.AppendText(nil), nil
}

// hasAuthority is urlparse.HasAuthority over region bytes.
func hasAuthority(scheme, host, path []byte) bool {
	if len(host) > 0 {
		return true
	}
	return bytes.EqualFold(scheme, []byte("file")) && len(path) > 0 && path[0] == '/'
}

// needsPortColon is urlparse's rule for a bare ':' after a portless host.
func needsPortColon(scheme, host []byte) bool {
	if len(host) == 0 {
		return false
	}
	if len(scheme) == 0 {
		return true
	}
	bracketed := host[0] == '[' && host[len(host)-1] == ']'
	return !bracketed && bytes.IndexByte(host, ':') >= 0
}

// endsLikePort reports whether b would parse as host and port: its first ':'
// is followed by one to five digits and nothing else, or stands alone at the
// start.
func endsLikePort(b []byte) bool {
	c := bytes.IndexByte(b, ':')
	if c < 0 {
		return false
	}
	rest := b[c+1:]
	if len(rest) == 0 {
		return c == 0
	}
	return len(rest) <= 5 && allDigits(rest)
}

package urlparse

import (
	"log/slog"
	"strings"
)

// maxPortDigits is the longest port accepted inside an authority.
const maxPortDigits = 5

type phase int

const (
	phaseScheme phase = iota
	phasePort
	phaseAuthority
	phasePath
	phaseDone
)

var phaseNames = [...]string{"scheme", "port", "authority", "path", "done"}

func (p phase) String() string {
	return phaseNames[p]
}

// scanner holds the state of one Parse call. Every phase narrows the
// unconsumed span [s, ue) of in and records what it committed in url.
type scanner struct {
	in    string
	s     int
	ue    int
	colon int
	url   URL
	log   *slog.Logger
}

// Parse splits raw into its URL components.
//
// It returns an error wrapping ErrMalformedURL when raw contains an authority
// whose port is longer than five digits or whose host is empty.
func Parse(raw string, opts ...Option) (*URL, error) {
	o := newOptions(opts)
	sc := &scanner{in: raw, ue: len(raw), colon: -1, log: o.logger}

	next := phaseScheme
	for next != phaseDone {
		cur := next
		var err error
		switch cur {
		case phaseScheme:
			next = sc.scanScheme()
		case phasePort:
			next = sc.scanPort()
		case phaseAuthority:
			next, err = sc.scanAuthority()
		case phasePath:
			next = sc.scanPath()
		}
		if err != nil {
			sc.trace("parse failed", "phase", cur, "error", err)
			return nil, err
		}
		sc.trace("phase complete", "phase", cur, "next", next, "offset", sc.s)
	}

	u := sc.url
	return &u, nil
}

// ParseBytes is Parse for byte slices. The result does not reference raw.
func ParseBytes(raw []byte, opts ...Option) (*URL, error) {
	return Parse(string(raw), opts...)
}

func (sc *scanner) trace(msg string, args ...any) {
	if sc.log == nil {
		return
	}
	sc.log.Debug(msg, append([]any{"input", sc.in}, args...)...)
}

// sub returns an owned copy of in[from:to], or "" for an empty range.
func (sc *scanner) sub(from, to int) string {
	if to <= from {
		return ""
	}
	return strings.Clone(sc.in[from:to])
}

func (sc *scanner) fail(reason string) error {
	return &ParseError{Input: sc.in, Reason: reason}
}

// scanScheme decides what the first ':' of the input delimits.
func (sc *scanner) scanScheme() phase {
	in := sc.in
	colon := strings.IndexByte(in, ':')
	sc.colon = colon

	switch {
	case colon < 0:
		// Without a ':' there is no scheme or port, so //h is a path too.
		return phasePath
	case colon == 0:
		return phasePort
	}

	if !isSchemeToken(in[:colon]) {
		if colon+1 < sc.ue {
			return phasePort
		}
		return sc.relativeOrPath()
	}

	if colon+1 == sc.ue {
		sc.url.Scheme = sc.sub(0, colon)
		return phaseDone
	}

	if in[colon+1] != '/' {
		// a.com:80 and a.com:80/x are a host and port, mailto:x is a scheme.
		p := colon + 1
		for p < sc.ue && isDigit(in[p]) {
			p++
		}
		if (p == sc.ue || in[p] == '/') && p-colon < 7 {
			return phasePort
		}
		sc.url.Scheme = sc.sub(0, colon)
		sc.s = colon + 1
		return phasePath
	}

	sc.url.Scheme = sc.sub(0, colon)
	if colon+2 < sc.ue && in[colon+2] == '/' {
		sc.s = colon + 3
		// file:///etc/hosts and file:///c:/dir/file.txt have no host; the
		// path starts at the third slash in both cases.
		if strings.EqualFold(sc.url.Scheme, "file") && sc.s < sc.ue && in[sc.s] == '/' {
			return phasePath
		}
		return phaseAuthority
	}

	sc.s = colon + 1
	return phasePath
}

// scanPort handles scheme-less input whose first ':' may introduce a port.
func (sc *scanner) scanPort() phase {
	p := sc.colon + 1
	pp := p
	for pp < sc.ue && pp-p < 6 && isDigit(sc.in[pp]) {
		pp++
	}
	if pp-p < 6 && (pp == sc.ue || sc.in[pp] == '/') {
		sc.url.Port = atoi(sc.in[p:pp])
		if strings.HasPrefix(sc.in[sc.s:], "//") {
			sc.s += 2
		}
		return phaseAuthority
	}
	return sc.relativeOrPath()
}

// relativeOrPath handles input with a ':' that is neither a scheme nor a
// port: a leading "//" starts an authority, anything else is a bare path.
func (sc *scanner) relativeOrPath() phase {
	if strings.HasPrefix(sc.in[sc.s:], "//") {
		sc.s += 2
		return phaseAuthority
	}
	return phasePath
}

func (sc *scanner) scanAuthority() (phase, error) {
	in := sc.in
	s := sc.s

	e := sc.ue
	if i := strings.IndexByte(in[s:], '/'); i >= 0 {
		e = s + i
	} else if i := strings.IndexByte(in[s:], '?'); i >= 0 {
		e = s + i
	} else if i := strings.IndexByte(in[s:], '#'); i >= 0 {
		e = s + i
	}

	if at := strings.IndexByte(in[s:e], '@'); at >= 0 {
		at += s
		if c := strings.IndexByte(in[s:at], ':'); c >= 0 {
			c += s
			sc.url.User = sc.sub(s, c)
			sc.url.Pass = sc.sub(c+1, at)
		} else {
			sc.url.User = sc.sub(s, at)
		}
		s = at + 1
	}

	hostEnd := e
	ipv6 := s < e && in[s] == '[' && in[e-1] == ']'
	if !ipv6 {
		if c := strings.LastIndexByte(in[s:e], ':'); c >= 0 {
			c += s
			if sc.url.Port == 0 {
				digits := in[c+1 : e]
				if len(digits) > maxPortDigits {
					return phaseDone, sc.fail("port " + digits + " is longer than 5 digits")
				}
				sc.url.Port = atoi(digits)
			}
			hostEnd = c
		}
	}

	if hostEnd-s < 1 {
		return phaseDone, sc.fail("empty host")
	}
	sc.url.Host = sc.sub(s, hostEnd)

	if e == sc.ue {
		return phaseDone, nil
	}
	sc.s = e
	return phasePath, nil
}

func (sc *scanner) scanPath() phase {
	s, ue := sc.s, sc.ue
	span := sc.in[s:ue]
	q := strings.IndexByte(span, '?')
	h := strings.IndexByte(span, '#')

	switch {
	case q >= 0:
		// A '#' ahead of the '?' takes its place as the query delimiter.
		// The next '#' is looked for from the second byte after it.
		end, frag := q, h
		if h >= 0 && h < q {
			end, frag = h, -1
			if i := strings.IndexByte(span[h+2:], '#'); i >= 0 {
				frag = h + 2 + i
			}
		}
		sc.url.Path = sc.sub(s, s+end)
		if frag >= 0 {
			sc.url.Query = sc.sub(s+end+1, s+frag)
			sc.url.Fragment = sc.sub(s+frag+1, ue)
		} else {
			sc.url.Query = sc.sub(s+end+1, ue)
		}
	case h >= 0:
		sc.url.Path = sc.sub(s, s+h)
		sc.url.Fragment = sc.sub(s+h+1, ue)
	default:
		sc.url.Path = sc.sub(s, ue)
	}
	return phaseDone
}

func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}

// isSchemeToken reports whether s matches [A-Za-z0-9+.-]+.
func isSchemeToken(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', isDigit(c):
		case c == '+', c == '.', c == '-':
		default:
			return false
		}
	}
	return true
}

// atoi converts the leading decimal digits of s, ignoring anything after
// them. It returns 0 when s does not start with a digit.
func atoi(s string) uint32 {
	var n uint32
	for i := 0; i < len(s) && isDigit(s[i]); i++ {
		n = n*10 + uint32(s[i]-'0')
	}
	return n
}

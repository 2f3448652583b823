package urlparse

import (
	"fmt"
	"strings"
)

// Key names a value that can be extracted from a URL. The first eight keys
// correspond one to one with the Component constants.
type Key int

const (
	KeyScheme Key = iota
	KeyUser
	KeyPass
	KeyHost
	KeyPort
	KeyPath
	KeyQuery
	KeyFragment
	KeyPathQuery
	KeyHostPort
)

var keyNames = [...]string{
	"scheme", "user", "pass", "host", "port", "path", "query", "fragment",
	"path+query", "host+port",
}

// Keys returns the names accepted by ParseKey, in Key order.
func Keys() []string {
	return append([]string(nil), keyNames[:]...)
}

func (k Key) String() string {
	if k < 0 || int(k) >= len(keyNames) {
		return fmt.Sprintf("key(%d)", int(k))
	}
	return keyNames[k]
}

// ParseKey looks up a key by its exact name.
func ParseKey(name string) (Key, error) {
	for i, n := range keyNames {
		if n == name {
			return Key(i), nil
		}
	}
	return 0, fmt.Errorf("%w %q (valid parts: %s)", ErrUnknownKey, name, strings.Join(keyNames[:], ", "))
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Key) UnmarshalText(text []byte) error {
	parsed, err := ParseKey(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (k Key) MarshalText() ([]byte, error) {
	if k < 0 || int(k) >= len(keyNames) {
		return nil, fmt.Errorf("%w: %d", ErrUnknownKey, int(k))
	}
	return []byte(keyNames[k]), nil
}

// Extract returns the value of k and whether it is present.
//
// KeyPathQuery is the path followed by "?query" when a query is set, and
// KeyHostPort is the host followed by ":port" when a port is set. A compound
// key is absent only when all of its parts are.
func (u *URL) Extract(k Key) (string, bool) {
	var v string
	switch k {
	case KeyPathQuery:
		v = u.Path
		if u.Query != "" {
			v += "?" + u.Query
		}
	case KeyHostPort:
		v = u.Host
		if u.Port != 0 {
			v += ":" + u.PortString()
		}
	default:
		if k < 0 || int(k) >= NumComponents {
			return "", false
		}
		v = u.Component(Component(k))
	}
	return v, v != ""
}

// Extract looks up the key called name in u.
// It returns an error wrapping ErrUnknownKey if name is not one of Keys().
func Extract(u *URL, name string) (string, bool, error) {
	k, err := ParseKey(name)
	if err != nil {
		return "", false, err
	}
	v, ok := u.Extract(k)
	return v, ok, nil
}

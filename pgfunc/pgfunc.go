// Package pgfunc binds the URL parser to SQL-function semantics: NULL
// arguments short-circuit to NULL, results are nullable text or a composite
// record, stored values are framed Datums, and failures surface as
// *pgconn.PgError with the SQLSTATE a PostgreSQL client would see.
package pgfunc

import (
	"time"

	"github.com/jongio/parseurl/logutil"
	"github.com/jongio/parseurl/metrics"
	"github.com/jongio/parseurl/urlcache"
	"github.com/jongio/parseurl/urlpack"
	"github.com/jongio/parseurl/urlparse"
)

// Binding implements the SQL-callable functions. A zero Binding is not
// usable; call New.
type Binding struct {
	cache *urlcache.Manager
	log   *logutil.ComponentLogger
}

// Option configures a Binding.
type Option func(*Binding)

// WithCache makes URLIn consult and populate m before parsing.
func WithCache(m *urlcache.Manager) Option {
	return func(b *Binding) { b.cache = m }
}

// WithLogger replaces the default "pgfunc" component logger.
func WithLogger(l *logutil.ComponentLogger) Option {
	return func(b *Binding) {
		if l != nil {
			b.log = l
		}
	}
}

// New creates a Binding.
func New(opts ...Option) *Binding {
	b := &Binding{log: logutil.NewLogger("pgfunc")}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Cached reports whether URLIn consults a packed cache.
func (b *Binding) Cached() bool {
	return b.cache != nil
}

func (b *Binding) parse(op, raw string) (*urlparse.URL, error) {
	start := time.Now()
	u, err := urlparse.Parse(raw, urlparse.WithLogger(b.log.WithOperation(op).Slog()))
	metrics.RecordParse(op, time.Since(start), err)
	return u, err
}

// ParseURLKey returns one component of raw. It returns nil without error when
// either argument is nil or the component is absent.
func (b *Binding) ParseURLKey(raw, key *string) (*string, error) {
	if raw == nil || key == nil {
		return nil, nil
	}

	k, err := urlparse.ParseKey(*key)
	if err != nil {
		metrics.RecordExtract(*key, false, err)
		return nil, toPgError(err)
	}

	u, err := b.parse("parse_url_key", *raw)
	if err != nil {
		return nil, toPgError(err)
	}

	v, ok := u.Extract(k)
	metrics.RecordExtract(k.String(), ok, nil)
	if !ok {
		return nil, nil
	}
	return &v, nil
}

// ParseURLRecord returns every component of raw as a row. It returns nil
// without error when raw is nil.
func (b *Binding) ParseURLRecord(raw *string) (*Record, error) {
	if raw == nil {
		return nil, nil
	}

	u, err := b.parse("parse_url_record", *raw)
	if err != nil {
		return nil, toPgError(err)
	}
	return NewRecord(u), nil
}

// URLIn is the input function of the url type: it parses text and returns the
// framed packed form.
func (b *Binding) URLIn(text string) (Datum, error) {
	if b.cache != nil {
		p, ok, err := b.cache.Get(text)
		if err != nil {
			b.log.Warn("cache lookup failed", "error", err)
		}
		if ok {
			return NewDatum(p), nil
		}
	}

	u, err := b.parse("url_in", text)
	if err != nil {
		return nil, toPgError(err)
	}

	p := urlpack.Encode(u, urlpack.WithLogger(b.log.WithOperation("url_in").Slog()))
	metrics.RecordPackedSize(p)

	if b.cache != nil {
		if err := b.cache.Set(text, p); err != nil {
			b.log.Warn("cache store failed", "error", err)
		}
	}
	return NewDatum(p), nil
}

// URLOut is the output function of the url type: it renders the canonical
// text of d.
func (b *Binding) URLOut(d Datum) (string, error) {
	p, err := d.Packed()
	if err != nil {
		return "", toPgError(err)
	}
	return urlpack.Render(p), nil
}

// URLRecv is the binary input function: it validates the unframed urlpack
// binary form and frames it.
func (b *Binding) URLRecv(buf []byte) (Datum, error) {
	p, err := urlpack.Unmarshal(buf)
	if err != nil {
		return nil, toPgError(err)
	}
	return NewDatum(p), nil
}

// URLSend is the binary output function: it returns the unframed urlpack
// binary form of d.
func (b *Binding) URLSend(d Datum) ([]byte, error) {
	payload, err := d.Payload()
	if err != nil {
		return nil, toPgError(err)
	}
	if _, err := urlpack.Unmarshal(payload); err != nil {
		return nil, toPgError(err)
	}
	return append([]byte(nil), payload...), nil
}

// URLExtract returns one component of a stored value without rendering it
// back to text. A nil Datum or key yields nil.
func (b *Binding) URLExtract(d Datum, key *string) (*string, error) {
	if d == nil || key == nil {
		return nil, nil
	}

	k, err := urlparse.ParseKey(*key)
	if err != nil {
		metrics.RecordExtract(*key, false, err)
		return nil, toPgError(err)
	}

	p, err := d.Packed()
	if err != nil {
		return nil, toPgError(err)
	}

	v, ok := urlpack.Decode(p).Extract(k)
	metrics.RecordExtract(k.String(), ok, nil)
	if !ok {
		return nil, nil
	}
	return &v, nil
}

package pgfunc

import (
	"strings"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jongio/parseurl/urlparse"
	"gopkg.in/yaml.v3"
)

// Record is the composite row returned by ParseURLRecord. Absent components
// are SQL NULL. Port is decimal text.
type Record struct {
	Scheme   pgtype.Text `json:"scheme"`
	User     pgtype.Text `json:"user"`
	Pass     pgtype.Text `json:"pass"`
	Host     pgtype.Text `json:"host"`
	Port     pgtype.Text `json:"port"`
	Path     pgtype.Text `json:"path"`
	Query    pgtype.Text `json:"query"`
	Fragment pgtype.Text `json:"fragment"`
}

// NewRecord builds the row for u.
func NewRecord(u *urlparse.URL) *Record {
	f := u.Fields()
	col := func(c urlparse.Component) pgtype.Text {
		if f[c] == nil {
			return pgtype.Text{}
		}
		return pgtype.Text{String: *f[c], Valid: true}
	}
	return &Record{
		Scheme:   col(urlparse.ComponentScheme),
		User:     col(urlparse.ComponentUser),
		Pass:     col(urlparse.ComponentPass),
		Host:     col(urlparse.ComponentHost),
		Port:     col(urlparse.ComponentPort),
		Path:     col(urlparse.ComponentPath),
		Query:    col(urlparse.ComponentQuery),
		Fragment: col(urlparse.ComponentFragment),
	}
}

// Columns returns the column names in row order.
func Columns() []string {
	names := make([]string, urlparse.NumComponents)
	for c := urlparse.Component(0); c < urlparse.NumComponents; c++ {
		names[c] = c.String()
	}
	return names
}

// Values returns the columns in row order.
func (r *Record) Values() [urlparse.NumComponents]pgtype.Text {
	return [urlparse.NumComponents]pgtype.Text{
		r.Scheme, r.User, r.Pass, r.Host, r.Port, r.Path, r.Query, r.Fragment,
	}
}

// String renders r in PostgreSQL's composite text form, for example
// (http,,,host.com,8080,/p,,). NULL columns are empty; values that are empty
// or contain delimiters are quoted.
func (r *Record) String() string {
	var b strings.Builder
	b.WriteByte('(')
	for i, v := range r.Values() {
		if i > 0 {
			b.WriteByte(',')
		}
		if v.Valid {
			writeRecordField(&b, v.String)
		}
	}
	b.WriteByte(')')
	return b.String()
}

func writeRecordField(b *strings.Builder, s string) {
	if s != "" && !strings.ContainsAny(s, "\"\\(),{} \t\n\r\v\f") {
		b.WriteString(s)
		return
	}
	b.WriteByte('"')
	for i := 0; i < len(s); i++ {
		if s[i] == '"' || s[i] == '\\' {
			b.WriteByte(s[i])
		}
		b.WriteByte(s[i])
	}
	b.WriteByte('"')
}

// MarshalYAML emits the columns in row order with null for absent ones.
func (r *Record) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for i, v := range r.Values() {
		key := &yaml.Node{Kind: yaml.ScalarNode, Value: urlparse.Component(i).String()}
		val := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
		if v.Valid {
			val = &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v.String}
		}
		node.Content = append(node.Content, key, val)
	}
	return node, nil
}

// Package export turns parsed entities into documents for other tools: JSON,
// YAML and TOML encodings, a plain summary, and an SQLite store.
//
// Keys and values are copied into Go strings as-is. No charset conversion is
// attempted, so bytes that are not valid UTF-8 are handled however the chosen
// encoder handles them.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/dzjyyds666/qent/parse/qent"
)

// Format selects an output encoding.
type Format string

const (
	FormatJSON    Format = "json"
	FormatYAML    Format = "yaml"
	FormatTOML    Format = "toml"
	FormatSummary Format = "summary"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatJSON, FormatYAML, FormatTOML, FormatSummary:
		return f, nil
	case "yml":
		return FormatYAML, nil
	case "":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unknown format %q", s)
	}
}

// ContentType is the MIME type used when serving f over HTTP.
func (f Format) ContentType() string {
	switch f {
	case FormatYAML:
		return "application/yaml"
	case FormatTOML:
		return "application/toml"
	case FormatSummary:
		return "text/plain; charset=utf-8"
	default:
		return "application/json"
	}
}

type Pair struct {
	Key   string `json:"key" yaml:"key" toml:"key"`
	Value string `json:"value" yaml:"value" toml:"value"`
}

type Entity struct {
	Index int    `json:"index" yaml:"index" toml:"index"`
	Pairs []Pair `json:"pairs" yaml:"pairs" toml:"pairs"`
}

// Classname is the value of the first "classname" pair, if any.
func (e Entity) Classname() string {
	for _, p := range e.Pairs {
		if p.Key == "classname" {
			return p.Value
		}
	}
	return ""
}

type Document struct {
	Entities []Entity `json:"entities" yaml:"entities" toml:"entities"`
}

// NewDocument copies ents into a Document. Index keeps the file position of each
// entity so it survives Filter.
func NewDocument(ents *qent.Entities) Document {
	doc := Document{Entities: make([]Entity, 0, ents.Len())}
	for i, en := range ents.All() {
		e := Entity{Index: i, Pairs: make([]Pair, 0, en.Len())}
		for _, kv := range en.All() {
			e.Pairs = append(e.Pairs, Pair{Key: string(kv.Key()), Value: string(kv.Value())})
		}
		doc.Entities = append(doc.Entities, e)
	}
	return doc
}

// Filter keeps the entities holding a pair with the given key, and with the given
// value unless value is empty.
func (d Document) Filter(key, value string) Document {
	out := Document{Entities: make([]Entity, 0)}
	for _, e := range d.Entities {
		for _, p := range e.Pairs {
			if p.Key == key && (value == "" || p.Value == value) {
				out.Entities = append(out.Entities, e)
				break
			}
		}
	}
	return out
}

// Encode writes doc to w in format f.
func Encode(w io.Writer, f Format, doc Document) error {
	switch f {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return err
		}
		return enc.Close()
	case FormatTOML:
		return toml.NewEncoder(w).Encode(doc)
	case FormatSummary:
		return writeSummary(w, doc)
	default:
		return fmt.Errorf("unknown format %q", f)
	}
}

func writeSummary(w io.Writer, doc Document) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "INDEX\tCLASSNAME\tKEY-VALUES")
	for _, e := range doc.Entities {
		name := e.Classname()
		if name == "" {
			name = "-"
		}
		fmt.Fprintf(tw, "%d\t%s\t%d\n", e.Index, name, len(e.Pairs))
	}
	return tw.Flush()
}

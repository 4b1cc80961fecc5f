package qent

import (
	"fmt"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// buildDocument writes n entities of m pairs, separating every token with sep.
func buildDocument(n, m int, sep string, quoted bool) string {
	var b strings.Builder
	q := ""
	if quoted {
		q = `"`
	}
	for i := 0; i < n; i++ {
		b.WriteString("{" + sep)
		for j := 0; j < m; j++ {
			fmt.Fprintf(&b, "%skey%d%s%s%sv%d_%d%s%s", q, j, q, sep, q, i, j, q, sep)
		}
		b.WriteString("}" + sep)
	}
	return b.String()
}

func TestDocumentShapeProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	separators := gen.OneConstOf(" ", "\t", "\n", "\r\n", "\r", "\f", "\v", " \n\t")

	// Property: N well-formed entities of M pairs parse to N entities of M pairs, in order
	properties.Property("entity and pair counts", prop.ForAll(
		func(n, m int, sep string, quoted bool) bool {
			ents, err := ParseString(buildDocument(n, m, sep, quoted), NewOptions())
			if err != nil || ents.Len() != n {
				return false
			}
			for i, en := range ents.All() {
				if en.Len() != m {
					return false
				}
				for j, kv := range en.All() {
					if string(kv.Key()) != fmt.Sprintf("key%d", j) || string(kv.Value()) != fmt.Sprintf("v%d_%d", i, j) {
						return false
					}
				}
			}
			return true
		},
		gen.IntRange(0, 20),
		gen.IntRange(0, 8),
		separators,
		gen.Bool(),
	))

	// Property: an entity bound accepts exactly the documents within it
	properties.Property("entity bound", prop.ForAll(
		func(n, bound int) bool {
			_, err := ParseString(buildDocument(n, 1, " ", true), NewOptions().MaxEntities(bound))
			if n <= bound {
				return err == nil
			}
			kind, ok := KindOf(err)
			return ok && kind == TooManyEntities
		},
		gen.IntRange(0, 12),
		gen.IntRange(0, 12),
	))

	// Property: a pair bound accepts exactly the entities within it
	properties.Property("pair bound", prop.ForAll(
		func(m, bound int) bool {
			_, err := ParseString(buildDocument(2, m, "\n", false), NewOptions().MaxEntityKeyValues(bound))
			if m <= bound {
				return err == nil
			}
			kind, ok := KindOf(err)
			return ok && kind == TooManyKeyValuePairs
		},
		gen.IntRange(0, 10),
		gen.IntRange(0, 10),
	))

	// Property: truncating a non-empty document anywhere inside its last entity never succeeds silently
	properties.Property("truncation fails", prop.ForAll(
		func(m, cut int) bool {
			doc := buildDocument(1, m, " ", true)
			end := len(doc) - 2 // drop "} "
			if cut > end {
				cut = end
			}
			if cut < 1 {
				cut = 1
			}
			_, err := ParseString(doc[:cut], NewOptions())
			return err != nil
		},
		gen.IntRange(1, 5),
		gen.IntRange(1, 200),
	))

	properties.TestingRun(t)
}

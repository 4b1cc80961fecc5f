package qent

// limit is an optional upper bound. The zero value is unbounded.
type limit struct {
	n   int
	set bool
}

func (l limit) exceeded(v int) bool {
	return l.set && v > l.n
}

func bound(n int) limit {
	if n < 0 {
		return limit{}
	}
	return limit{n: n, set: true}
}

// Options describes how a q-entities input is parsed.
//
// The format has no formal grammar, so NewOptions returns the baseline: no
// comments, no escape sequences and no limits. Title presets (Quake, Quake3, VTMB
// ...) enable what those engines accept. Setters return a modified copy, so a value
// never changes once built and may be shared between concurrent parses.
type Options struct {
	maxKeyLength       limit
	maxValueLength     limit
	maxEntities        limit
	maxEntityKeyValues limit

	lineComments  bool
	blockComments bool
	escapes       bool
	escapedQuotes bool
}

// NewOptions returns the baseline grammar with every limit unbounded.
func NewOptions() Options {
	return Options{}
}

// Quake enables `//` line comments.
func Quake() Options {
	return NewOptions().LineComments(true)
}

// Quake2 is identical to Quake.
func Quake2() Options {
	return Quake()
}

// Quake3 enables `//` line comments and `/* */` block comments.
func Quake3() Options {
	return NewOptions().LineComments(true).BlockComments(true)
}

// SourceEngine is identical to Quake.
func SourceEngine() Options {
	return Quake()
}

// VTMB (Vampire: The Masquerade - Bloodlines) enables line comments and backslash
// escapes, including escaped double quotes.
func VTMB() Options {
	return NewOptions().LineComments(true).Escapes(true).EscapedQuotes(true)
}

// MaxKeyLength bounds the byte length of keys. A negative n removes the bound.
func (o Options) MaxKeyLength(n int) Options {
	o.maxKeyLength = bound(n)
	return o
}

// MaxValueLength bounds the byte length of values. A negative n removes the bound.
func (o Options) MaxValueLength(n int) Options {
	o.maxValueLength = bound(n)
	return o
}

// MaxEntities bounds the number of entities. A negative n removes the bound.
func (o Options) MaxEntities(n int) Options {
	o.maxEntities = bound(n)
	return o
}

// MaxEntityKeyValues bounds the number of pairs per entity. A negative n removes
// the bound.
func (o Options) MaxEntityKeyValues(n int) Options {
	o.maxEntityKeyValues = bound(n)
	return o
}

// LineComments toggles `//` comments running to the end of the line.
func (o Options) LineComments(on bool) Options {
	o.lineComments = on
	return o
}

// BlockComments toggles `/* */` comments.
func (o Options) BlockComments(on bool) Options {
	o.blockComments = on
	return o
}

// Escapes toggles backslash escapes inside quoted strings. When on, `\\` always
// decodes to a single backslash.
func (o Options) Escapes(on bool) Options {
	o.escapes = on
	return o
}

// EscapedQuotes toggles `\"` inside quoted strings. It has no effect unless
// Escapes is on.
func (o Options) EscapedQuotes(on bool) Options {
	o.escapedQuotes = on
	return o
}

func (o Options) KeyLengthLimit() (int, bool)       { return o.maxKeyLength.n, o.maxKeyLength.set }
func (o Options) ValueLengthLimit() (int, bool)     { return o.maxValueLength.n, o.maxValueLength.set }
func (o Options) EntitiesLimit() (int, bool)        { return o.maxEntities.n, o.maxEntities.set }
func (o Options) EntityKeyValuesLimit() (int, bool) { return o.maxEntityKeyValues.n, o.maxEntityKeyValues.set }

func (o Options) HasLineComments() bool  { return o.lineComments }
func (o Options) HasBlockComments() bool { return o.blockComments }
func (o Options) HasEscapes() bool       { return o.escapes }
func (o Options) HasEscapedQuotes() bool { return o.escapes && o.escapedQuotes }

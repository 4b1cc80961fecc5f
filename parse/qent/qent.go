// Package qent parses the q-entities text format: the entity lump of Quake-derived
// map files.
//
//	{
//	"classname" "worldspawn"
//	"wad" "mywad.wad"
//	}
//	{
//	"classname" "light"
//	"origin" "0 0 32"
//	}
//
// Scope:
// - brace-delimited entities holding ordered key-value pairs
// - quoted and unquoted strings
// - optional `//` and `/* */` comments and backslash escapes (see Options)
// - configurable limits on key/value length and entity/pair counts
// - exact line/column/offset for every error
//
// Non-goals:
// - error recovery: the first violation ends the parse
// - nested entities
// - semantic checks on keys or values
// - writing entities back out as text
package qent

import (
	"fmt"
	"io"
)

// =========================
// Public API
// =========================

// Parse parses data and returns its entities, or the first *ParseError found.
// data is not retained.
func Parse(data []byte, opts Options) (*Entities, error) {
	lx := NewLexer(data, opts)
	b := newBuilder(opts)
	for {
		tok, err := lx.Next()
		if err != nil {
			return nil, err
		}
		done, err := b.feed(tok)
		if err != nil {
			return nil, err
		}
		if done {
			return b.finish(), nil
		}
	}
}

// ParseString is Parse for string input.
func ParseString(s string, opts Options) (*Entities, error) {
	return Parse([]byte(s), opts)
}

// ParseReader reads r to the end and parses the result.
func ParseReader(r io.Reader, opts Options) (*Entities, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("qent: read input: %w", err)
	}
	return Parse(data, opts)
}

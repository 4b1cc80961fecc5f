package parse

// Package parse resolves named q-entities grammar profiles and parses files with
// them. The grammar itself lives in parse/qent.
//
// Profiles:
// - baseline: no comments, no escapes
// - quake, quake2, source: `//` comments
// - quake3: `//` and `/* */` comments
// - vtmb: `//` comments, `\\` and `\"` escapes

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/dzjyyds666/qent/parse/qent"
)

// =========================
// Profiles
// =========================

const DefaultProfile = "baseline"

var profiles = map[string]func() qent.Options{
	"baseline": qent.NewOptions,
	"quake":    qent.Quake,
	"quake2":   qent.Quake2,
	"quake3":   qent.Quake3,
	"source":   qent.SourceEngine,
	"vtmb":     qent.VTMB,
}

// Profile returns the options for a named profile. Names are case-insensitive and
// the empty name is the baseline.
func Profile(name string) (qent.Options, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		name = DefaultProfile
	}
	mk, ok := profiles[name]
	if !ok {
		return qent.Options{}, fmt.Errorf("unknown profile %q (known: %s)", name, strings.Join(Profiles(), ", "))
	}
	return mk(), nil
}

// Profiles lists the known profile names, sorted.
func Profiles() []string {
	names := make([]string, 0, len(profiles))
	for name := range profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// =========================
// Files
// =========================

// File reads the file at path and parses it with opts.
func File(path string, opts qent.Options) (*qent.Entities, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	ents, err := qent.Parse(data, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return ents, nil
}

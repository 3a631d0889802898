// Copyright 2026 The relation-node Authors
// This file is part of the relation-node library.
//
// The relation-node library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The relation-node library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the relation-node library. If not, see <http://www.gnu.org/licenses/>.

package allowlist

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// LoaderConfig selects one of the two supported configuration surfaces.
// FileSource and InlineSource are the only implementations.
type LoaderConfig interface {
	source() Source
}

// FileSource loads the allowlist from a JSON file of the form
//
//	{ "allowlist": [ "<address-or-id>", ... ] }
//
// Unknown sibling keys are tolerated; a missing or non-list "allowlist" key
// is a malformed source. Invalid JSON, including trailing commas, is rejected
// outright: a file the operator got wrong must never shrink or grow the list
// silently.
type FileSource struct {
	Path string
}

func (s FileSource) source() Source { return Source{Kind: SourceFile, Location: s.Path} }

// InlineSource loads the allowlist from a comma-separated list of raw
// entries. A value that is empty after trimming yields a valid zero-entry
// allowlist, which denies every identifier.
type InlineSource struct {
	List string
}

func (s InlineSource) source() Source { return Source{Kind: SourceInline, Location: "inline"} }

// Load reads the configured surface, normalizes every raw entry and collects
// the result into an immutable Allowlist. Duplicate raw entries collapse to
// one normalized entry. Any entry failing normalization fails the whole load
// with ErrMalformedSource; the Loader never admits a partial list. Load has
// no side effects beyond the read, publishing is the caller's job.
func Load(cfg LoaderConfig) (*Allowlist, error) {
	var (
		raws []string
		err  error
	)
	switch c := cfg.(type) {
	case FileSource:
		raws, err = readFile(c.Path)
	case InlineSource:
		raws = splitInline(c.List)
	default:
		err = fmt.Errorf("%w: unknown loader config %T", ErrMalformedSource, cfg)
	}
	if err != nil {
		return nil, err
	}
	entries := make([]Entry, 0, len(raws))
	for _, raw := range raws {
		entry, err := Normalize(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: entry %q: %v", ErrMalformedSource, raw, err)
		}
		entries = append(entries, entry)
	}
	return newAllowlist(entries, cfg.source()), nil
}

func readFile(path string) ([]string, error) {
	blob, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(blob, &doc); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformedSource, path, err)
	}
	list, ok := doc["allowlist"]
	if !ok {
		return nil, fmt.Errorf("%w: %s: missing \"allowlist\" key", ErrMalformedSource, path)
	}
	var raws []string
	if err := json.Unmarshal(list, &raws); err != nil {
		return nil, fmt.Errorf("%w: %s: \"allowlist\" is not a list of strings: %v", ErrMalformedSource, path, err)
	}
	return raws, nil
}

func splitInline(list string) []string {
	if strings.TrimSpace(list) == "" {
		return nil
	}
	return strings.Split(list, ",")
}

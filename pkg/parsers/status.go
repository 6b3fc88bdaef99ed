// Copyright 2025 Raamsri Kumar <raam@tinkershack.in>
// Copyright 2025 The StrataSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

package parsers

import (
	"strings"
)

// VDevRow is one device line of the config section.
type VDevRow struct {
	Name  string `json:"name"`
	State string `json:"state"`
	Read  string `json:"read"`
	Write string `json:"write"`
	Cksum string `json:"cksum"`
	// Depth is the nesting level under the pool root (root is 0).
	Depth int `json:"depth"`
}

// SpareRow is one device line of the spares section.
type SpareRow struct {
	Name  string `json:"name"`
	State string `json:"state"`
}

// PoolStatus is the decoded summary, config and spares of a pool.
type PoolStatus struct {
	Pool   string            `json:"pool"`
	State  string            `json:"state"`
	Header map[string]string `json:"header,omitempty"`
	Config []VDevRow         `json:"config"`
	Spares []SpareRow        `json:"spares"`
}

type statusSection int

const (
	sectionHeader statusSection = iota
	sectionConfig
	sectionSpares
)

const sparesSentinel = "spares"

// ZpoolStatusParser walks header -> config -> spares. Blank lines before the
// first device row are layout; the first blank line after it ends parsing.
type ZpoolStatusParser struct{}

func (ZpoolStatusParser) ParseStatus(doc []byte) PoolStatus {
	st := PoolStatus{
		Header: make(map[string]string),
		Config: []VDevRow{},
		Spares: []SpareRow{},
	}

	section := sectionHeader
	lastKey := ""
	rowsStarted := false
	baseIndent := -1

	for _, line := range lines(doc) {
		trimmed := strings.TrimSpace(line)

		switch section {
		case sectionHeader:
			if trimmed == "" {
				continue
			}
			if trimmed == "config:" {
				section = sectionConfig
				continue
			}
			key, value, ok := headerPair(line)
			if ok {
				lastKey = key
				st.Header[key] = value
				switch key {
				case "pool":
					st.Pool = value
				case "state":
					st.State = value
				}
			} else if lastKey != "" {
				// Wrapped "status:" / "action:" text.
				st.Header[lastKey] += " " + trimmed
			}

		case sectionConfig, sectionSpares:
			if trimmed == "" {
				if rowsStarted {
					return st
				}
				continue
			}

			fields := strings.Fields(trimmed)
			if section == sectionConfig && !rowsStarted && fields[0] == "NAME" {
				continue
			}
			if fields[0] == sparesSentinel && len(fields) == 1 {
				section = sectionSpares
				rowsStarted = true
				continue
			}
			rowsStarted = true

			if section == sectionSpares {
				if len(fields) < 2 {
					continue
				}
				st.Spares = append(st.Spares, SpareRow{Name: fields[0], State: fields[1]})
				continue
			}

			if len(fields) < 5 {
				// logs / cache / special group headers carry no counters.
				continue
			}
			indent := indentWidth(line)
			if baseIndent < 0 {
				baseIndent = indent
			}
			st.Config = append(st.Config, VDevRow{
				Name:  fields[0],
				State: fields[1],
				Read:  fields[2],
				Write: fields[3],
				Cksum: fields[4],
				Depth: (indent - baseIndent) / 2,
			})
		}
	}

	return st
}

// Leaves returns the device rows that have no children, excluding the pool
// root. These are the member devices.
func (s PoolStatus) Leaves() []string {
	var out []string
	for i, row := range s.Config {
		if row.Depth == 0 {
			continue
		}
		if i+1 < len(s.Config) && s.Config[i+1].Depth > row.Depth {
			continue
		}
		out = append(out, row.Name)
	}
	return out
}

func headerPair(line string) (string, string, bool) {
	key, value, ok := strings.Cut(strings.TrimSpace(line), ":")
	if !ok || key == "" || strings.ContainsAny(key, " \t") {
		return "", "", false
	}
	return key, strings.TrimSpace(value), true
}

// indentWidth counts leading whitespace, a tab counting as eight columns.
func indentWidth(line string) int {
	n := 0
	for _, r := range line {
		switch r {
		case ' ':
			n++
		case '\t':
			n += 8
		default:
			return n
		}
	}
	return n
}

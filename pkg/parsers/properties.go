// Copyright 2025 Raamsri Kumar <raam@tinkershack.in>
// Copyright 2025 The StrataSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

package parsers

import "strings"

// Property is one row of `get` output.
type Property struct {
	Name     string `json:"name"`
	Property string `json:"property"`
	Value    string `json:"value"`
	Source   string `json:"source"`
}

// KVPropertyParser reads `NAME PROPERTY VALUE SOURCE` rows, split into at
// most four fields so a source such as "inherited from tank" stays intact.
// Tab-separated rows (-H) are split on tabs, which keeps values with spaces
// such as creation dates whole.
type KVPropertyParser struct{}

func (KVPropertyParser) ParseProperties(doc []byte) []Property {
	var props []Property
	for _, line := range lines(doc) {
		if strings.TrimSpace(line) == "" {
			continue
		}
		var f []string
		if strings.Contains(line, "\t") {
			f = strings.Split(line, "\t")
		} else {
			f = fieldsN(line, 4)
		}
		if len(f) != 4 {
			continue
		}
		if f[0] == "NAME" && f[1] == "PROPERTY" {
			continue
		}
		props = append(props, Property{Name: f[0], Property: f[1], Value: f[2], Source: f[3]})
	}
	return props
}

// PropertyMap flattens props into property -> value.
func PropertyMap(props []Property) map[string]string {
	m := make(map[string]string, len(props))
	for _, p := range props {
		m[p.Property] = p.Value
	}
	return m
}

// Copyright 2025 Raamsri Kumar <raam@tinkershack.in>
// Copyright 2025 The StrataSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

package parsers

import (
	"strings"

	"golang.org/x/text/width"
)

// TabularParser zips each data row with the header positionally. Rows with
// fewer fields than the header are dropped. Surplus fields are folded into
// the last column.
type TabularParser struct{}

func (TabularParser) ParseTable(doc []byte) []Row {
	var header []string
	var rows []Row

	for _, line := range lines(doc) {
		// Some locales print full-width digits and spaces.
		line = width.Fold.String(line)
		if strings.TrimSpace(line) == "" {
			continue
		}
		if header == nil {
			header = strings.Fields(line)
			continue
		}

		fields := fieldsN(line, len(header))
		if len(fields) < len(header) {
			continue
		}
		row := make(Row, len(header))
		for i, col := range header {
			row[col] = fields[i]
		}
		rows = append(rows, row)
	}

	return rows
}

// TabListParser splits -H output on tabs. A row must carry exactly one value
// per requested column.
type TabListParser struct{}

func (TabListParser) ParseList(doc []byte, columns ...string) []Row {
	var rows []Row
	for _, line := range lines(doc) {
		if strings.TrimSpace(line) == "" {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) != len(columns) {
			continue
		}
		row := make(Row, len(columns))
		for i, col := range columns {
			row[col] = strings.TrimSpace(fields[i])
		}
		rows = append(rows, row)
	}
	return rows
}

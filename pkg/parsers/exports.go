// Copyright 2025 Raamsri Kumar <raam@tinkershack.in>
// Copyright 2025 The StrataSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

package parsers

import (
	"strconv"
	"strings"
)

// ClientSpec is one `client(opt,opt)` group.
type ClientSpec struct {
	Client  string   `json:"client"`
	Options []string `json:"options"`
}

// ExportLine is one logical exports entry: a path and its client groups.
type ExportLine struct {
	Path    string       `json:"path"`
	Clients []ClientSpec `json:"clients"`
}

// String renders the entry in exports grammar.
func (l ExportLine) String() string {
	var b strings.Builder
	if strings.ContainsAny(l.Path, " \t") {
		b.WriteString(strconv.Quote(l.Path))
	} else {
		b.WriteString(l.Path)
	}
	for _, c := range l.Clients {
		b.WriteByte(' ')
		b.WriteString(c.String())
	}
	return b.String()
}

func (c ClientSpec) String() string {
	if len(c.Options) == 0 {
		return c.Client
	}
	return c.Client + "(" + strings.Join(c.Options, ",") + ")"
}

// LogicalLine is a run of physical lines [Start, End] that form one entry.
// Text is the joined content; Record is false for blanks and comments.
type LogicalLine struct {
	Start  int
	End    int
	Text   string
	Record bool
}

// LogicalLines groups physical lines. A trailing backslash joins the next
// line, and a line that opens with whitespace continues the previous record
// (exportfs -v wraps long paths that way).
func LogicalLines(physical []string) []LogicalLine {
	var out []LogicalLine
	joining := false

	for i, line := range physical {
		trimmed := strings.TrimSpace(line)
		continues := len(out) > 0 && out[len(out)-1].Record &&
			(joining || (trimmed != "" && !strings.HasPrefix(trimmed, "#") &&
				(line[0] == ' ' || line[0] == '\t')))

		if continues {
			last := &out[len(out)-1]
			last.End = i
			last.Text += " " + strings.TrimSuffix(trimmed, "\\")
		} else {
			record := trimmed != "" && !strings.HasPrefix(trimmed, "#")
			out = append(out, LogicalLine{
				Start:  i,
				End:    i,
				Text:   strings.TrimSuffix(trimmed, "\\"),
				Record: record,
			})
		}
		joining = out[len(out)-1].Record && strings.HasSuffix(trimmed, "\\")
	}

	return out
}

// ExportLineParser implements the exports grammar:
//
//	<path> <client>(<opt>,<opt>) <client>(<opt>) ...
type ExportLineParser struct{}

func (p ExportLineParser) ParseExports(doc []byte) []ExportLine {
	var out []ExportLine
	for _, ll := range LogicalLines(lines(doc)) {
		if !ll.Record {
			continue
		}
		if line, ok := p.ParseExportLine(ll.Text); ok {
			out = append(out, line)
		}
	}
	return out
}

func (ExportLineParser) ParseExportLine(text string) (ExportLine, bool) {
	text = strings.TrimSpace(text)
	if text == "" || strings.HasPrefix(text, "#") {
		return ExportLine{}, false
	}

	path, rest, ok := splitPath(text)
	if !ok || !strings.HasPrefix(path, "/") {
		return ExportLine{}, false
	}

	line := ExportLine{Path: path}
	for _, group := range splitGroups(rest) {
		spec, ok := parseClient(group)
		if !ok {
			return ExportLine{}, false
		}
		line.Clients = append(line.Clients, spec)
	}
	return line, true
}

func splitPath(text string) (string, string, bool) {
	if strings.HasPrefix(text, `"`) {
		end := strings.Index(text[1:], `"`)
		if end < 0 {
			return "", "", false
		}
		return text[1 : end+1], strings.TrimSpace(text[end+2:]), true
	}
	path, rest, _ := strings.Cut(text, " ")
	if i := strings.IndexByte(path, '\t'); i >= 0 {
		path, rest = path[:i], path[i+1:]+" "+rest
	}
	return path, strings.TrimSpace(rest), true
}

// splitGroups splits on whitespace outside parentheses.
func splitGroups(s string) []string {
	var groups []string
	depth := 0
	start := -1
	for i, r := range s {
		switch {
		case r == '(':
			depth++
		case r == ')':
			if depth > 0 {
				depth--
			}
		case (r == ' ' || r == '\t') && depth == 0:
			if start >= 0 {
				groups = append(groups, s[start:i])
				start = -1
			}
			continue
		}
		if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		groups = append(groups, s[start:])
	}
	return groups
}

func parseClient(group string) (ClientSpec, bool) {
	open := strings.IndexByte(group, '(')
	if open < 0 {
		return ClientSpec{Client: group}, true
	}
	if !strings.HasSuffix(group, ")") {
		return ClientSpec{}, false
	}
	spec := ClientSpec{Client: group[:open]}
	for _, opt := range strings.Split(group[open+1:len(group)-1], ",") {
		if opt = strings.TrimSpace(opt); opt != "" {
			spec.Options = append(spec.Options, opt)
		}
	}
	return spec, true
}

package tmdl

import (
	"strings"
)

// Canonical renders the relationship back into TMDL block form. Optional
// properties are written only when they differ from the TMDL defaults,
// mirroring how the modeling tool itself serializes relationships. Parsing
// the canonical form yields a Relationship identical to the receiver.
func (r *Relationship) Canonical() string {
	var b strings.Builder
	b.WriteString("relationship ")
	b.WriteString(r.ID)
	b.WriteString("\n")

	if !r.IsActive {
		b.WriteString("\tisActive: false\n")
	}
	if r.FromCardinality != CardinalityMany {
		b.WriteString("\tfromCardinality: ")
		b.WriteString(string(r.FromCardinality))
		b.WriteString("\n")
	}
	if r.ToCardinality != CardinalityOne {
		b.WriteString("\ttoCardinality: ")
		b.WriteString(string(r.ToCardinality))
		b.WriteString("\n")
	}
	if r.CrossFiltering == BothDirections {
		b.WriteString("\tcrossFilteringBehavior: bothDirections\n")
	}

	b.WriteString("\tfromColumn: ")
	b.WriteString(columnRef(r.FromTable, r.FromColumn))
	b.WriteString("\n\ttoColumn: ")
	b.WriteString(columnRef(r.ToTable, r.ToColumn))
	b.WriteString("\n")
	return b.String()
}

// columnRef formats a Table.Column reference, quoting the table name when it
// contains characters that would break the reference apart on re-parse.
func columnRef(table, column string) string {
	if strings.ContainsAny(table, " .\t") {
		return "'" + table + "'." + column
	}
	return table + "." + column
}

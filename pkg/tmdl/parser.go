package tmdl

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// Block is one relationship declaration cut out of a relationships.tmdl
// file: the header identifier plus the indented property lines below it.
type Block struct {
	ID    string   // identifier from the header, empty if the header had none
	Line  int      // 1-based line number of the header in the source
	Lines []string // property lines, header excluded
}

// headerPattern matches a relationship block header. The (?m)^ anchor matches
// at start of input as well as after every newline, so the first block in a
// file is recognized identically to interior blocks; splitting on a
// "\nrelationship" separator instead would silently skip it.
var headerPattern = regexp.MustCompile(`(?m)^relationship(?:[ \t]+([\w-]+))?[ \t]*\r?$`)

// propertyPattern matches one "key: value" property line.
var propertyPattern = regexp.MustCompile(`^\s*([A-Za-z][\w]*)\s*:\s*(.+?)\s*$`)

// Split cuts whole-file content into relationship blocks. Content before the
// first header (top-level model properties, comments) is ignored. Empty or
// blank content yields no blocks.
func Split(content string) []Block {
	if strings.TrimSpace(content) == "" {
		return nil
	}

	headers := headerPattern.FindAllStringSubmatchIndex(content, -1)
	if len(headers) == 0 {
		return nil
	}

	blocks := make([]Block, 0, len(headers))
	for i, h := range headers {
		start := h[1] // end of the header line
		end := len(content)
		if i+1 < len(headers) {
			end = headers[i+1][0]
		}

		var lines []string
		for _, line := range strings.Split(content[start:end], "\n") {
			line = strings.TrimRight(line, "\r")
			if strings.TrimSpace(line) == "" {
				continue
			}
			lines = append(lines, line)
		}

		id := ""
		if h[2] >= 0 {
			id = content[h[2]:h[3]]
		}
		blocks = append(blocks, Block{
			ID:    id,
			Line:  1 + strings.Count(content[:h[0]], "\n"),
			Lines: lines,
		})
	}
	return blocks
}

// ParseBlock converts one relationship block into a Relationship. It is a
// pure function of its input: properties may appear in any order, optional
// keys fall back to TMDL defaults, and identifiers are used as-is apart from
// whitespace trimming and quote stripping. A block missing fromColumn or
// toColumn is structurally unusable and yields *MalformedRelationshipError.
func ParseBlock(b Block) (*Relationship, error) {
	rel := &Relationship{
		ID:              b.ID,
		FromCardinality: CardinalityMany,
		ToCardinality:   CardinalityOne,
		CrossFiltering:  OneDirection,
		IsActive:        true,
	}
	if rel.ID == "" {
		rel.ID = uuid.NewString()
	}

	var haveFrom, haveTo bool
	for _, line := range b.Lines {
		m := propertyPattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		key, value := m[1], m[2]

		switch key {
		case "fromColumn":
			rel.FromTable, rel.FromColumn = splitColumnRef(value)
			haveFrom = rel.FromTable != "" && rel.FromColumn != ""
		case "toColumn":
			rel.ToTable, rel.ToColumn = splitColumnRef(value)
			haveTo = rel.ToTable != "" && rel.ToColumn != ""
		case "fromCardinality":
			rel.FromCardinality = Cardinality(value)
		case "toCardinality":
			rel.ToCardinality = Cardinality(value)
		case "crossFilteringBehavior":
			if value == string(BothDirections) {
				rel.CrossFiltering = BothDirections
			}
		case "isActive":
			rel.IsActive = !strings.EqualFold(value, "false")
		}
	}

	if !haveFrom {
		return nil, &MalformedRelationshipError{ID: b.ID, Line: b.Line, Missing: "fromColumn"}
	}
	if !haveTo {
		return nil, &MalformedRelationshipError{ID: b.ID, Line: b.Line, Missing: "toColumn"}
	}
	return rel, nil
}

// ParseFile splits content into blocks and parses each one. Malformed blocks
// are collected as warnings and skipped; the remainder of the file is still
// parsed (partial-success policy). A file with no blocks returns an empty
// slice and no warnings: an empty model is a valid state, not an error.
func ParseFile(content string) ([]*Relationship, []Warning) {
	blocks := Split(content)
	if len(blocks) == 0 {
		return nil, nil
	}

	rels := make([]*Relationship, 0, len(blocks))
	var warnings []Warning
	for _, b := range blocks {
		rel, err := ParseBlock(b)
		if err != nil {
			warnings = append(warnings, Warning{Line: b.Line, Err: err})
			continue
		}
		rels = append(rels, rel)
	}
	return rels, warnings
}

// splitColumnRef splits a "Table.Column" reference. Table names containing
// spaces or dots are single-quoted in TMDL ('Sales Orders'.OrderKey), so a
// leading quote delimits the table name; otherwise the first dot does.
func splitColumnRef(ref string) (table, column string) {
	ref = strings.TrimSpace(ref)

	if strings.HasPrefix(ref, "'") {
		if end := strings.Index(ref[1:], "'"); end >= 0 {
			table = ref[1 : 1+end]
			rest := ref[2+end:]
			column = unquote(strings.TrimPrefix(rest, "."))
			return table, column
		}
	}

	parts := strings.SplitN(ref, ".", 2)
	table = unquote(parts[0])
	if len(parts) == 2 {
		column = unquote(parts[1])
	}
	return table, column
}

func unquote(s string) string {
	return strings.Trim(strings.TrimSpace(s), `'"`)
}

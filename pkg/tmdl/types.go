// Package tmdl parses relationship declarations from TMDL semantic model
// files (the definition/relationships.tmdl file of a .SemanticModel folder).
// It understands just enough of the format to extract relationship entities;
// tables, columns and the rest of the model definition are out of scope.
package tmdl

import "fmt"

// Cardinality is the declared multiplicity of one endpoint of a relationship.
type Cardinality string

const (
	CardinalityOne  Cardinality = "one"
	CardinalityMany Cardinality = "many"
)

// CrossFilterBehavior controls whether a relationship propagates filters in
// one direction or both.
type CrossFilterBehavior string

const (
	// OneDirection is the TMDL default: filters flow from the "one" side to
	// the "many" side only.
	OneDirection CrossFilterBehavior = "oneDirection"

	// BothDirections propagates filters across the relationship both ways.
	BothDirections CrossFilterBehavior = "bothDirections"
)

// Relationship is one modeled join between two table.column pairs.
type Relationship struct {
	// ID is the identifier from the relationship header line. Blocks whose
	// header carries no identifier get a generated UUID so every edge stays
	// individually addressable.
	ID string `json:"id"`

	FromTable  string `json:"fromTable"`
	FromColumn string `json:"fromColumn"`
	ToTable    string `json:"toTable"`
	ToColumn   string `json:"toColumn"`

	// FromCardinality defaults to many, ToCardinality to one; TMDL only
	// writes these keys when they differ from the defaults.
	FromCardinality Cardinality `json:"fromCardinality"`
	ToCardinality   Cardinality `json:"toCardinality"`

	CrossFiltering CrossFilterBehavior `json:"crossFilteringBehavior"`

	// IsActive is false for relationships that exist in the model but do not
	// participate in default filter propagation.
	IsActive bool `json:"isActive"`
}

// Bidirectional reports whether the relationship filters in both directions.
func (r *Relationship) Bidirectional() bool {
	return r.CrossFiltering == BothDirections
}

// CardinalityLabel returns the compact edge label used in diagrams,
// e.g. "M:O" for a many-to-one relationship.
func (r *Relationship) CardinalityLabel() string {
	return fmt.Sprintf("%c:%c", upperInitial(r.FromCardinality), upperInitial(r.ToCardinality))
}

func upperInitial(c Cardinality) byte {
	if c == CardinalityOne {
		return 'O'
	}
	return 'M'
}

package program

// Relation is the canonical comparison tag of a constraint.
type Relation string

const (
	RelationLessEqual    Relation = "<="
	RelationGreaterEqual Relation = ">="
	RelationEqual        Relation = "=="
	RelationLess         Relation = "<"
	RelationGreater      Relation = ">"
	RelationNotEqual     Relation = "!="
)

var symbolToRelation = map[string]Relation{
	"≤": RelationLessEqual,
	"≥": RelationGreaterEqual,
	"=": RelationEqual,
	"<": RelationLess,
	">": RelationGreater,
	"≠": RelationNotEqual,
}

var relationToSymbol = map[Relation]string{
	RelationLessEqual:    "≤",
	RelationGreaterEqual: "≥",
	RelationEqual:        "=",
	RelationLess:         "<",
	RelationGreater:      ">",
	RelationNotEqual:     "≠",
}

// RelationFromSymbol maps one of the six operator symbols to its
// canonical relation. The mapping is a bijection; anything outside the
// six-symbol set is rejected.
func RelationFromSymbol(symbol string) (Relation, bool) {
	rel, ok := symbolToRelation[symbol]
	return rel, ok
}

// Symbol returns the operator symbol the relation was entered as.
func (r Relation) Symbol() string {
	return relationToSymbol[r]
}

func (r Relation) String() string {
	return string(r)
}

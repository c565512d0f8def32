package graph

type RelationKind string

const (
	RelationBelongsTo   RelationKind = "belongs_to"
	RelationReferences  RelationKind = "references"
	RelationInheritsDoc RelationKind = "inherits_doc"
	RelationExtends     RelationKind = "extends"
)

type UnresolvedReason string

const (
	ReasonNoCandidate UnresolvedReason = "no_candidate"
	ReasonAmbiguous   UnresolvedReason = "ambiguous"
)

// Symbol is the graph-domain node payload. ID is the code reference.
type Symbol struct {
	ID         string     `json:"id"`
	Kind       string     `json:"kind"`
	Name       string     `json:"name"`
	Owner      string     `json:"owner,omitempty"`
	Assembly   string     `json:"assembly,omitempty"`
	Documented bool       `json:"documented"`
	Extension  bool       `json:"extension,omitempty"`
	Relations  []Relation `json:"relations,omitempty"`
}

type Relation struct {
	Target string       `json:"target"`
	Kind   RelationKind `json:"kind"`
}

// Unresolved is a relation whose target matched no node, or several.
type Unresolved struct {
	From       string           `json:"from"`
	Target     string           `json:"target"`
	Kind       RelationKind     `json:"kind"`
	Reason     UnresolvedReason `json:"reason"`
	Candidates []string         `json:"candidates,omitempty"`
}

package ontology

// ConceptType classifies a concept within the knowledge graph.
type ConceptType string

const (
	// Metaphysics
	TypeEntity   ConceptType = "entity"
	TypeProperty ConceptType = "property"
	TypeRelation ConceptType = "relation"

	// Epistemology
	TypeEpistemic ConceptType = "epistemic"
	TypeLogical   ConceptType = "logical"

	// Ethics
	TypeMoral ConceptType = "moral"
	TypeValue ConceptType = "value"

	// Aesthetics
	TypeAesthetic ConceptType = "aesthetic"

	// Specialized domains
	TypePolitical ConceptType = "political"
	TypeDomain    ConceptType = "domain"

	// Meta-concepts
	TypeLearned     ConceptType = "learned"
	TypeUserDefined ConceptType = "user_defined"
)

// conceptTypes is the closed set of valid concept types.
var conceptTypes = map[ConceptType]bool{
	TypeEntity:      true,
	TypeProperty:    true,
	TypeRelation:    true,
	TypeEpistemic:   true,
	TypeLogical:     true,
	TypeMoral:       true,
	TypeValue:       true,
	TypeAesthetic:   true,
	TypePolitical:   true,
	TypeDomain:      true,
	TypeLearned:     true,
	TypeUserDefined: true,
}

// IsValid reports whether t is a known concept type.
func (t ConceptType) IsValid() bool {
	return conceptTypes[t]
}

// String returns the wire representation of the concept type.
func (t ConceptType) String() string {
	return string(t)
}

// RelationType classifies a directed edge between two concepts.
type RelationType string

const (
	// Logical relations
	RelationImplies      RelationType = "implies"
	RelationContradicts  RelationType = "contradicts"
	RelationIsEquivalent RelationType = "is_equivalent"

	// Ontological relations
	RelationIsA         RelationType = "is_a"
	RelationPartOf      RelationType = "part_of"
	RelationHasProperty RelationType = "has_property"

	// Causal relations
	RelationCauses   RelationType = "causes"
	RelationEnables  RelationType = "enables"
	RelationPrevents RelationType = "prevents"

	// Epistemic relations
	RelationDefines   RelationType = "defines"
	RelationExplains  RelationType = "explains"
	RelationEvidences RelationType = "evidences"

	// Temporal relations
	RelationPrecedes RelationType = "precedes"
	RelationFollows  RelationType = "follows"

	// Opposition relations
	RelationOpposes     RelationType = "opposes"
	RelationComplements RelationType = "complements"

	// User-defined relations
	RelationCustom RelationType = "custom"
)

// String returns the wire representation of the relation type.
func (r RelationType) String() string {
	return string(r)
}

// inverseRelations maps a relation type to the relation automatically stored
// on the target concept. Types absent from the map stay directional.
// Note: the IS_A entry is an approximation, not a true logical inverse; it is
// kept as data so callers can audit it.
var inverseRelations = map[RelationType]RelationType{
	RelationIsA:          RelationHasProperty,
	RelationPrecedes:     RelationFollows,
	RelationFollows:      RelationPrecedes,
	RelationContradicts:  RelationContradicts,  // symmetric
	RelationIsEquivalent: RelationIsEquivalent, // symmetric
}

// InverseRelation returns the automatic inverse for a relation type, if any.
func InverseRelation(r RelationType) (RelationType, bool) {
	inverse, ok := inverseRelations[r]
	return inverse, ok
}

// selfExclusiveRelations are relation types that may never point a concept at
// itself.
var selfExclusiveRelations = map[RelationType]bool{
	RelationContradicts: true,
	RelationOpposes:     true,
}

package ontology

// coreConcept is one entry of the pre-seeded concept catalogue.
type coreConcept struct {
	name        string
	conceptType ConceptType
}

// coreRelation is one entry of the pre-seeded relation catalogue.
type coreRelation struct {
	from         string
	relationType RelationType
	to           string
}

// coreConcepts is the fixed catalogue a core-seeded graph starts from.
var coreConcepts = []coreConcept{
	// Metaphysics
	{"BEING", TypeEntity},
	{"EXISTENCE", TypeEntity},
	{"ESSENCE", TypeProperty},
	{"SUBSTANCE", TypeEntity},
	{"NECESSITY", TypeProperty},
	{"POSSIBILITY", TypeProperty},
	{"IDENTITY", TypeEntity},
	{"DIFFERENCE", TypeRelation},
	{"CAUSE", TypeRelation},
	{"EFFECT", TypeRelation},
	{"TIME", TypeEntity},
	{"SPACE", TypeEntity},
	{"WORLD", TypeEntity},
	{"CHANGE", TypeRelation},

	// Epistemology
	{"TRUTH", TypeEpistemic},
	{"FALSEHOOD", TypeEpistemic},
	{"KNOWLEDGE", TypeEpistemic},
	{"BELIEF", TypeEpistemic},
	{"OPINION", TypeEpistemic},
	{"DOUBT", TypeEpistemic},
	{"CERTAINTY", TypeEpistemic},
	{"EVIDENCE", TypeEpistemic},
	{"REASON", TypeEpistemic},
	{"SENSATION", TypeEpistemic},
	{"PERCEPTION", TypeEpistemic},
	{"INTUITION", TypeEpistemic},
	{"SCIENCE", TypeEpistemic},
	{"THEORY", TypeEpistemic},
	{"HYPOTHESIS", TypeEpistemic},
	{"EXPERIENCE", TypeEpistemic},
	{"OBSERVATION", TypeEpistemic},
	{"EXPLANATION", TypeEpistemic},
	{"JUSTIFICATION", TypeEpistemic},
	{"UNDERSTANDING", TypeEpistemic},
	{"IGNORANCE", TypeEpistemic},
	{"LANGUAGE", TypeEpistemic},
	{"MEANING", TypeEpistemic},
	{"COMMUNICATION", TypeEpistemic},

	// Logic
	{"ARGUMENT", TypeLogical},
	{"PREMISE", TypeLogical},
	{"CONCLUSION", TypeLogical},
	{"VALIDITY", TypeLogical},
	{"CONTRADICTION", TypeLogical},
	{"COHERENCE", TypeLogical},
	{"SYLLOGISM", TypeLogical},
	{"INFERENCE", TypeLogical},
	{"DEDUCTION", TypeLogical},
	{"INDUCTION", TypeLogical},
	{"NEGATION", TypeLogical},
	{"AFFIRMATION", TypeLogical},

	// Ethics
	{"GOOD", TypeMoral},
	{"EVIL", TypeMoral},
	{"JUSTICE", TypeMoral},
	{"INJUSTICE", TypeMoral},
	{"DUTY", TypeMoral},
	{"RIGHT", TypeMoral},
	{"RESPONSIBILITY", TypeMoral},
	{"ACTION", TypeMoral},
	{"LAW", TypeMoral},
	{"VIRTUE", TypeValue},
	{"VICE", TypeValue},
	{"FREEDOM", TypeValue},
	{"HAPPINESS", TypeValue},
	{"AUTONOMY", TypeValue},
	{"INTENTION", TypeValue},
	{"CONSEQUENCE", TypeValue},
	{"VALUE", TypeValue},

	// Aesthetics
	{"BEAUTY", TypeAesthetic},
	{"UGLINESS", TypeAesthetic},
	{"ART", TypeAesthetic},
	{"TASTE", TypeAesthetic},
	{"HARMONY", TypeAesthetic},
	{"CREATIVITY", TypeAesthetic},
	{"JUDGMENT", TypeAesthetic},

	// Political philosophy
	{"STATE", TypePolitical},
	{"SOCIETY", TypePolitical},
	{"POWER", TypePolitical},
	{"AUTHORITY", TypePolitical},
	{"LEGITIMACY", TypePolitical},
	{"DEMOCRACY", TypePolitical},

	// Philosophy of mind
	{"MIND", TypeEntity},
	{"BODY", TypeEntity},
	{"CONSCIOUSNESS", TypeEntity},
	{"THOUGHT", TypeEntity},
}

// coreRelations is the fixed relation catalogue loaded after the concepts.
var coreRelations = []coreRelation{
	// Metaphysics
	{"EXISTENCE", RelationImplies, "BEING"},
	{"ESSENCE", RelationDefines, "BEING"},
	{"ESSENCE", RelationDefines, "SUBSTANCE"},
	{"IDENTITY", RelationIsEquivalent, "BEING"},
	{"DIFFERENCE", RelationContradicts, "IDENTITY"},
	{"CAUSE", RelationCauses, "EFFECT"},
	{"CAUSE", RelationPrecedes, "EFFECT"},
	{"TIME", RelationPartOf, "WORLD"},
	{"SPACE", RelationPartOf, "WORLD"},
	{"SPACE", RelationComplements, "TIME"},
	{"POSSIBILITY", RelationOpposes, "NECESSITY"},
	{"CHANGE", RelationPrecedes, "STATE"},

	// Epistemology
	{"KNOWLEDGE", RelationImplies, "TRUTH"},
	{"KNOWLEDGE", RelationPrevents, "IGNORANCE"},
	{"TRUTH", RelationOpposes, "FALSEHOOD"},
	{"BELIEF", RelationPrecedes, "KNOWLEDGE"},
	{"DOUBT", RelationOpposes, "CERTAINTY"},
	{"CERTAINTY", RelationEnables, "KNOWLEDGE"},
	{"EVIDENCE", RelationEnables, "CERTAINTY"},
	{"REASON", RelationEnables, "KNOWLEDGE"},
	{"SENSATION", RelationEnables, "PERCEPTION"},
	{"PERCEPTION", RelationEnables, "KNOWLEDGE"},
	{"INTUITION", RelationEnables, "KNOWLEDGE"},
	{"SCIENCE", RelationDefines, "THEORY"},
	{"SCIENCE", RelationEnables, "KNOWLEDGE"},
	{"THEORY", RelationEnables, "EXPLANATION"},
	{"HYPOTHESIS", RelationPrecedes, "THEORY"},
	{"EXPERIENCE", RelationEnables, "KNOWLEDGE"},
	{"OBSERVATION", RelationEnables, "EXPERIENCE"},
	{"OBSERVATION", RelationEnables, "THEORY"},
	{"JUSTIFICATION", RelationEnables, "BELIEF"},
	{"JUSTIFICATION", RelationHasProperty, "TRUTH"},
	{"LANGUAGE", RelationEnables, "MEANING"},
	{"LANGUAGE", RelationEnables, "COMMUNICATION"},
	{"MEANING", RelationEnables, "UNDERSTANDING"},
	{"OPINION", RelationOpposes, "KNOWLEDGE"},

	// Logic
	{"ARGUMENT", RelationHasProperty, "VALIDITY"},
	{"PREMISE", RelationEnables, "CONCLUSION"},
	{"PREMISE", RelationPartOf, "ARGUMENT"},
	{"CONCLUSION", RelationFollows, "PREMISE"},
	{"SYLLOGISM", RelationIsA, "ARGUMENT"},
	{"SYLLOGISM", RelationEnables, "DEDUCTION"},
	{"CONTRADICTION", RelationOpposes, "COHERENCE"},
	{"CONTRADICTION", RelationPrevents, "VALIDITY"},
	{"COHERENCE", RelationEnables, "VALIDITY"},
	{"INFERENCE", RelationEnables, "CONCLUSION"},
	{"INFERENCE", RelationEnables, "ARGUMENT"},
	{"DEDUCTION", RelationIsA, "INFERENCE"},
	{"DEDUCTION", RelationEnables, "CERTAINTY"},
	{"INDUCTION", RelationIsA, "INFERENCE"},
	{"NEGATION", RelationOpposes, "AFFIRMATION"},

	// Ethics
	{"GOOD", RelationOpposes, "EVIL"},
	{"JUSTICE", RelationIsA, "GOOD"},
	{"JUSTICE", RelationOpposes, "INJUSTICE"},
	{"VIRTUE", RelationEnables, "GOOD"},
	{"VICE", RelationEnables, "EVIL"},
	{"DUTY", RelationEnables, "JUSTICE"},
	{"RIGHT", RelationEnables, "JUSTICE"},
	{"RIGHT", RelationEnables, "FREEDOM"},
	{"RESPONSIBILITY", RelationEnables, "JUSTICE"},
	{"FREEDOM", RelationEnables, "RESPONSIBILITY"},
	{"FREEDOM", RelationEnables, "AUTONOMY"},
	{"AUTONOMY", RelationEnables, "RESPONSIBILITY"},
	{"HAPPINESS", RelationEnables, "GOOD"},
	{"INTENTION", RelationPrecedes, "ACTION"},
	{"CONSEQUENCE", RelationFollows, "ACTION"},
	{"LAW", RelationEnables, "JUSTICE"},

	// Aesthetics
	{"BEAUTY", RelationIsA, "VALUE"},
	{"BEAUTY", RelationOpposes, "UGLINESS"},
	{"ART", RelationEnables, "BEAUTY"},
	{"HARMONY", RelationEnables, "BEAUTY"},
	{"CREATIVITY", RelationEnables, "ART"},
	{"TASTE", RelationEnables, "JUDGMENT"},

	// Political philosophy
	{"STATE", RelationPartOf, "SOCIETY"},
	{"STATE", RelationHasProperty, "AUTHORITY"},
	{"SOCIETY", RelationPartOf, "WORLD"},
	{"POWER", RelationEnables, "AUTHORITY"},
	{"AUTHORITY", RelationEnables, "LEGITIMACY"},
	{"DEMOCRACY", RelationIsA, "STATE"},

	// Philosophy of mind
	{"CONSCIOUSNESS", RelationPartOf, "MIND"},
	{"THOUGHT", RelationPartOf, "MIND"},
	{"MIND", RelationOpposes, "BODY"},
	{"MIND", RelationEnables, "THOUGHT"},
	{"BODY", RelationEnables, "SENSATION"},
	{"THOUGHT", RelationEnables, "ACTION"},
}

package assertions

import (
	"encoding/json"
	"fmt"
)

// Kind selects which checker evaluates an assertion.
type Kind int

const (
	KindUnknown Kind = iota
	KindStatus
	KindResponseTime
	KindBodyContains
	KindBodyJSON
	KindHeaderExists
	KindHeaderEquals
)

var kindNames = map[Kind]string{
	KindStatus:       "status",
	KindResponseTime: "responseTime",
	KindBodyContains: "bodyContains",
	KindBodyJSON:     "bodyJson",
	KindHeaderExists: "headerExists",
	KindHeaderEquals: "headerEquals",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// ParseKind maps a wire tag to a Kind. Unrecognized tags map to KindUnknown.
func ParseKind(s string) Kind {
	for k, name := range kindNames {
		if name == s {
			return k
		}
	}
	return KindUnknown
}

type Operator int

const (
	OpUnknown Operator = iota
	OpEquals
	OpNotEquals
	OpLessThan
	OpGreaterThan
	OpContains
	OpNotContains
	OpMatches
	OpExists
	OpNotExists
)

var operatorNames = map[Operator]string{
	OpEquals:      "equals",
	OpNotEquals:   "notEquals",
	OpLessThan:    "lessThan",
	OpGreaterThan: "greaterThan",
	OpContains:    "contains",
	OpNotContains: "notContains",
	OpMatches:     "matches",
	OpExists:      "exists",
	OpNotExists:   "notExists",
}

func (op Operator) String() string {
	if name, ok := operatorNames[op]; ok {
		return name
	}
	return "unknown"
}

// ParseOperator maps a wire tag to an Operator. Unrecognized tags map to
// OpUnknown.
func ParseOperator(s string) Operator {
	for op, name := range operatorNames {
		if name == s {
			return op
		}
	}
	return OpUnknown
}

// Assertion is a declarative check against a response. TypeName and
// OperatorName keep the tags exactly as received so that failures can name
// values the evaluator does not recognize.
type Assertion struct {
	ID           string
	Kind         Kind
	TypeName     string
	Property     string
	Operator     Operator
	OperatorName string
	Expected     string
	Enabled      bool
}

// New builds an enabled assertion from wire tags.
func New(id, typeName, property, operator, expected string) *Assertion {
	return &Assertion{
		ID:           id,
		Kind:         ParseKind(typeName),
		TypeName:     typeName,
		Property:     property,
		Operator:     ParseOperator(operator),
		OperatorName: operator,
		Expected:     expected,
		Enabled:      true,
	}
}

type wireAssertion struct {
	ID       *string `json:"id"`
	Type     *string `json:"type"`
	Property *string `json:"property"`
	Operator *string `json:"operator"`
	Expected *string `json:"expected"`
	Enabled  *bool   `json:"enabled"`
}

// UnmarshalJSON requires all six wire fields. Unknown type and operator
// strings are accepted and decode to KindUnknown and OpUnknown.
func (a *Assertion) UnmarshalJSON(data []byte) error {
	var w wireAssertion
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	switch {
	case w.ID == nil:
		return missingField("id")
	case w.Type == nil:
		return missingField("type")
	case w.Property == nil:
		return missingField("property")
	case w.Operator == nil:
		return missingField("operator")
	case w.Expected == nil:
		return missingField("expected")
	case w.Enabled == nil:
		return missingField("enabled")
	}

	*a = *New(*w.ID, *w.Type, *w.Property, *w.Operator, *w.Expected)
	a.Enabled = *w.Enabled
	return nil
}

func missingField(name string) error {
	return fmt.Errorf("assertion field %q is required", name)
}

func (a Assertion) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID       string `json:"id"`
		Type     string `json:"type"`
		Property string `json:"property"`
		Operator string `json:"operator"`
		Expected string `json:"expected"`
		Enabled  bool   `json:"enabled"`
	}{a.ID, a.TypeName, a.Property, a.OperatorName, a.Expected, a.Enabled})
}

// Result is the verdict for one assertion.
type Result struct {
	AssertionID string `json:"assertionId"`
	Passed      bool   `json:"passed"`
	Actual      string `json:"actual"`
	Message     string `json:"message"`
}

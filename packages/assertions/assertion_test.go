package assertions

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKind(t *testing.T) {
	assert.Equal(t, KindStatus, ParseKind("status"))
	assert.Equal(t, KindResponseTime, ParseKind("responseTime"))
	assert.Equal(t, KindBodyContains, ParseKind("bodyContains"))
	assert.Equal(t, KindBodyJSON, ParseKind("bodyJson"))
	assert.Equal(t, KindHeaderExists, ParseKind("headerExists"))
	assert.Equal(t, KindHeaderEquals, ParseKind("headerEquals"))
	assert.Equal(t, KindUnknown, ParseKind("Status"))
	assert.Equal(t, KindUnknown, ParseKind(""))
	assert.Equal(t, "bodyJson", KindBodyJSON.String())
	assert.Equal(t, "unknown", KindUnknown.String())
}

func TestParseOperator(t *testing.T) {
	for _, name := range []string{"equals", "notEquals", "lessThan", "greaterThan", "contains", "notContains", "matches", "exists", "notExists"} {
		op := ParseOperator(name)
		assert.NotEqual(t, OpUnknown, op, name)
		assert.Equal(t, name, op.String())
	}
	assert.Equal(t, OpUnknown, ParseOperator("between"))
}

func TestAssertion_UnmarshalJSON(t *testing.T) {
	data := `{"id":"a1","type":"bodyJson","property":"user.id","operator":"exists","expected":"","enabled":false}`

	var a Assertion
	require.NoError(t, json.Unmarshal([]byte(data), &a))

	assert.Equal(t, "a1", a.ID)
	assert.Equal(t, KindBodyJSON, a.Kind)
	assert.Equal(t, "user.id", a.Property)
	assert.Equal(t, OpExists, a.Operator)
	assert.False(t, a.Enabled)
}

func TestAssertion_UnmarshalJSONUnknownTags(t *testing.T) {
	data := `{"id":"a2","type":"teapot","property":"","operator":"brew","expected":"","enabled":true}`

	var a Assertion
	require.NoError(t, json.Unmarshal([]byte(data), &a))

	assert.Equal(t, KindUnknown, a.Kind)
	assert.Equal(t, "teapot", a.TypeName)
	assert.Equal(t, OpUnknown, a.Operator)
	assert.Equal(t, "brew", a.OperatorName)
}

func TestAssertion_UnmarshalJSONMissingField(t *testing.T) {
	data := `{"id":"a3","type":"status","property":"","operator":"equals","expected":"200"}`

	var a Assertion
	err := json.Unmarshal([]byte(data), &a)

	require.Error(t, err)
	assert.Contains(t, err.Error(), `"enabled"`)
}

func TestAssertion_UnmarshalJSONWrongType(t *testing.T) {
	data := `{"id":"a4","type":"status","property":"","operator":"equals","expected":200,"enabled":true}`

	var a Assertion
	assert.Error(t, json.Unmarshal([]byte(data), &a))
}

func TestAssertion_MarshalJSON(t *testing.T) {
	a := New("a5", "teapot", "p", "brew", "e")

	data, err := json.Marshal(a)
	require.NoError(t, err)

	assert.JSONEq(t, `{"id":"a5","type":"teapot","property":"p","operator":"brew","expected":"e","enabled":true}`, string(data))
}

func TestResult_MarshalJSON(t *testing.T) {
	data, err := json.Marshal(&Result{AssertionID: "a1", Passed: true, Actual: "200", Message: "Status code is 200"})
	require.NoError(t, err)

	assert.JSONEq(t, `{"assertionId":"a1","passed":true,"actual":"200","message":"Status code is 200"}`, string(data))
}

package assertions

import (
	"fmt"

	"github.com/abdul-hamid-achik/volt/packages/http"
	"github.com/abdul-hamid-achik/volt/packages/jsonpath"
	"github.com/tidwall/gjson"
)

const skippedMessage = "Skipped (disabled)"

// Evaluator checks assertions against one response. The body is parsed as
// JSON once, when the evaluator is created, and shared by every bodyJson
// assertion.
type Evaluator struct {
	response *http.Response
	bodyJSON gjson.Result
	isJSON   bool
}

func NewEvaluator(resp *http.Response) *Evaluator {
	e := &Evaluator{response: resp}
	e.bodyJSON, e.isJSON = jsonpath.Parse(resp.Body)
	return e
}

// Evaluate produces the verdict for one assertion. It never fails: bad
// operators, bad patterns and unknown types all become failing results.
func (e *Evaluator) Evaluate(a *Assertion) *Result {
	if !a.Enabled {
		return &Result{AssertionID: a.ID, Passed: true, Message: skippedMessage}
	}

	var v verdict
	switch a.Kind {
	case KindStatus:
		v = checkStatus(a, e.response.StatusCode)
	case KindResponseTime:
		v = checkResponseTime(a, e.response.TimingMs)
	case KindBodyContains:
		v = checkBodyContains(a, e.response.Body)
	case KindBodyJSON:
		v = e.checkBodyJSON(a)
	case KindHeaderExists:
		v = checkHeaderExists(a, e.response)
	case KindHeaderEquals:
		v = checkHeaderEquals(a, e.response)
	default:
		v = verdict{message: fmt.Sprintf("Unknown assertion type: %s", a.TypeName)}
	}

	return &Result{
		AssertionID: a.ID,
		Passed:      v.passed,
		Actual:      v.actual,
		Message:     v.message,
	}
}

func (e *Evaluator) checkBodyJSON(a *Assertion) verdict {
	if !e.isJSON {
		return verdict{actual: "Invalid JSON", message: "Response body is not valid JSON"}
	}
	value, found := jsonpath.Resolve(e.bodyJSON, a.Property)
	return checkJSONValue(a, value, found)
}

// EvaluateAll returns one result per assertion, in the same order.
func EvaluateAll(resp *http.Response, assertions []*Assertion) []*Result {
	evaluator := NewEvaluator(resp)
	results := make([]*Result, len(assertions))
	for i, a := range assertions {
		results[i] = evaluator.Evaluate(a)
	}
	return results
}

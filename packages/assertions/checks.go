package assertions

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/abdul-hamid-achik/volt/packages/http"
	"github.com/abdul-hamid-achik/volt/packages/jsonpath"
	"github.com/tidwall/gjson"
)

// bodyPreviewLen is how many characters of the body are echoed as the
// actual value of a bodyContains assertion.
const bodyPreviewLen = 100

type verdict struct {
	passed  bool
	actual  string
	message string
}

func pick(passed bool, ok, fail string) verdict {
	if passed {
		return verdict{passed: true, message: ok}
	}
	return verdict{message: fail}
}

func unknownOperator(a *Assertion) verdict {
	return verdict{message: fmt.Sprintf("Unknown operator: %s", a.OperatorName)}
}

func checkStatus(a *Assertion, statusCode int) verdict {
	expected64, err := strconv.ParseInt(a.Expected, 10, 32)
	if err != nil {
		expected64 = 0
	}
	expected := int(expected64)

	var v verdict
	switch a.Operator {
	case OpEquals:
		v = pick(statusCode == expected,
			fmt.Sprintf("Status code is %d", statusCode),
			fmt.Sprintf("Expected %d, got %d", expected, statusCode))
	case OpNotEquals:
		v = pick(statusCode != expected,
			fmt.Sprintf("Status code is not %d", expected),
			fmt.Sprintf("Expected not %d, got %d", expected, statusCode))
	case OpLessThan:
		v = pick(statusCode < expected,
			fmt.Sprintf("Status code %d < %d", statusCode, expected),
			fmt.Sprintf("Expected < %d, got %d", expected, statusCode))
	case OpGreaterThan:
		v = pick(statusCode > expected,
			fmt.Sprintf("Status code %d > %d", statusCode, expected),
			fmt.Sprintf("Expected > %d, got %d", expected, statusCode))
	default:
		v = unknownOperator(a)
	}
	v.actual = strconv.Itoa(statusCode)
	return v
}

func checkResponseTime(a *Assertion, timingMs int64) verdict {
	expected, err := strconv.ParseInt(a.Expected, 10, 64)
	if err != nil {
		expected = 0
	}

	var v verdict
	switch a.Operator {
	case OpLessThan:
		v = pick(timingMs < expected,
			fmt.Sprintf("Response time %dms < %dms", timingMs, expected),
			fmt.Sprintf("Expected < %dms, got %dms", expected, timingMs))
	case OpGreaterThan:
		v = pick(timingMs > expected,
			fmt.Sprintf("Response time %dms > %dms", timingMs, expected),
			fmt.Sprintf("Expected > %dms, got %dms", expected, timingMs))
	default:
		v = unknownOperator(a)
	}
	v.actual = fmt.Sprintf("%dms", timingMs)
	return v
}

func checkBodyContains(a *Assertion, body string) verdict {
	var v verdict
	switch a.Operator {
	case OpContains:
		v = pick(strings.Contains(body, a.Expected),
			fmt.Sprintf("Body contains \"%s\"", a.Expected),
			fmt.Sprintf("Body does not contain \"%s\"", a.Expected))
	case OpNotContains:
		v = pick(!strings.Contains(body, a.Expected),
			fmt.Sprintf("Body does not contain \"%s\"", a.Expected),
			fmt.Sprintf("Body contains \"%s\"", a.Expected))
	case OpMatches:
		re, err := regexp.Compile(a.Expected)
		if err != nil {
			v = verdict{message: fmt.Sprintf("Invalid regex pattern: %s", a.Expected)}
			break
		}
		v = pick(re.MatchString(body),
			fmt.Sprintf("Body matches pattern \"%s\"", a.Expected),
			fmt.Sprintf("Body does not match pattern \"%s\"", a.Expected))
	default:
		v = unknownOperator(a)
	}
	v.actual = preview(body)
	return v
}

// preview cuts body to its first bodyPreviewLen characters, marking the cut
// with an ellipsis.
func preview(body string) string {
	count := 0
	for i := range body {
		if count == bodyPreviewLen {
			return body[:i] + "..."
		}
		count++
	}
	return body
}

// checkJSONValue applies a bodyJson operator to the value found at
// a.Property, or to nothing when found is false.
func checkJSONValue(a *Assertion, value gjson.Result, found bool) verdict {
	actual := jsonpath.Undefined
	if found {
		actual = jsonpath.Canonical(value)
	}

	var v verdict
	switch a.Operator {
	case OpExists:
		v = pick(found,
			fmt.Sprintf("Property \"%s\" exists", a.Property),
			fmt.Sprintf("Property \"%s\" does not exist", a.Property))
	case OpNotExists:
		v = pick(!found,
			fmt.Sprintf("Property \"%s\" does not exist", a.Property),
			fmt.Sprintf("Property \"%s\" exists", a.Property))
	case OpEquals:
		v = pick(found && jsonpath.Equal(value, expectedJSON(a.Expected)),
			fmt.Sprintf("%s equals %s", a.Property, a.Expected),
			fmt.Sprintf("Expected %s, got %s", a.Expected, actual))
	case OpNotEquals:
		v = pick(!found || !jsonpath.Equal(value, expectedJSON(a.Expected)),
			fmt.Sprintf("%s does not equal %s", a.Property, a.Expected),
			fmt.Sprintf("Expected not %s, got %s", a.Expected, actual))
	case OpContains:
		v = pick(found && strings.Contains(actual, a.Expected),
			fmt.Sprintf("%s contains \"%s\"", a.Property, a.Expected),
			fmt.Sprintf("%s does not contain \"%s\"", a.Property, a.Expected))
	default:
		v = unknownOperator(a)
	}
	v.actual = actual
	return v
}

// expectedJSON parses an expected value as JSON, falling back to null when
// the text is not valid JSON.
func expectedJSON(text string) gjson.Result {
	if v, ok := jsonpath.Parse(text); ok {
		return v
	}
	return gjson.Parse("null")
}

func checkHeaderExists(a *Assertion, resp *http.Response) verdict {
	_, exists := resp.LookupHeader(a.Property)

	var v verdict
	switch a.Operator {
	case OpExists:
		v = pick(exists,
			fmt.Sprintf("Header \"%s\" exists", a.Property),
			fmt.Sprintf("Header \"%s\" not found", a.Property))
	case OpNotExists:
		v = pick(!exists,
			fmt.Sprintf("Header \"%s\" does not exist", a.Property),
			fmt.Sprintf("Header \"%s\" exists", a.Property))
	default:
		v = unknownOperator(a)
	}
	v.actual = "not found"
	if exists {
		v.actual = "exists"
	}
	return v
}

func checkHeaderEquals(a *Assertion, resp *http.Response) verdict {
	value, exists := resp.LookupHeader(a.Property)
	if !exists {
		return verdict{actual: "not found", message: fmt.Sprintf("Header \"%s\" not found", a.Property)}
	}

	var v verdict
	switch a.Operator {
	case OpEquals:
		v = pick(value == a.Expected,
			fmt.Sprintf("Header \"%s\" equals \"%s\"", a.Property, a.Expected),
			fmt.Sprintf("Expected \"%s\", got \"%s\"", a.Expected, value))
	case OpNotEquals:
		v = pick(value != a.Expected,
			fmt.Sprintf("Header \"%s\" does not equal \"%s\"", a.Property, a.Expected),
			fmt.Sprintf("Expected not \"%s\", got \"%s\"", a.Expected, value))
	case OpContains:
		v = pick(strings.Contains(value, a.Expected),
			fmt.Sprintf("Header \"%s\" contains \"%s\"", a.Property, a.Expected),
			fmt.Sprintf("Header \"%s\" does not contain \"%s\"", a.Property, a.Expected))
	default:
		v = unknownOperator(a)
	}
	v.actual = value
	return v
}

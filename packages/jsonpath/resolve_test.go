package jsonpath

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func mustParse(t *testing.T, text string) gjson.Result {
	t.Helper()
	doc, ok := Parse(text)
	require.True(t, ok, "invalid JSON fixture: %s", text)
	return doc
}

func TestParse(t *testing.T) {
	_, ok := Parse(`{"valid": true}`)
	assert.True(t, ok)

	_, ok = Parse("not json")
	assert.False(t, ok)

	_, ok = Parse("")
	assert.False(t, ok)

	doc, ok := Parse(" 42 ")
	require.True(t, ok)
	assert.Equal(t, "42", Canonical(doc))
}

func TestExtract(t *testing.T) {
	doc := mustParse(t, `{
		"data": {
			"users": [{"name": "John", "tags": ["a", "b"]}, {"name": "Jane"}],
			"count": 2,
			"next": null,
			"a.b": "dotted"
		},
		"items": [[1, 2], [3]]
	}`)

	tests := []struct {
		name     string
		path     string
		expected string
	}{
		{name: "nested array field", path: "data.users[0].name", expected: `"John"`},
		{name: "second element", path: "data.users[1].name", expected: `"Jane"`},
		{name: "index into nested array", path: "data.users[0].tags[1]", expected: `"b"`},
		{name: "number", path: "data.count", expected: "2"},
		{name: "present null", path: "data.next", expected: "null"},
		{name: "missing key", path: "data.missing", expected: Undefined},
		{name: "index out of range", path: "data.users[5].name", expected: Undefined},
		{name: "index into object", path: "data[0]", expected: Undefined},
		{name: "field of array", path: "data.users.name", expected: Undefined},
		{name: "field of scalar", path: "data.count.value", expected: Undefined},
		{name: "multi-level index is not supported", path: "items[0][1]", expected: Undefined},
		{name: "keys containing dots are unreachable", path: "data.a.b", expected: Undefined},
		{name: "trailing dot looks up empty key", path: "data.", expected: Undefined},
		{name: "whole sub-object", path: "data.users[1]", expected: `{"name":"Jane"}`},
		{name: "whole array", path: "items", expected: "[[1,2],[3]]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Extract(doc, tt.path))
		})
	}
}

func TestExtract_EmptyPathReturnsDocument(t *testing.T) {
	doc := mustParse(t, `{"a": [1, 2]}`)
	assert.Equal(t, `{"a":[1,2]}`, Extract(doc, ""))
}

func TestExtract_IndexOverflowIsUnresolved(t *testing.T) {
	doc := mustParse(t, `{"a": [1]}`)
	assert.Equal(t, Undefined, Extract(doc, "a[99999999999999999999999]"))
}

func TestExtract_BracketWithoutKeyIsAFieldName(t *testing.T) {
	doc := mustParse(t, `{"[0]": "literal"}`)
	assert.Equal(t, `"literal"`, Extract(doc, "[0]"))
}

func TestExtract_DuplicateKeysLastWins(t *testing.T) {
	doc := mustParse(t, `{"a": 1, "a": 2}`)
	assert.Equal(t, "2", Extract(doc, "a"))
}

func TestExtract_RoundTrip(t *testing.T) {
	doc := mustParse(t, `{"user": {"name": "John", "roles": ["admin", {"level": 1.50}], "meta": null}}`)

	for _, path := range []string{"", "user", "user.name", "user.roles", "user.roles[1]", "user.roles[1].level", "user.meta"} {
		direct, ok := Resolve(doc, path)
		require.True(t, ok, path)

		reparsed, ok := Parse(Extract(doc, path))
		require.True(t, ok, path)
		assert.True(t, Equal(direct, reparsed), "round trip differs for %q", path)
	}
}

func TestExtract_EscapesStrings(t *testing.T) {
	doc := mustParse(t, `{"msg": "say \"hi\" <b>\n"}`)
	assert.Equal(t, `"say \"hi\" <b>\n"`, Extract(doc, "msg"))
}

func TestExtractBatch(t *testing.T) {
	doc := mustParse(t, `{"id": 7, "user": {"name": "John"}, "gone": null}`)

	results := ExtractBatch(doc, []string{"id", "user.name", "missing", "gone"})

	require.Len(t, results, 3)
	assert.Equal(t, "7", Canonical(results["id"]))
	assert.Equal(t, `"John"`, Canonical(results["user.name"]))
	assert.Equal(t, "null", Canonical(results["gone"]))
	_, ok := results["missing"]
	assert.False(t, ok)
}

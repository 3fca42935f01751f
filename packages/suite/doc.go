// Package suite loads assertion suites: recorded responses grouped into
// cases, together with the assertions each response must satisfy.
//
// Suites are YAML or JSON documents validated against an embedded JSON
// Schema before decoding, so that every problem in a file is reported at
// once. Assertions without an id get a generated UUID and are enabled
// unless stated otherwise.
//
// Example:
//
//	name: users
//	variables:
//	  userId: "42"
//	assertions:
//	  - type: status
//	    operator: equals
//	    expected: 200
//	cases:
//	  - name: get user
//	    assertions:
//	      - type: bodyJson
//	        property: id
//	        operator: equals
//	        expected: "{{userId}}"
//	    response:
//	      statusCode: 200
//	      headers:
//	        Content-Type: application/json
//	      json: {"id": 42}
//	      timingMs: 12
package suite

// Package jsonpath navigates JSON documents by dotted path.
//
// Paths are dot-separated object keys, each optionally followed by a single
// array index:
//
//	data.users[0].name
//
// A path either resolves completely or not at all. Unresolved paths render
// as the text "undefined", which is never valid JSON, while a present null
// renders as "null".
//
// Values are gjson results; Equal and Canonical define the one structural
// equality and text form used everywhere else in volt.
package jsonpath

// Package http describes received HTTP responses for assertion evaluation.
//
// A Response carries the status code, headers, raw body text and elapsed
// time in milliseconds. volt never issues requests itself; responses are
// recorded elsewhere and handed in, either decoded from JSON or loaded from
// suite fixtures.
//
// Header lookups are case-insensitive.
package http

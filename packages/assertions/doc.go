// Package assertions evaluates declarative checks against a received
// HTTP response.
//
// Supported assertion types:
//   - status: compare the status code (equals, notEquals, lessThan, greaterThan)
//   - responseTime: compare elapsed milliseconds (lessThan, greaterThan)
//   - bodyContains: search the raw body (contains, notContains, matches)
//   - bodyJson: resolve a dotted path in the JSON body (exists, notExists,
//     equals, notEquals, contains)
//   - headerExists: check a header by case-insensitive name (exists, notExists)
//   - headerEquals: compare a header value (equals, notEquals, contains)
//
// Evaluation never fails. Disabled assertions pass with a skip message, and
// unknown types, unknown operators and bad patterns become failing results.
package assertions

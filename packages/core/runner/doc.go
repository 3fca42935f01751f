// Package runner evaluates assertion suites.
//
// For every case the runner layers variables (runner, then suite, then
// case), substitutes {{name}} placeholders in each assertion's property and
// expected value, and evaluates the assertions against the case's recorded
// response. Cases can be filtered by name, skipped, evaluated in parallel,
// or cut short after the first failure with Bail.
package runner

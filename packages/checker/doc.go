// Package checker evaluates declarative expectations against text files.
//
// Supported expectation kinds:
//   - Substring containment (contains / notContains)
//   - Regular expression match (pattern)
//   - Ordered keyword occurrence (order)
//   - Structural YAML validity (validYaml)
//   - JSON path queries for JSON targets (jsonPath)
//   - JSON Schema validation for JSON targets (schema)
//
// Every evaluation produces a Result carrying a distinct Outcome so that a
// missing target file, an invalid document, and an unmet expectation are
// reported as different failures.
package checker

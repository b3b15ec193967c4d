// Package ruleset parses and validates cicheck ruleset files.
//
// A ruleset is a YAML document declaring target files and the list of
// expectations to evaluate against each one. Parsing is strict: every check
// must declare a name and exactly one expectation kind.
package ruleset

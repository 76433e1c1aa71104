// Package scaffold ties the pipeline together: a value and a schema go in, a
// commented TOML document comes out. The Generator extracts the metadata
// index from the schema, merges caller directives with the ones the schema
// declares, renders, and normalises the trailing newline.
//
// Construct a Generator once and reuse it; it is immutable after New and safe
// for concurrent use.
package scaffold

// Package book turns an XML book plus an ordered mapping specification into
// a keyed set of package records.
//
// # Design Philosophy
//
// The package treats the book and the mapping spec as plain data: no schema
// is imposed on the XML, and every interpretation of it is driven entirely by
// the mapping spec's XPath expressions. Values extracted from the document
// are collapsed to a normalized string-or-list-of-strings shape at the
// boundary, so downstream packages never see the underlying XPath engine's
// heterogeneous result types.
//
// # Features
//
//   - Ordered mapping spec parsing, preserving section and key order for
//     deterministic record serialization.
//   - XPath placeholder substitution ({k}, {xpath_index}) with entity-escaping.
//   - Recursive childN embedding of nested sections.
//   - name_version splitting and re-evaluation of dependent keys.
//   - Deterministic slugging of chapter/section identifiers.
//   - YAML-equivalent record serialization with literal block scalars.
package book

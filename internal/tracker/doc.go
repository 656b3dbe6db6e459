// Package tracker loads WRICEF tracker spreadsheets into a normalized,
// read-only in-memory table.
//
// A tracker file is loosely structured: exports differ in column order,
// header spelling, and which columns are present at all. Load locates
// the header row dynamically, maps headers to the expected schema, and
// synthesizes any absent column from its documented domain so that
// downstream consumers never branch on missing data. Synthesis is
// seeded and therefore reproducible.
//
// Tables are immutable after load. Filter produces new tables; nothing
// in this package or its consumers mutates rows in place.
package tracker

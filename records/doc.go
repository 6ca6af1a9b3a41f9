// Package records describes the console's record targets and how to request
// them.
//
// Every record target type has a Kind: the number of response messages the
// console sends for one lookup and an ordered field schema that says which
// argument of which response carries which struct field. Requests for a record
// are built from its Kind with Get and Index.
package records

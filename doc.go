// Package fieldmap declares field correspondences between a source struct and a target struct
// with accessor expressions and compiles them lazily into a performer.
//
// Accessor expressions are Go expressions over a root identifier:
//
//	z.Account.AccountNumber
//	int64(z.Age)
//	Map(z.Children, func(c Child) string { return c.FirstName })
//
// A compiled performer converts a source into a new target, copies declared fields
// between two targets or renders converted fields as tag.Leaf -> text entries.
package fieldmap

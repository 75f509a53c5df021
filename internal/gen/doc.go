// Package gen selects a tree generator for a source unit.
//
// Generators register under an id with a name pattern and a priority. For a
// unit name the registry picks the matching registration with the highest
// priority; equal priorities resolve to the earliest registration. Generator
// packages register themselves into the default registry from init, so a
// binary opts in with a blank import:
//
//	import _ "mend/internal/gen/javagen"
package gen

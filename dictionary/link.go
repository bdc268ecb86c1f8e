package dictionary

// LinkValidator describes one declared parent-child relation between
// two categories: the parallel lists of parent and child key columns
// that must be equal for a child row to reference a parent row, plus
// the DDL group identifier the relation was assembled from.
type LinkValidator struct {
	ParentCategory string
	ChildCategory  string
	ParentKeys     []string
	ChildKeys      []string
	GroupID        string
	GroupLabel     string
}

package model

// Edge connects two nodes of the same graph.
//
// From/To index into the node list in declaration order. When FromID/ToID
// are set they take precedence and are resolved against node IDs, which
// keeps the edge stable if the node table is reordered.
type Edge struct {
	From int
	To   int

	FromID string
	ToID   string
}

// ByID reports whether the edge is authored with node identifiers.
func (e Edge) ByID() bool {
	return e.FromID != "" || e.ToID != ""
}

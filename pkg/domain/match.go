package domain

// Match is one structural change between an old (left) and new (right) tree.
//
//   - Left only: remove Left from the children of LeftParentID.
//   - Right only: insert Right under RightParentID.
//   - Both: Left is replaced by (or moved to) Right under RightParentID.
type Match struct {
	Left          *Element `json:"left,omitempty"`
	LeftParentID  string   `json:"leftParentId,omitempty"`
	Right         *Element `json:"right,omitempty"`
	RightParentID string   `json:"rightParentId,omitempty"`
}

// IsRemoval reports whether m only removes an element.
func (m Match) IsRemoval() bool {
	return m.Left != nil && m.Right == nil
}

// IsInsertion reports whether m only inserts an element.
func (m Match) IsInsertion() bool {
	return m.Left == nil && m.Right != nil
}

// IsMove reports whether m relocates or replaces an existing element.
func (m Match) IsMove() bool {
	return m.Left != nil && m.Right != nil
}

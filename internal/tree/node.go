package tree

// RootName is the name carried by the aggregate node of every snapshot.
const RootName = "root"

// Node is either a leaf (one tracked file) or the synthetic root.
type Node struct {
	Name     string `json:"name"`
	Digest   string `json:"digest"`
	Content  string `json:"content,omitempty"`
	Children []Node `json:"children,omitempty"`
}

// Clone returns a deep copy of n.
func (n Node) Clone() Node {
	out := n
	if n.Children != nil {
		out.Children = make([]Node, len(n.Children))
		for i, child := range n.Children {
			out.Children[i] = child.Clone()
		}
	}
	return out
}

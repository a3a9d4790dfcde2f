package similarity

// Node is a structural signature: node types and shape only, no
// identifiers. Trees are depth-limited at construction; Truncated marks a
// cut point.
type Node struct {
	Type      string
	Children  []*Node
	Truncated bool
}

// CompareNodes scores two structural signatures. Root-type agreement is
// worth 40%, child structure 60%. Children match greedily in order: the
// first pair scoring above 0.7 is consumed and its similarity summed, and
// the child score is that sum over the larger child count.
func CompareNodes(a, b *Node) float64 {
	if a == nil || b == nil {
		return 0
	}
	if a.Truncated || b.Truncated {
		if a.Truncated && b.Truncated {
			return 1.0
		}
		return 0.5
	}

	var score float64
	if a.Type == b.Type {
		score += 0.4
	}

	if len(a.Children) == 0 && len(b.Children) == 0 {
		// Leaves: shape agrees trivially.
		return score + 0.6
	}

	maxChildren := maxInt(len(a.Children), len(b.Children))
	var sum float64
	next := 0
	for _, ca := range a.Children {
		for j := next; j < len(b.Children); j++ {
			if s := CompareNodes(ca, b.Children[j]); s > 0.7 {
				sum += s
				next = j + 1
				break
			}
		}
	}
	return score + 0.6*(sum/float64(maxChildren))
}

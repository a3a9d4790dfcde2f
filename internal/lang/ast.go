package lang

import (
	"context"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/golang"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/python"
	"github.com/smacker/go-tree-sitter/typescript/typescript"

	"github.com/jasontally/semdiff/internal/similarity"
)

// Structural signatures keep shape, not identifiers: the comparison tier
// only ever sees node types, so trees are cut at a shallow depth.
const (
	maxSignatureDepth    = 4
	maxSignatureChildren = 12
)

func grammar(tag string) *sitter.Language {
	switch tag {
	case Go:
		return golang.GetLanguage()
	case JavaScript:
		return javascript.GetLanguage()
	case TypeScript:
		return typescript.GetLanguage()
	case Python:
		return python.GetLanguage()
	}
	return nil
}

// StructuralParser returns a ParseFunc for the language tag, or nil when no
// grammar is wired. The returned func never fails hard: parse errors simply
// report no signature, which disables the structural tier for that line.
func StructuralParser(tag string) similarity.ParseFunc {
	g := grammar(tag)
	if g == nil {
		return nil
	}
	parser := sitter.NewParser()
	parser.SetLanguage(g)

	return func(line string) (*similarity.Node, bool) {
		if line == "" {
			return nil, false
		}
		tree, err := parser.ParseCtx(context.Background(), nil, []byte(line))
		if err != nil || tree == nil {
			return nil, false
		}
		defer tree.Close()
		root := tree.RootNode()
		if root == nil {
			return nil, false
		}
		// Single lines rarely form a complete compilation unit, so error
		// nodes are expected; the shape is still a usable signal.
		return buildNode(root, maxSignatureDepth), true
	}
}

func buildNode(n *sitter.Node, depth int) *similarity.Node {
	node := &similarity.Node{Type: n.Type()}
	if depth == 0 {
		node.Truncated = true
		return node
	}
	count := int(n.NamedChildCount())
	if count > maxSignatureChildren {
		count = maxSignatureChildren
	}
	for i := 0; i < count; i++ {
		node.Children = append(node.Children, buildNode(n.NamedChild(i), depth-1))
	}
	return node
}

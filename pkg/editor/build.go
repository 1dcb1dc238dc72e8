package editor

import (
	"github.com/svgfx/fegraph/pkg/docstore"
	"github.com/svgfx/fegraph/pkg/primitive"
	"github.com/svgfx/fegraph/pkg/ref"
)

// Attribute names the builder and commit paths share.
const (
	attrIn     = "in"
	attrIn2    = "in2"
	attrResult = "result"
)

const mergeNodeElement = "feMergeNode"

// resultTable maps the document's result names onto the integer ids the
// graph resolves by. Ids are assigned in encounter order within one build;
// they are meaningless across builds, which is fine because the graph is
// rebuilt wholesale on every document change.
type resultTable struct {
	ids   map[string]int
	names map[int]string
	next  int
}

func newResultTable() *resultTable {
	return &resultTable{
		ids:   make(map[string]int),
		names: make(map[int]string),
	}
}

// idFor returns the id for a result name, allocating on first sight. A name
// referenced before (or without ever) being declared still gets an id; such
// references simply resolve to nothing.
func (t *resultTable) idFor(name string) int {
	if id, ok := t.ids[name]; ok {
		return id
	}
	id := t.next
	t.next++
	t.ids[name] = id
	t.names[id] = name
	return id
}

// parseRef decodes one input attribute value. Standard source keywords and
// result names both funnel through the raw codec; anything else (including
// an empty string) degrades to Unspecified so malformed documents stay
// editable.
func (t *resultTable) parseRef(value string, present bool) ref.Reference {
	if !present || value == "" {
		return ref.Unspecified()
	}
	if idx, ok := ref.ParseSourceKeyword(value); ok {
		raw, _ := ref.EncodeRaw(ref.StandardSource(idx))
		return ref.DecodeRaw(raw)
	}
	return ref.DecodeRaw(t.idFor(value))
}

// buildNodes projects the store's primitive list into graph nodes. Elements
// that are not filter primitives are ignored.
func buildNodes(store docstore.Store) ([]primitive.Node, *resultTable) {
	table := newResultTable()
	var nodes []primitive.Node

	for _, id := range store.OrderedPrimitives() {
		kind, ok := primitive.KindFromElement(store.Element(id))
		if !ok {
			continue
		}

		n := primitive.Node{ID: string(id), Kind: kind, Result: primitive.NoResult}

		if kind == primitive.Merge {
			for _, child := range store.Children(id) {
				if store.Element(child) != mergeNodeElement {
					continue
				}
				v, present := store.Attr(child, attrIn)
				n.MergeInputs = append(n.MergeInputs, table.parseRef(v, present))
				n.MergeIDs = append(n.MergeIDs, string(child))
			}
		} else {
			v, present := store.Attr(id, attrIn)
			n.In = table.parseRef(v, present)
			if kind.TakesTwoInputs() {
				v, present = store.Attr(id, attrIn2)
				n.In2 = table.parseRef(v, present)
			}
		}

		if name, present := store.Attr(id, attrResult); present && name != "" {
			n.Result = table.idFor(name)
		}

		nodes = append(nodes, n)
	}

	return nodes, table
}

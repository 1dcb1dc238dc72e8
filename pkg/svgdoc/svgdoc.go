// Package svgdoc reads and writes SVG <filter> markup into the document
// store. Parsing is defensive: unknown elements and malformed attributes are
// skipped rather than rejected, so a damaged document stays editable.
package svgdoc

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/svgfx/fegraph/pkg/docstore"
	"github.com/svgfx/fegraph/pkg/primitive"
)

const mergeNodeElement = "feMergeNode"

// Parse decodes SVG markup and loads the first <filter> element's primitive
// list into a fresh in-memory store. Input without a filter element yields
// an empty (still editable) document.
func Parse(r io.Reader) (*docstore.Memory, error) {
	return ParseFilter(r, "")
}

// ParseFilter is Parse restricted to the filter element with the given id.
// An empty id selects the first filter.
func ParseFilter(r io.Reader, filterID string) (*docstore.Memory, error) {
	store := docstore.NewMemory()
	dec := xml.NewDecoder(r)

	depth := 0                  // nesting inside a filter element; 0 = not inside
	skipping := false           // inside a filter whose id does not match
	var current docstore.NodeID // primitive currently open, for merge children

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parsing svg markup: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			name := localName(t.Name)
			switch {
			case depth == 0 && name == "filter":
				depth = 1
				skipping = filterID != "" && attrValue(t.Attr, "id") != filterID
			case depth == 1 && skipping:
				depth = 2
			case depth == 1:
				if _, known := primitive.KindFromElement(name); known {
					id, err := appendPrimitive(store, name, t.Attr)
					if err != nil {
						return nil, err
					}
					current = id
				} else {
					current = ""
				}
				depth = 2
			case depth == 2 && name == mergeNodeElement && current != "":
				if err := appendMergeNode(store, current, t.Attr); err != nil {
					return nil, err
				}
				depth = 3
			default:
				if depth > 0 {
					depth++
				}
			}

		case xml.EndElement:
			if depth > 0 {
				depth--
				if depth == 1 {
					current = ""
				}
				if depth == 0 && localName(t.Name) == "filter" {
					if !skipping {
						// Only the matching filter is loaded.
						store.ClearHistory()
						return store, nil
					}
					skipping = false
				}
			}
		}
	}

	store.ClearHistory()
	return store, nil
}

// Load parses the file at path.
func Load(path string) (*docstore.Memory, error) {
	return LoadFilter(path, "")
}

// LoadFilter parses the file at path, selecting the filter with the given
// id. An empty id selects the first filter.
func LoadFilter(path, filterID string) (*docstore.Memory, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening document: %w", err)
	}
	defer f.Close()
	return ParseFilter(f, filterID)
}

func attrValue(attrs []xml.Attr, name string) string {
	for _, a := range attrs {
		if localName(a.Name) == name {
			return a.Value
		}
	}
	return ""
}

// Reload re-reads the file at path into an existing store, replacing its
// whole primitive list in one observer notification. The undo history is
// dropped: edits from before an external reload no longer describe the
// document.
func Reload(store *docstore.Memory, path, filterID string) error {
	fresh, err := LoadFilter(path, filterID)
	if err != nil {
		return err
	}

	err = store.Do("Reload document", func() error {
		for _, id := range store.OrderedPrimitives() {
			if err := store.RemoveNode(id); err != nil {
				return err
			}
		}
		for _, src := range fresh.OrderedPrimitives() {
			if err := copyPrimitive(fresh, store, src); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	store.ClearHistory()
	return nil
}

func copyPrimitive(from *docstore.Memory, to *docstore.Memory, src docstore.NodeID) error {
	dst, err := to.InsertPrimitive(len(to.OrderedPrimitives())-1, from.Element(src))
	if err != nil {
		return err
	}
	if err := copyAttrs(from, to, src, dst); err != nil {
		return err
	}
	for _, child := range from.Children(src) {
		dstChild, err := to.AppendChild(dst, from.Element(child))
		if err != nil {
			return err
		}
		if err := copyAttrs(from, to, child, dstChild); err != nil {
			return err
		}
	}
	return nil
}

func copyAttrs(from *docstore.Memory, to *docstore.Memory, src, dst docstore.NodeID) error {
	for _, name := range from.AttrNames(src) {
		v, _ := from.Attr(src, name)
		if err := to.SetAttr(dst, name, v); err != nil {
			return err
		}
	}
	return nil
}

func localName(n xml.Name) string {
	if i := strings.Index(n.Local, ":"); i >= 0 {
		return n.Local[i+1:]
	}
	return n.Local
}

func appendPrimitive(store *docstore.Memory, element string, attrs []xml.Attr) (docstore.NodeID, error) {
	id, err := store.InsertPrimitive(len(store.OrderedPrimitives())-1, element)
	if err != nil {
		return "", err
	}
	return id, setAttrs(store, id, attrs)
}

func appendMergeNode(store *docstore.Memory, parent docstore.NodeID, attrs []xml.Attr) error {
	id, err := store.AppendChild(parent, mergeNodeElement)
	if err != nil {
		return err
	}
	return setAttrs(store, id, attrs)
}

func setAttrs(store *docstore.Memory, id docstore.NodeID, attrs []xml.Attr) error {
	for _, a := range attrs {
		if a.Name.Space == "xmlns" || a.Name.Local == "xmlns" {
			continue
		}
		if err := store.SetAttr(id, localName(a.Name), a.Value); err != nil {
			return err
		}
	}
	return nil
}

// Serialize writes the store's primitive list back out as a <filter>
// element. Attributes are emitted in sorted order so output is
// deterministic.
func Serialize(store docstore.Store, w io.Writer, filterID string) error {
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")

	filterStart := xml.StartElement{Name: xml.Name{Local: "filter"}}
	if filterID != "" {
		filterStart.Attr = []xml.Attr{{Name: xml.Name{Local: "id"}, Value: filterID}}
	}
	if err := enc.EncodeToken(filterStart); err != nil {
		return fmt.Errorf("serializing filter: %w", err)
	}

	for _, id := range store.OrderedPrimitives() {
		if err := encodeElement(enc, store, id); err != nil {
			return err
		}
	}

	if err := enc.EncodeToken(filterStart.End()); err != nil {
		return fmt.Errorf("serializing filter: %w", err)
	}
	return enc.Flush()
}

func encodeElement(enc *xml.Encoder, store docstore.Store, id docstore.NodeID) error {
	start := xml.StartElement{
		Name: xml.Name{Local: store.Element(id)},
		Attr: sortedAttrs(store, id),
	}
	if err := enc.EncodeToken(start); err != nil {
		return fmt.Errorf("serializing %s: %w", store.Element(id), err)
	}
	for _, child := range store.Children(id) {
		if err := encodeElement(enc, store, child); err != nil {
			return err
		}
	}
	if err := enc.EncodeToken(start.End()); err != nil {
		return fmt.Errorf("serializing %s: %w", store.Element(id), err)
	}
	return nil
}

func sortedAttrs(store docstore.Store, id docstore.NodeID) []xml.Attr {
	names := store.AttrNames(id)
	sort.Strings(names)
	attrs := make([]xml.Attr, 0, len(names))
	for _, n := range names {
		v, _ := store.Attr(id, n)
		attrs = append(attrs, xml.Attr{Name: xml.Name{Local: n}, Value: v})
	}
	return attrs
}

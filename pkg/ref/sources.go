package ref

// Source describes one entry of the fixed standard-source enumeration. The
// set is closed and ordered; indices are stable across the host format.
type Source struct {
	Key   string // attribute keyword, e.g. "SourceGraphic"
	Label string // display label for rendering
}

// Sources is the standard source enumeration in index order. Index 0 is the
// base source an implicit reference on the first primitive falls back to.
var Sources = []Source{
	{Key: "SourceGraphic", Label: "Source Graphic"},
	{Key: "SourceAlpha", Label: "Source Alpha"},
	{Key: "BackgroundImage", Label: "Background Image"},
	{Key: "BackgroundAlpha", Label: "Background Alpha"},
	{Key: "FillPaint", Label: "Fill Paint"},
	{Key: "StrokePaint", Label: "Stroke Paint"},
}

// SourceKeyword returns the attribute keyword for a standard source index,
// or "" if the index is out of range.
func SourceKeyword(index int) string {
	if index < 0 || index >= len(Sources) {
		return ""
	}
	return Sources[index].Key
}

// ParseSourceKeyword maps an attribute keyword onto a standard source index.
func ParseSourceKeyword(key string) (int, bool) {
	for i, s := range Sources {
		if s.Key == key {
			return i, true
		}
	}
	return 0, false
}

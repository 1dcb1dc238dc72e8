// Package primitive models an ordered pipeline of filter primitives and the
// resolution of their input references. The graph owns its node list
// outright; nodes are value data rebuilt wholesale from the document store
// and reference each other only by result id, never by pointer.
package primitive

// Kind enumerates the filter primitive types. The set is closed; every
// switch over Kind in this package is exhaustive.
type Kind int

const (
	Blend Kind = iota
	ColorMatrix
	ComponentTransfer
	Composite
	ConvolveMatrix
	DiffuseLighting
	DisplacementMap
	Flood
	GaussianBlur
	Image
	Merge
	Morphology
	Offset
	SpecularLighting
	Tile
	Turbulence
)

var kindNames = map[Kind]string{
	Blend:             "feBlend",
	ColorMatrix:       "feColorMatrix",
	ComponentTransfer: "feComponentTransfer",
	Composite:         "feComposite",
	ConvolveMatrix:    "feConvolveMatrix",
	DiffuseLighting:   "feDiffuseLighting",
	DisplacementMap:   "feDisplacementMap",
	Flood:             "feFlood",
	GaussianBlur:      "feGaussianBlur",
	Image:             "feImage",
	Merge:             "feMerge",
	Morphology:        "feMorphology",
	Offset:            "feOffset",
	SpecularLighting:  "feSpecularLighting",
	Tile:              "feTile",
	Turbulence:        "feTurbulence",
}

// String returns the SVG element name of the kind.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "feUnknown"
}

// KindFromElement maps an SVG element name onto a Kind.
func KindFromElement(name string) (Kind, bool) {
	for k, n := range kindNames {
		if n == name {
			return k, true
		}
	}
	return 0, false
}

// TakesTwoInputs reports whether the kind has an "in2" slot.
func (k Kind) TakesTwoInputs() bool {
	switch k {
	case Blend, Composite, DisplacementMap:
		return true
	default:
		return false
	}
}

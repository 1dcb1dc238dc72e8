// Package ref models the value stored in a filter primitive input slot: an
// explicit reference to a standard source, an explicit reference to another
// primitive's named result, or nothing at all. It also owns the raw integer
// encoding used by the document layer.
package ref

// Kind discriminates the three reference variants.
type Kind int

const (
	// KindUnspecified means the slot carries no explicit reference and the
	// graph's implicit-default rules apply.
	KindUnspecified Kind = iota
	// KindStandardSource references one of the fixed non-primitive inputs
	// (SourceGraphic, SourceAlpha, ...).
	KindStandardSource
	// KindNamedResult references the declared result of an earlier primitive.
	KindNamedResult
)

// Reference is an immutable input-slot value.
type Reference struct {
	kind  Kind
	value int
}

// Unspecified returns the empty reference.
func Unspecified() Reference {
	return Reference{kind: KindUnspecified}
}

// StandardSource returns a reference to the standard source with the given
// index (see Sources for the fixed enumeration).
func StandardSource(index int) Reference {
	return Reference{kind: KindStandardSource, value: index}
}

// NamedResult returns a reference to the primitive result with the given id.
// Result ids are non-negative.
func NamedResult(id int) Reference {
	return Reference{kind: KindNamedResult, value: id}
}

// Kind returns the variant of the reference.
func (r Reference) Kind() Kind {
	return r.kind
}

// IsUnspecified reports whether the slot carries no explicit reference.
func (r Reference) IsUnspecified() bool {
	return r.kind == KindUnspecified
}

// Source returns the standard source index. The second return is false for
// non-source references.
func (r Reference) Source() (int, bool) {
	return r.value, r.kind == KindStandardSource
}

// Result returns the referenced result id. The second return is false for
// non-result references.
func (r Reference) Result() (int, bool) {
	return r.value, r.kind == KindNamedResult
}

// rawReserved is the one raw value that encodes neither a result nor a
// standard source. It decodes to Unspecified.
const rawReserved = -1

// DecodeRaw maps a raw integer reference onto a Reference:
//
//	raw >= 0  -> NamedResult(raw)
//	raw == -1 -> Unspecified (reserved)
//	raw <  -1 -> StandardSource(-(raw+2))
//
// An absent raw value has no integer form; callers model it as Unspecified
// directly. DecodeRaw is total and never fails.
func DecodeRaw(raw int) Reference {
	switch {
	case raw >= 0:
		return NamedResult(raw)
	case raw < rawReserved:
		return StandardSource(-(raw + 2))
	default:
		return Unspecified()
	}
}

// EncodeRaw is the inverse of DecodeRaw. The second return is false for
// Unspecified, meaning the attribute should be absent rather than written.
func EncodeRaw(r Reference) (int, bool) {
	switch r.kind {
	case KindNamedResult:
		return r.value, true
	case KindStandardSource:
		return -(r.value + 2), true
	default:
		return 0, false
	}
}

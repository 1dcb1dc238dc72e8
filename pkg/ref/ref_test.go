package ref

import "testing"

func TestDecodeRaw(t *testing.T) {
	tests := []struct {
		raw  int
		want Reference
	}{
		{0, NamedResult(0)},
		{1, NamedResult(1)},
		{42, NamedResult(42)},
		{-1, Unspecified()}, // reserved value
		{-2, StandardSource(0)},
		{-3, StandardSource(1)},
		{-7, StandardSource(5)},
	}

	for _, tt := range tests {
		got := DecodeRaw(tt.raw)
		if got != tt.want {
			t.Errorf("DecodeRaw(%d) = %v, want %v", tt.raw, got, tt.want)
		}
	}
}

func TestEncodeRaw(t *testing.T) {
	if raw, ok := EncodeRaw(NamedResult(5)); !ok || raw != 5 {
		t.Errorf("EncodeRaw(NamedResult(5)) = %d, %t", raw, ok)
	}
	if raw, ok := EncodeRaw(StandardSource(0)); !ok || raw != -2 {
		t.Errorf("EncodeRaw(StandardSource(0)) = %d, %t", raw, ok)
	}
	if _, ok := EncodeRaw(Unspecified()); ok {
		t.Error("EncodeRaw(Unspecified()) should report absent")
	}
}

func TestRoundTripReferenceToRaw(t *testing.T) {
	refs := []Reference{
		NamedResult(0),
		NamedResult(17),
		StandardSource(0),
		StandardSource(5),
	}

	for _, r := range refs {
		raw, ok := EncodeRaw(r)
		if !ok {
			t.Fatalf("EncodeRaw(%v) unexpectedly absent", r)
		}
		if got := DecodeRaw(raw); got != r {
			t.Errorf("DecodeRaw(EncodeRaw(%v)) = %v", r, got)
		}
	}
}

func TestRoundTripRawToReference(t *testing.T) {
	// Every raw value in the legal domain: >= 0 and < -1.
	for _, raw := range []int{0, 1, 2, 100, -2, -3, -4, -7} {
		r := DecodeRaw(raw)
		got, ok := EncodeRaw(r)
		if !ok {
			t.Fatalf("EncodeRaw(DecodeRaw(%d)) unexpectedly absent", raw)
		}
		if got != raw {
			t.Errorf("EncodeRaw(DecodeRaw(%d)) = %d", raw, got)
		}
	}
}

func TestSourceKeywords(t *testing.T) {
	for i, s := range Sources {
		idx, ok := ParseSourceKeyword(s.Key)
		if !ok || idx != i {
			t.Errorf("ParseSourceKeyword(%q) = %d, %t, want %d", s.Key, idx, ok, i)
		}
	}

	if _, ok := ParseSourceKeyword("NotASource"); ok {
		t.Error("ParseSourceKeyword accepted an unknown keyword")
	}
	if SourceKeyword(len(Sources)) != "" {
		t.Error("SourceKeyword out of range should return empty string")
	}
}

func TestAccessors(t *testing.T) {
	if _, ok := Unspecified().Source(); ok {
		t.Error("Unspecified should not report a source")
	}
	if _, ok := StandardSource(2).Result(); ok {
		t.Error("StandardSource should not report a result")
	}
	if id, ok := NamedResult(9).Result(); !ok || id != 9 {
		t.Errorf("NamedResult(9).Result() = %d, %t", id, ok)
	}
	if !Unspecified().IsUnspecified() {
		t.Error("Unspecified().IsUnspecified() = false")
	}
}

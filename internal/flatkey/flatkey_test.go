package flatkey

import "testing"

func TestEscapeRoundTrip(t *testing.T) {
	values := []string{
		"",
		"plain",
		"with space",
		"a/b",
		"k=v",
		"1,2,3",
		"100%",
		"%2F", // literal text that looks like an escape
		"tab\tnewline\n",
		"~tilde-dot._ok",
		"bytes\x00\xff",
	}
	for _, v := range values {
		enc := Escape(v)
		dec, err := Unescape(enc)
		if err != nil {
			t.Fatalf("Unescape(Escape(%q)) error: %v", v, err)
		}
		if dec != v {
			t.Errorf("round trip %q: got %q via %q", v, dec, enc)
		}
	}
}

func TestEscapeReservedBytes(t *testing.T) {
	for _, v := range []string{"/", "=", ",", "%"} {
		enc := Escape(v)
		if enc == v {
			t.Errorf("Escape(%q) must not pass the byte through, got %q", v, enc)
		}
	}
}

func TestUnescapeRejectsBadEscapes(t *testing.T) {
	for _, v := range []string{"%", "%2", "%zz", "abc%"} {
		if _, err := Unescape(v); err == nil {
			t.Errorf("Unescape(%q) should fail", v)
		}
	}
}

func TestEncodeInstanceListKey(t *testing.T) {
	got := EncodeInstance("y", []string{"1", "3"})
	if got != "y=1,3" {
		t.Errorf("EncodeInstance = %q, want %q", got, "y=1,3")
	}
}

func TestEncodeInstanceEscapesValues(t *testing.T) {
	got := EncodeInstance("y", []string{"a,b", "c=d"})
	if got != "y=a%2Cb,c%3Dd" {
		t.Errorf("EncodeInstance = %q, want %q", got, "y=a%2Cb,c%3Dd")
	}
}

func TestDecodeSegment(t *testing.T) {
	tests := []struct {
		raw    string
		name   string
		values []string
	}{
		{"x", "x", nil},
		{"y=1,3", "y", []string{"1", "3"}},
		{"z=hello%20world", "z", []string{"hello world"}},
		{"z=", "z", []string{""}},
	}
	for _, tt := range tests {
		seg, err := DecodeSegment(tt.raw)
		if err != nil {
			t.Fatalf("DecodeSegment(%q) error: %v", tt.raw, err)
		}
		if seg.Name != tt.name {
			t.Errorf("DecodeSegment(%q).Name = %q, want %q", tt.raw, seg.Name, tt.name)
		}
		if len(seg.Values) != len(tt.values) {
			t.Fatalf("DecodeSegment(%q).Values = %v, want %v", tt.raw, seg.Values, tt.values)
		}
		for i := range tt.values {
			if seg.Values[i] != tt.values[i] {
				t.Errorf("DecodeSegment(%q).Values[%d] = %q, want %q", tt.raw, i, seg.Values[i], tt.values[i])
			}
		}
		if tt.values == nil && seg.IsInstance() {
			t.Errorf("DecodeSegment(%q) should not be an instance", tt.raw)
		}
	}
}

func TestSegmentRoundTrip(t *testing.T) {
	seg, err := DecodeSegment(EncodeInstance("y", []string{"a=b", "", "x,y"}))
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"a=b", "", "x,y"}
	for i, v := range want {
		if seg.Values[i] != v {
			t.Errorf("Values[%d] = %q, want %q", i, seg.Values[i], v)
		}
	}
}

func TestSplitJoin(t *testing.T) {
	key := Join(Join("", "x"), "y=1,3")
	if key != "/x/y=1,3" {
		t.Fatalf("Join = %q", key)
	}
	segs := Split(key)
	if len(segs) != 2 || segs[0] != "x" || segs[1] != "y=1,3" {
		t.Errorf("Split(%q) = %v", key, segs)
	}
}

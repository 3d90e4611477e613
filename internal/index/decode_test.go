package index

import (
	"strings"
	"testing"
)

func TestDetectVersion(t *testing.T) {
	tests := []struct {
		name string
		data string
		want Version
	}{
		{"v1 preamble", v1Payload, V1},
		{"v2 terminator", v2Payload, V2},
		{"v3 initSearch", v3Payload, V3},
		{"v3 exports", v3PayloadNumeric, V3},
		{"empty", "", VersionUnknown},
		{"garbage", "not a payload", VersionUnknown},
	}
	for _, tt := range tests {
		if got := DetectVersion([]byte(tt.data)); got != tt.want {
			t.Errorf("%s: got %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestDecode_AllGenerations(t *testing.T) {
	for _, tt := range []struct {
		name    string
		payload string
		crate   string
	}{
		{"v1", v1Payload, "anyhow"},
		{"v2", v2Payload, "anyhow"},
		{"v3", v3Payload, "anyhow"},
	} {
		t.Run(tt.name, func(t *testing.T) {
			crates, err := Decode([]byte(tt.payload), VersionUnknown)
			if err != nil {
				t.Fatal(err)
			}
			if crates[0].Name != tt.crate {
				t.Errorf("first crate = %q, want %q", crates[0].Name, tt.crate)
			}
		})
	}
}

func TestDecode_WrongHintStillSucceeds(t *testing.T) {
	// The hint only reorders candidates; a V1 payload decodes even when
	// the caller guesses V3.
	crates, err := Decode([]byte(v1Payload), V3)
	if err != nil {
		t.Fatal(err)
	}
	if len(crates) != 2 {
		t.Errorf("got %d crates, want 2", len(crates))
	}
}

func TestDecode_CratesSortedByName(t *testing.T) {
	crates, err := Decode([]byte(v2Payload), VersionUnknown)
	if err != nil {
		t.Fatal(err)
	}
	for i := 1; i < len(crates); i++ {
		if crates[i-1].Name > crates[i].Name {
			t.Fatalf("crates out of order: %q before %q", crates[i-1].Name, crates[i].Name)
		}
	}
}

func TestDecode_Deterministic(t *testing.T) {
	first, err := Decode([]byte(v3Payload), VersionUnknown)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 5; i++ {
		again, err := Decode([]byte(v3Payload), VersionUnknown)
		if err != nil {
			t.Fatal(err)
		}
		if len(again) != len(first) {
			t.Fatal("crate count changed between decodes")
		}
		for j := range again {
			if again[j].Name != first[j].Name {
				t.Fatalf("crate order changed: %q vs %q", again[j].Name, first[j].Name)
			}
			for k := range again[j].Index.Items {
				if again[j].Index.Items[k] != first[j].Index.Items[k] {
					t.Fatalf("item %d differs between decodes", k)
				}
			}
		}
	}
}

func TestDecode_AllCandidatesFail(t *testing.T) {
	_, err := Decode([]byte("definitely not an index"), VersionUnknown)
	if err == nil {
		t.Fatal("expected error")
	}
	// The combined error names every generation that was tried.
	for _, gen := range []string{"v1", "v2", "v3"} {
		if !strings.Contains(err.Error(), "index "+gen) {
			t.Errorf("error %q missing the %s attempt", err, gen)
		}
	}
}

func TestDecode_ParentOutOfBounds(t *testing.T) {
	payload := `var searchIndex=JSON.parse('{\
"x":{"doc":"","i":[[11,"orphan","x","",9,null]],"p":[[3,"Gone"]]}\
}');
addSearchOptions(searchIndex);initSearch(searchIndex);`
	_, err := Decode([]byte(payload), VersionUnknown)
	if err == nil || !strings.Contains(err.Error(), "outside paths table") {
		t.Errorf("err = %v, want paths bounds error", err)
	}
}

func TestExtractJSONLines(t *testing.T) {
	payload := "var searchIndex = JSON.parse('{\\\n" +
		`"a":{"k":"it\'s \\"quoted\\""},\` + "\n" +
		`"b":{}\` + "\n" +
		"}');"
	body, lines := extractJSONLines([]byte(payload))
	if lines != 2 {
		t.Fatalf("lines = %d, want 2", lines)
	}
	want := `{"a":{"k":"it's \"quoted\""},"b":{}}`
	if body != want {
		t.Errorf("body = %q, want %q", body, want)
	}
}

func TestNormalize_ColumnLengthMismatch(t *testing.T) {
	// Shorter columns truncate the zip instead of panicking.
	rc := &rawCrate{
		kinds:   []ItemKind{KindStruct, KindStruct, KindStruct},
		names:   []string{"A", "B"},
		paths:   map[int]string{0: "x"},
		descs:   []string{"", "", ""},
		parents: []int{0, 0, 0},
	}
	c, err := rc.normalize(V3, "x")
	if err != nil {
		t.Fatal(err)
	}
	if got := len(c.Index.Items); got != 2 {
		t.Errorf("got %d items, want 2", got)
	}
}

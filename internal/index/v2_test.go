package index

import (
	"strings"
	"testing"
)

const v2Payload = `var searchIndex=JSON.parse('{\
"anyhow":{"doc":"Flexible concrete Error type","i":[[3,"Error","anyhow","The error type",0,null],[11,"new","","Construct an error",1,null],[11,"is","",null,1,null]],"p":[[3,"Error"]]},\
"thiserror":{"doc":"derive(Error)","i":[[24,"Error","thiserror","Derive macro",0,null]],"p":[]}\
}');
addSearchOptions(searchIndex);initSearch(searchIndex);`

func TestDecodeV2_Crates(t *testing.T) {
	crates, err := decodeV2([]byte(v2Payload))
	if err != nil {
		t.Fatal(err)
	}
	if len(crates) != 2 {
		t.Fatalf("got %d crates, want 2", len(crates))
	}

	var anyhow *Crate
	for i := range crates {
		if crates[i].Name == "anyhow" {
			anyhow = &crates[i]
		}
	}
	if anyhow == nil {
		t.Fatal("anyhow crate missing")
	}

	items := anyhow.Index.Items
	if len(items) != 3 {
		t.Fatalf("got %d items, want 3", len(items))
	}
	if items[0].Kind != KindStruct || items[0].Name != "Error" {
		t.Errorf("item 0 = %+v", items[0])
	}
	if items[1].Kind != KindMethod || items[1].ModulePath != "anyhow" {
		t.Errorf("item 1 = %+v", items[1])
	}
	// Null tuple fields decode to empty strings.
	if items[2].Desc != "" {
		t.Errorf("item 2 desc = %q, want empty", items[2].Desc)
	}
}

func TestDecodeV2_ParentLocalization(t *testing.T) {
	crates, err := decodeV2([]byte(v2Payload))
	if err != nil {
		t.Fatal(err)
	}
	for i := range crates {
		if crates[i].Name != "anyhow" {
			continue
		}
		if got, ok := crates[i].Index.Items[1].Parent.Self(); !ok || got != 0 {
			t.Errorf("new parent = %+v, want SelfRef(0)", crates[i].Index.Items[1].Parent)
		}
	}
}

func TestDecodeV2_MissingTerminator(t *testing.T) {
	payload := strings.TrimSuffix(v2Payload, "addSearchOptions(searchIndex);initSearch(searchIndex);")
	_, err := decodeV2([]byte(payload))
	if err == nil || !strings.Contains(err.Error(), "addSearchOptions") {
		t.Errorf("err = %v, want missing terminator", err)
	}
}

func TestDecodeV2_ShortTuple(t *testing.T) {
	payload := `var searchIndex=JSON.parse('{\
"x":{"doc":"","i":[[3,"Error"]],"p":[]}\
}');
addSearchOptions(searchIndex);initSearch(searchIndex);`
	_, err := decodeV2([]byte(payload))
	if err == nil || !strings.Contains(err.Error(), "at least 5") {
		t.Errorf("err = %v, want short-tuple error", err)
	}
}

package parser

import (
	"testing"
)

func TestParseNameAndPayload(t *testing.T) {
	cmd, err := Parse(`.find {"age": {"$gte": 21}}`)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if cmd.Name != ".find" {
		t.Errorf("name = %q", cmd.Name)
	}
	if cmd.Payload != `{"age": {"$gte": 21}}` {
		t.Errorf("payload = %q", cmd.Payload)
	}
	if len(cmd.Options) != 0 {
		t.Errorf("unexpected options: %v", cmd.Options)
	}
}

func TestParseTrailingOptions(t *testing.T) {
	cmd, err := Parse(`.find {"status": "active"} sort=age:-1 skip=2 limit=5`)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if cmd.Payload != `{"status": "active"}` {
		t.Errorf("payload = %q", cmd.Payload)
	}
	want := map[string]string{"sort": "age:-1", "skip": "2", "limit": "5"}
	for key, value := range want {
		if cmd.Options[key] != value {
			t.Errorf("option %s = %q, want %q", key, cmd.Options[key], value)
		}
	}
}

func TestParseOptionsOnly(t *testing.T) {
	cmd, err := Parse(`.find limit=3`)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if cmd.Payload != "" {
		t.Errorf("payload should be empty, got %q", cmd.Payload)
	}
	if cmd.Options["limit"] != "3" {
		t.Errorf("options = %v", cmd.Options)
	}
}

// Tokens containing JSON punctuation stay in the payload even when they
// contain an equals sign.
func TestParseDoesNotEatJSONWithEquals(t *testing.T) {
	cmd, err := Parse(`.insert {"formula":"a=b"}`)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if cmd.Payload != `{"formula":"a=b"}` {
		t.Errorf("payload = %q", cmd.Payload)
	}
	if len(cmd.Options) != 0 {
		t.Errorf("JSON token misread as option: %v", cmd.Options)
	}
}

func TestParseRejectsNonCommands(t *testing.T) {
	if _, err := Parse("find {}"); err == nil {
		t.Errorf("missing dot prefix must be rejected")
	}
	if _, err := Parse("   "); err == nil {
		t.Errorf("blank line must be rejected")
	}
}

func TestObject(t *testing.T) {
	cmd, _ := Parse(`.count {"role": "admin"}`)
	obj, err := cmd.Object()
	if err != nil {
		t.Fatalf("object decode failed: %v", err)
	}
	if obj["role"] != "admin" {
		t.Errorf("obj = %v", obj)
	}

	empty, _ := Parse(`.count`)
	obj, err = empty.Object()
	if err != nil || len(obj) != 0 {
		t.Errorf("empty payload should decode to an empty object, got %v, %v", obj, err)
	}

	bad, _ := Parse(`.count {broken`)
	if _, err := bad.Object(); err == nil {
		t.Errorf("malformed JSON must error")
	}
}

func TestObjectList(t *testing.T) {
	single, _ := Parse(`.insert {"a": 1}`)
	list, err := single.ObjectList()
	if err != nil || len(list) != 1 {
		t.Fatalf("single object list: %v, %v", list, err)
	}

	many, _ := Parse(`.insert [{"a": 1}, {"a": 2}]`)
	list, err = many.ObjectList()
	if err != nil || len(list) != 2 {
		t.Fatalf("array list: %v, %v", list, err)
	}

	missing, _ := Parse(`.insert`)
	if _, err := missing.ObjectList(); err == nil {
		t.Errorf("missing payload must error")
	}
}

func TestIntOption(t *testing.T) {
	cmd, _ := Parse(`.find limit=7`)

	if n, err := cmd.IntOption("limit", 0); err != nil || n != 7 {
		t.Errorf("limit = %d, %v", n, err)
	}
	if n, err := cmd.IntOption("skip", 4); err != nil || n != 4 {
		t.Errorf("absent option should return the default, got %d, %v", n, err)
	}

	bad, _ := Parse(`.find limit=lots`)
	if _, err := bad.IntOption("limit", 0); err == nil {
		t.Errorf("non-numeric option must error")
	}
}

func TestSortOption(t *testing.T) {
	cmd, _ := Parse(`.find sort=age:-1`)
	field, dir, ok, err := cmd.SortOption()
	if err != nil || !ok || field != "age" || dir != -1 {
		t.Errorf("got %q %d %v %v", field, dir, ok, err)
	}

	bare, _ := Parse(`.find sort=name`)
	field, dir, ok, err = bare.SortOption()
	if err != nil || !ok || field != "name" || dir != 1 {
		t.Errorf("bare field should default ascending: %q %d %v %v", field, dir, ok, err)
	}

	none, _ := Parse(`.find`)
	if _, _, ok, err := none.SortOption(); ok || err != nil {
		t.Errorf("absent sort option: ok=%v err=%v", ok, err)
	}
}

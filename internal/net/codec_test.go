package net

import "testing"

func TestDecodeArray(t *testing.T) {
	msg, err := Decode([]byte(`[4, 10, 20]`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(msg) != 3 || msg[0].(float64) != 4 || msg[2].(float64) != 20 {
		t.Fatalf("unexpected message %v", msg)
	}
}

func TestDecodeRejectsNonArray(t *testing.T) {
	for _, in := range []string{`{"a":1}`, `"go"`, `[1,`, ``} {
		if _, err := Decode([]byte(in)); err == nil {
			t.Errorf("expected error for %q", in)
		}
	}
}

func TestEncodeBatch(t *testing.T) {
	data, err := EncodeBatch([][]any{{1, 2}, {3, "x", []int{4}}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(data) != `[[1,2],[3,"x",[4]]]` {
		t.Fatalf("unexpected encoding %s", data)
	}
}

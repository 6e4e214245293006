package engine

import "testing"

func TestHandleTableAddGet(t *testing.T) {
	var tbl handleTable[string]
	h1 := tbl.add("a")
	h2 := tbl.add("b")
	if h1 == 0 || h2 == 0 {
		t.Fatal("handle 0 issued")
	}
	if h1 == h2 {
		t.Fatal("duplicate handles issued")
	}
	if v, ok := tbl.get(h1); !ok || v != "a" {
		t.Errorf("get(%d) = %q, %v", h1, v, ok)
	}
	if v, ok := tbl.get(h2); !ok || v != "b" {
		t.Errorf("get(%d) = %q, %v", h2, v, ok)
	}
}

func TestHandleTableInvalidHandles(t *testing.T) {
	var tbl handleTable[int]
	for _, h := range []int32{0, -1, 1, 99} {
		if _, ok := tbl.get(h); ok {
			t.Errorf("get(%d) succeeded on empty table", h)
		}
		if _, ok := tbl.remove(h); ok {
			t.Errorf("remove(%d) succeeded on empty table", h)
		}
	}
}

func TestHandleTableRemoveAndReuse(t *testing.T) {
	var tbl handleTable[string]
	h1 := tbl.add("a")
	tbl.add("b")
	if v, ok := tbl.remove(h1); !ok || v != "a" {
		t.Fatalf("remove = %q, %v", v, ok)
	}
	if _, ok := tbl.get(h1); ok {
		t.Error("removed handle still live")
	}
	if _, ok := tbl.remove(h1); ok {
		t.Error("double remove succeeded")
	}
	h3 := tbl.add("c")
	if h3 != h1 {
		t.Errorf("freed handle not reused: got %d, want %d", h3, h1)
	}
	if v, ok := tbl.get(h3); !ok || v != "c" {
		t.Errorf("get after reuse = %q, %v", v, ok)
	}
}

func TestHandleTableEach(t *testing.T) {
	var tbl handleTable[string]
	tbl.add("a")
	h2 := tbl.add("b")
	tbl.add("c")
	tbl.remove(h2)

	var seen []string
	tbl.each(func(h int32, v string) bool {
		seen = append(seen, v)
		return true
	})
	if len(seen) != 2 || seen[0] != "a" || seen[1] != "c" {
		t.Errorf("each visited %v", seen)
	}

	var first string
	tbl.each(func(h int32, v string) bool {
		first = v
		return false
	})
	if first != "a" {
		t.Errorf("early stop visited %q", first)
	}
}

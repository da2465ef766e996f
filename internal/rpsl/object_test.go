package rpsl

import "testing"

func TestObject_TypeFromFirstKey(t *testing.T) {
	o := NewObject()
	o.Add("descr", "a network")
	o.Add("inetnum", "192.0.2.0/24")
	if o.Type != ObjectType("descr") {
		t.Errorf("Type = %q, want %q (first key wins even if unknown)", o.Type, "descr")
	}
}

func TestObject_KnownTypeNormalization(t *testing.T) {
	o := NewObject()
	o.Add("AUT-NUM", "AS1126")
	if o.Type != AutNum {
		t.Errorf("Type = %q, want %q", o.Type, AutNum)
	}
}

func TestObject_KeyOrderPreserved(t *testing.T) {
	o := NewObject()
	o.Add("remarks", "a")
	o.Add("descr", "b")
	o.Add("remarks", "c")
	keys := o.Keys()
	if len(keys) != 2 || keys[0] != "remarks" || keys[1] != "descr" {
		t.Errorf("Keys() = %v, want [remarks descr]", keys)
	}
	if vals := o.Get("remarks"); len(vals) != 2 || vals[0] != "a" || vals[1] != "c" {
		t.Errorf("Get(remarks) = %v, want [a c]", vals)
	}
}

func TestObject_AppendToLast(t *testing.T) {
	o := NewObject()
	o.Add("descr", "First")
	o.AppendToLast("descr", "second")
	if got, _ := o.First("descr"); got != "First second" {
		t.Errorf("First(descr) = %q, want %q", got, "First second")
	}
}

func TestObject_Equal_IgnoresKeyOrder(t *testing.T) {
	a := NewObject()
	a.Add("inetnum", "1.1.1.0/24")
	a.Add("netname", "X")
	a.Add("descr", "d")

	b := NewObject()
	b.Add("netname", "X")
	b.Add("inetnum", "1.1.1.0/24")
	b.Add("descr", "d")

	// Types differ because first key differs; Equal should reflect that.
	if a.Equal(b) {
		t.Error("objects with different first keys should not compare equal")
	}

	c := NewObject()
	c.Add("inetnum", "1.1.1.0/24")
	c.Add("descr", "d")
	c.Add("netname", "X")
	if !a.Equal(c) {
		t.Error("objects differing only in the order of later keys should compare equal")
	}
}

// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package bo

import (
	"encoding/binary"
	"testing"
)

func TestNativeReturnsValidByteOrder(t *testing.T) {
	b := Native()
	if b != binary.BigEndian && b != binary.LittleEndian {
		t.Fatalf("unexpected byte order: %T", b)
	}
	var p [8]byte
	b.PutUint64(p[:], 0x0102030405060708)
	if got := binary.NativeEndian.Uint64(p[:]); got != 0x0102030405060708 {
		t.Fatalf("Native disagrees with binary.NativeEndian: %#x", got)
	}
}

func TestLookup(t *testing.T) {
	cases := []struct {
		name string
		want binary.ByteOrder
	}{
		{"", binary.BigEndian},
		{"big", binary.BigEndian},
		{"Network", binary.BigEndian},
		{"little", binary.LittleEndian},
		{" le ", binary.LittleEndian},
		{"native", Native()},
	}
	for _, c := range cases {
		got, err := Lookup(c.name)
		if err != nil {
			t.Fatalf("Lookup(%q): %v", c.name, err)
		}
		if got != c.want {
			t.Fatalf("Lookup(%q)=%v want %v", c.name, got, c.want)
		}
	}
	if _, err := Lookup("middle"); err == nil {
		t.Fatalf("Lookup(middle): want error")
	}
}

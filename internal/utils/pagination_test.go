package utils

import (
	"testing"
	"time"
)

func TestAtoiDefault(t *testing.T) {
	cases := []struct {
		s    string
		def  int
		want int
	}{
		// empty -> default
		{"", 10, 10},
		// valid ints
		{"42", 0, 42},
		{"-13", 1, -13},
		{"0012", 99, 12},
		// invalid -> default (no trim)
		{"x", 5, 5},
		{" 42", 7, 7},
		// overflow -> default
		{"999999999999999999999999", -1, -1},
	}

	for _, tc := range cases {
		if got := AtoiDefault(tc.s, tc.def); got != tc.want {
			t.Fatalf("AtoiDefault(%q, %d) = %d; want %d", tc.s, tc.def, got, tc.want)
		}
	}
}

func TestClampPage(t *testing.T) {
	cases := []struct {
		page, size         string
		wantPage, wantSize int
	}{
		{"", "", DefaultPage, DefaultPageSize},
		{"3", "10", 3, 10},
		{"0", "0", 1, 1},
		{"-4", "-1", 1, 1},
		{"x", "y", DefaultPage, DefaultPageSize},
		{"2", "1000", 2, MaxPageSize},
	}
	for _, tc := range cases {
		p, s := ClampPage(tc.page, tc.size)
		if p != tc.wantPage || s != tc.wantSize {
			t.Fatalf("ClampPage(%q, %q) = %d, %d; want %d, %d", tc.page, tc.size, p, s, tc.wantPage, tc.wantSize)
		}
	}
}

func TestWeakETag(t *testing.T) {
	if got := WeakETag("chats", "u1", 0, nil); got != `W/"chats:u1:0:0"` {
		t.Fatalf("nil timestamp etag = %s", got)
	}
	at := time.Unix(10, 5)
	a := WeakETag("msgs", "r1", 2, &at)
	later := at.Add(time.Nanosecond)
	if b := WeakETag("msgs", "r1", 2, &later); a == b {
		t.Fatalf("etag should change with the newest timestamp: %s", a)
	}
}

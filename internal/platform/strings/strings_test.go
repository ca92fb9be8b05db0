package strings_test

import (
	"reflect"
	"testing"

	pstrings "birdspot/internal/platform/strings"
)

func TestIfEmpty(t *testing.T) {
	def := []string{"a"}
	if got := pstrings.IfEmpty(nil, def); !reflect.DeepEqual(got, def) {
		t.Fatalf("nil input = %v", got)
	}
	in := []string{"b"}
	if got := pstrings.IfEmpty(in, def); !reflect.DeepEqual(got, in) {
		t.Fatalf("non-empty input = %v", got)
	}
}

func TestOrDefault(t *testing.T) {
	if pstrings.OrDefault(" ", "unknown") != "unknown" {
		t.Fatal("blank should fall back")
	}
	if pstrings.OrDefault("spring", "unknown") != "spring" {
		t.Fatal("value should pass through")
	}
}

func TestSplitList(t *testing.T) {
	cases := []struct {
		in   []string
		want []string
	}{
		{nil, []string{}},
		{[]string{"3, 1,2"}, []string{"3", "1", "2"}},
		{[]string{"7", " 9 ", ""}, []string{"7", "9"}},
		{[]string{"a,,b", "c"}, []string{"a", "b", "c"}},
	}
	for _, tc := range cases {
		if got := pstrings.SplitList(tc.in...); !reflect.DeepEqual(got, tc.want) {
			t.Fatalf("SplitList(%q) = %q want %q", tc.in, got, tc.want)
		}
	}
}

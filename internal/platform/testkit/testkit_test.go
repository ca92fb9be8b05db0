package testkit

import "testing"

func TestMustPanic(t *testing.T) {
	MustPanic(t, func() { panic("boom") })
}

func TestMustContain(t *testing.T) {
	MustContain(t, "alpha beta gamma", "beta")
}

func TestMustEqualJSONIgnoresKeyOrder(t *testing.T) {
	MustEqualJSON(t, []byte(`{"b":1,"a":[1,2]}`), []byte(`{ "a": [1, 2], "b": 1 }`))
}

func TestSwapRestores(t *testing.T) {
	trim := func(n int) int { return n }
	t.Run("swapped", func(t *testing.T) {
		Swap(t, &trim, func(int) int { return 6 })
		if trim(30) != 6 {
			t.Fatal("swap not applied")
		}
	})
	if trim(30) != 30 {
		t.Fatal("swap not restored")
	}
}

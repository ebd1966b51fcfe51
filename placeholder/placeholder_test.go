package placeholder

import (
	"reflect"
	"testing"
)

func TestToService(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Hello", "Hello"},
		{"Hello $1", "Hello __1__"},
		{"$1 rolled $2 on $10", "__1__ rolled __2__ on __10__"},
		{"Costs $ 5", "Costs $ 5"},
		{"$$1", "$__1__"},
		{"", ""},
	}
	for _, tc := range tests {
		if got := ToService(tc.in); got != tc.want {
			t.Errorf("ToService(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestFromService(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Bonjour", "Bonjour"},
		{"Bonjour __1__", "Bonjour $1"},
		{"__2__ a obtenu __1__ sur __10__", "$2 a obtenu $1 sur $10"},
		{"__x__ and _1_", "__x__ and _1_"},
	}
	for _, tc := range tests {
		if got := FromService(tc.in); got != tc.want {
			t.Errorf("FromService(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestRoundTripIsLossless(t *testing.T) {
	msgs := []string{
		"No arguments at all",
		"Hello $1",
		"$3 gave $1 to $2",
		"$1$2$3",
		"Roll $12 dice",
	}
	for _, m := range msgs {
		back := FromService(ToService(m))
		if back != m {
			t.Errorf("round trip of %q = %q", m, back)
		}
		if !Same(m, back) {
			t.Errorf("Same(%q, %q) = false", m, back)
		}
	}
}

func TestIndices(t *testing.T) {
	if got := Indices("plain"); got != nil {
		t.Fatalf("Indices(plain) = %v, want nil", got)
	}
	got := Indices("$2 then $1 then $2")
	want := []int{2, 1, 2}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Indices() = %v, want %v", got, want)
	}
}

func TestSame(t *testing.T) {
	tests := []struct {
		a, b string
		want bool
	}{
		{"Hello", "Bonjour", true},
		{"$1 and $2", "$2 et $1", true},
		{"$1 and $2", "$1 et $1", false},
		{"$1", "", false},
		{"Hello", "Bonjour $1", false},
	}
	for _, tc := range tests {
		if got := Same(tc.a, tc.b); got != tc.want {
			t.Errorf("Same(%q, %q) = %v, want %v", tc.a, tc.b, got, tc.want)
		}
	}
}

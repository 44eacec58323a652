package classify

import "testing"

func TestCategorize(t *testing.T) {
	cases := []struct {
		name string
		want Category
	}{
		{"Hilt_Base", Hilt},
		{"HILT", Hilt},
		{"saber_handle_v2", Hilt},
		{"Grip", Hilt},
		{"crossguard", Hilt},
		{"Pommel01", Hilt},
		{"EmitterRing", Hilt},
		{"Blade_Glow", Blade},
		{"beam", Blade},
		{"LaserCore", Blade},
		{"glow_mask", Blade},
		// Hilt keywords win when both kinds match.
		{"blade_guard", Hilt},
		// Unknown and empty names default to hilt.
		{"mysterious_part", Hilt},
		{"", Hilt},
	}

	for _, tc := range cases {
		if got := Categorize(tc.name); got != tc.want {
			t.Errorf("Categorize(%q) = %q, want %q", tc.name, got, tc.want)
		}
	}
}

package core

import "testing"

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want RGB
		ok   bool
	}{
		{"#4A90D9", RGB{0x4a, 0x90, 0xd9}, true},
		{"#fff", RGB{255, 255, 255}, true},
		{" rgb( 10, 20 ,30 ) ", RGB{10, 20, 30}, true},
		{"rgb(10,20)", RGB{}, false},
		{"rgb(10,20,300)", RGB{}, false},
		{"#12345", RGB{}, false},
		{"blue", RGB{}, false},
		{"", RGB{}, false},
	}

	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got, ok := ParseColor(tc.in)
			if ok != tc.ok || got != tc.want {
				t.Errorf("ParseColor(%q) = %v, %v; expected %v, %v", tc.in, got, ok, tc.want, tc.ok)
			}
		})
	}
}

func TestColorKey(t *testing.T) {
	if got := ColorKey(" #E74C3C\t"); got != "#e74c3c" {
		t.Errorf("ColorKey = %q", got)
	}
	if ColorKey("RGB(1, 2, 3)") != ColorKey("rgb(1,2,3)") {
		t.Error("ColorKey should ignore case and whitespace")
	}
}

func TestLerpColor(t *testing.T) {
	if got := LerpColor("#000000", "#ffffff", 0); got != "#000000" {
		t.Errorf("LerpColor at 0 = %q", got)
	}
	if got := LerpColor("#000000", "#ffffff", 1); got != "#ffffff" {
		t.Errorf("LerpColor at 1 = %q", got)
	}
	if got := LerpColor("#000000", "#ffffff", 0.5); got != "#808080" {
		t.Errorf("LerpColor at .5 = %q", got)
	}
	if got := LerpColor("#000000", "#ffffff", 2); got != "#ffffff" {
		t.Errorf("LerpColor past 1 = %q, want clamped", got)
	}
	if got := LerpColor("nope", "#ffffff", 0.5); got != "nope" {
		t.Errorf("unparseable from should be returned, got %q", got)
	}
}

func TestRGBHex(t *testing.T) {
	c := RGB{R: 200, G: 100, B: 50}
	if c.Hex() != "#c86432" {
		t.Errorf("Hex() = %q", c.Hex())
	}
}

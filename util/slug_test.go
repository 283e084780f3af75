package util

import "testing"

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Élite: Temporada 1":  "elite-temporada-1",
		"  Pose  ":            "pose",
		"Heartstopper":        "heartstopper",
		"It's a Sin!!":        "it-s-a-sin",
		"Años   Luz -- Serie": "anos-luz-serie",
		"":                    "",
		"¿?":                  "",
	}
	for in, want := range cases {
		if got := Slugify(in); got != want {
			t.Errorf("Slugify(%q) = %q, want %q", in, got, want)
		}
	}
}

package skyraster

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestLoadOptions(t *testing.T) {
	testCases := []struct {
		name   string
		json   string
		expect RasterizerOptions
	}{
		{
			"full",
			`{"projection": "mollweide", "width": 2000, "height": 1000, "center": {"l": 90, "b": 10}}`,
			RasterizerOptions{Projection: ProjectionMollweide, Width: 2000, Height: 1000, Center: SkyPosition{L: 90, B: 10}},
		},
		{
			"defaults",
			`{"projection": "hammer"}`,
			RasterizerOptions{Projection: ProjectionHammer, Width: 800, Height: 400},
		},
		{
			"empty",
			`{}`,
			DefaultRasterizerOptions(),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			opts, err := LoadOptions(strings.NewReader(tc.json))
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(tc.expect, opts); diff != "" {
				t.Errorf("unexpected options (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLoadOptionsInvalid(t *testing.T) {
	testCases := []struct {
		name string
		json string
	}{
		{"unknown projection", `{"projection": "mercator"}`},
		{"zero width", `{"width": 0}`},
		{"negative height", `{"height": -5}`},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := LoadOptions(strings.NewReader(tc.json))
			if !errors.Is(err, ErrInvalidInput) {
				t.Errorf("expected invalid input, got %v", err)
			}
		})
	}

	if _, err := LoadOptions(strings.NewReader(`{"width": `)); err == nil {
		t.Errorf("expected malformed JSON to fail")
	}
}

package skyraster

import "testing"

func TestRasterizerCache(t *testing.T) {
	cache := NewRasterizerCache(2)
	addrs := allSky(1)
	opts := RasterizerOptions{Projection: ProjectionMollweide, Width: 20, Height: 10}

	first, err := cache.Get(addrs, opts)
	if err != nil {
		t.Fatal(err)
	}
	again, err := cache.Get(allSky(1), opts)
	if err != nil {
		t.Fatal(err)
	}
	if first != again {
		t.Errorf("expected the cached rasterizer to be reused")
	}
	if cache.Len() != 1 {
		t.Errorf("expected 1 cached rasterizer, got %d", cache.Len())
	}

	// the caller's slice is not retained
	addrs[0].Index = 11
	if r, _ := cache.Get(allSky(1), opts); r != first {
		t.Errorf("expected mutation of the original slice not to affect the cache")
	}

	other := opts
	other.Center = SkyPosition{L: 90, B: 0}
	if r, _ := cache.Get(allSky(1), other); r == first {
		t.Errorf("expected a different rasterizer for a different center")
	}
	if _, err := cache.Get(allSky(2), opts); err != nil {
		t.Fatal(err)
	}
	if cache.Len() != 2 {
		t.Errorf("expected the cache to stay at 2 entries, got %d", cache.Len())
	}

	if _, err := cache.Get(nil, opts); err == nil {
		t.Errorf("expected construction errors to pass through the cache")
	}

	cache.Clear()
	if cache.Len() != 0 {
		t.Errorf("expected an empty cache after clearing, got %d", cache.Len())
	}
}

func TestDigestAddresses(t *testing.T) {
	a := digestAddresses(allSky(1))
	b := digestAddresses(allSky(1))
	if a != b {
		t.Errorf("expected equal digests for equal addresses")
	}
	if c := digestAddresses(allSky(2)); c == a {
		t.Errorf("expected different digests for different addresses")
	}
}

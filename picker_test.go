package skyraster

import "testing"

func TestPickerDispatch(t *testing.T) {
	r := newTestRasterizer(t, allSky(2), ProjectionMollweide, 40, 20, SkyPosition{})
	picker := NewPicker(r, PlaneSpace)

	var seen []PickEvent
	picker.Attach(PickHandlerFunc(func(e PickEvent) {
		seen = append(seen, e)
	}))
	queue := NewPickQueue(1)
	picker.Attach(queue)

	centre := r.cellCentre(20, 10)
	index := picker.Pick(centre.X, centre.Y)
	if index != r.AddressIndex(20, 10) || index == Unmapped {
		t.Errorf("expected pick to resolve to %d, got %d", r.AddressIndex(20, 10), index)
	}
	if len(seen) != 1 || seen[0].Index != index {
		t.Fatalf("expected one dispatched pick with index %d, got %v", index, seen)
	}

	// off the image; the full queue drops this one
	if got := picker.Pick(1e6, 1e6); got != Unmapped {
		t.Errorf("expected a pick off the image to be unmapped, got %d", got)
	}
	if len(seen) != 2 || seen[1].Index != Unmapped {
		t.Errorf("expected the unmapped pick to be dispatched too, got %v", seen)
	}

	select {
	case e := <-queue.Events():
		if e.Index != index || e.X != centre.X || e.Y != centre.Y {
			t.Errorf("expected queued pick %v, got %v", PickEvent{centre.X, centre.Y, index}, e)
		}
	default:
		t.Fatal("expected a queued pick")
	}
	select {
	case e := <-queue.Events():
		t.Errorf("expected the second pick to be dropped, got %v", e)
	default:
	}
}

func TestPickerSkySpace(t *testing.T) {
	r := newTestRasterizer(t, allSky(4), ProjectionCartesian, 100, 50, SkyPosition{})
	picker := NewPicker(r, SkySpace)
	indexer, _ := NewHealpixIndexer(4)

	// with no recentering, a Cartesian map's sky extent is close to (l, b)
	got := picker.Pick(45, 20)
	if got == Unmapped {
		t.Fatal("expected the pick to resolve")
	}
	centre := indexer.PixelToAngle(got)
	if diff := WrapLongitude(centre.L - 45); diff > 15 || diff < -15 || centre.B < 5 || centre.B > 35 {
		t.Errorf("expected a pixel near (45, 20), got centre %v", centre)
	}
}

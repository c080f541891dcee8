package protocol

import (
	"testing"

	"github.com/bryanchriswhite/snaploupe/internal/geometry"
)

func TestEncodeIsTagged(t *testing.T) {
	cases := []struct {
		name    string
		outcome Outcome
		want    string
	}{
		{"cancel", Cancel(), `{"type":"cancel"}`},
		{
			"region",
			RegionRect(geometry.Rect{X: 1, Y: 2, Width: 3, Height: 4}),
			`{"type":"region","rect":{"x":1,"y":2,"width":3,"height":4}}`,
		},
		{"window", Window(12), `{"type":"window","window_id":12}`},
		{"error", Errorf("boom"), `{"type":"error","message":"boom"}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := tc.outcome.Encode()
			if err != nil {
				t.Fatalf("Encode: %v", err)
			}
			if got != tc.want {
				t.Errorf("Encode = %s, want %s", got, tc.want)
			}
		})
	}
}

func TestRegionRoundTrip(t *testing.T) {
	in := RegionRect(geometry.Rect{X: 1, Y: 2, Width: 3, Height: 4})
	line, err := in.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	out, err := Decode(line)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if out.Type != TypeRegion || out.Rect == nil || *out.Rect != *in.Rect {
		t.Errorf("round trip mismatch: %+v vs %+v", out, in)
	}
}

func TestRegionIsNormalizedRegardlessOfDragDirection(t *testing.T) {
	forward := Region(geometry.Pt(1, 2), geometry.Pt(4, 6))
	backward := Region(geometry.Pt(4, 6), geometry.Pt(1, 2))
	if *forward.Rect != *backward.Rect {
		t.Errorf("drag direction leaked into rect: %+v vs %+v", *forward.Rect, *backward.Rect)
	}
	if forward.Rect.Width < 0 || forward.Rect.Height < 0 {
		t.Errorf("negative dimensions: %+v", *forward.Rect)
	}
}

func TestDecodeRejectsUnknownType(t *testing.T) {
	if _, err := Decode(`{"type":"resize"}`); err == nil {
		t.Error("expected error for unknown type tag")
	}
	if _, err := Decode(`{"type":"region"}`); err == nil {
		t.Error("expected error for region without rect")
	}
	if _, err := Decode(`{"type":"window"}`); err == nil {
		t.Error("expected error for window without window_id")
	}
}

func TestExitCodes(t *testing.T) {
	if Cancel().ExitCode() != 0 {
		t.Error("cancel should exit 0")
	}
	if Window(1).ExitCode() != 0 {
		t.Error("window should exit 0")
	}
	if Errorf("x").ExitCode() != 1 {
		t.Error("error should exit 1")
	}
}

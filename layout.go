package main

import "math"

// Structure is a building whose walls are generated once from its outline
type Structure struct {
	X             float64 `json:"x"`
	Y             float64 `json:"y"`
	Width         float64 `json:"width"`
	Height        float64 `json:"height"`
	WallThickness float64 `json:"wallThickness"`
	Walls         []Zone  `json:"walls"`
}

func deg(d float64) float64 { return d * math.Pi / 180 }

// streetArea is where the skateboard respawns
var streetArea = Zone{X: 3090, Y: 0, Width: 1000, Height: 2000}

var (
	chestLayout = Zone{X: 2890, Y: 825, Width: 200, Height: 240}

	ductLayout = []Zone{
		{X: 3150, Y: 480, Width: 80, Height: 80},
		{X: 270, Y: 1670, Width: 80, Height: 80},
		{X: 2450, Y: 300, Width: 80, Height: 80},
		{X: 3940, Y: 1440, Width: 80, Height: 80},
		{X: 2070, Y: 1650, Width: 80, Height: 80},
	}

	sunshadeLayout = []Zone{
		{X: 4200, Y: 1000, Width: 320, Height: 340},
		{X: 4350, Y: 600, Width: 320, Height: 340},
		{X: 4440, Y: 1400, Width: 320, Height: 340},
	}
)

// buildHouse lays out the main house: outer shell with door gaps plus
// interior room dividers.
func buildHouse() Structure {
	s := Structure{X: 200, Y: 200, Width: 2690, Height: 900, WallThickness: 70}
	wt := s.WallThickness
	s.Walls = []Zone{
		{X: s.X, Y: s.Y, Width: s.Width, Height: wt},
		{X: s.X, Y: s.Y + s.Height - wt, Width: 750, Height: wt},
		{X: s.X + 1000, Y: s.Y + s.Height - wt, Width: s.Width - 1820, Height: wt},
		{X: s.X + 2000, Y: s.Y + s.Height - wt, Width: s.Width - 2000, Height: wt},
		{X: s.X, Y: s.Y, Width: wt, Height: 600},
		{X: s.X + s.Width - wt, Y: s.Y, Width: wt, Height: s.Height - 600},
		{X: s.X + s.Width - wt, Y: 800, Width: wt, Height: s.Height - 600},
		{X: s.X, Y: s.Y + 830, Width: wt, Height: 790},
		{X: 1240, Y: s.Y + 830, Width: wt, Height: s.Height - 110},
		{X: s.X, Y: s.Y + 1550, Width: 1110, Height: wt},
		{X: s.X + 700, Y: s.Y, Width: wt, Height: 600},
		{X: s.X, Y: s.Y + 600 - wt, Width: 500 + wt, Height: wt},
		{X: s.X + 900, Y: s.Y + 600 - wt, Width: 600, Height: wt},
		{X: s.X + 1500, Y: s.Y + 530, Width: 500, Height: wt},
		{X: s.X + 1500, Y: s.Y, Width: wt, Height: 600},
		{X: s.X + 2150, Y: s.Y, Width: wt, Height: s.Height - 300},
	}
	return s
}

// buildGarage lays out the garage annex east of the house.
func buildGarage() Structure {
	s := Structure{X: 800, Y: 1200, Width: 700, Height: 600, WallThickness: 70}
	wt := s.WallThickness
	s.Walls = []Zone{
		{X: s.X + 1400, Y: s.Y, Width: s.Width - 200, Height: wt},
		{X: s.X + 1200, Y: s.Y + s.Height - wt, Width: s.Width, Height: wt},
		{X: s.X + 1200, Y: s.Y, Width: wt, Height: s.Height},
		{X: s.X + s.Width - wt + 1200, Y: s.Y, Width: wt, Height: s.Height - 460},
		{X: s.X + s.Width - wt + 1200, Y: s.Y + 460, Width: wt, Height: 140},
	}
	return s
}

func seedBoxes() []*Body {
	specs := []struct{ x, y, size, rot float64 }{
		{1000, 1500, 128, 100},
		{2720, 1670, 128, 200},
		{1050, 600, 128, 120},
		{2850, 1150, 192, 300},
		{1600, 1350, 192, 170},
		{2450, 300, 90, 150},
		{2560, 320, 120, 300},
		{2680, 290, 90, 0},
		{1400, 800, 56, 0},
		{1456, 800, 100, 0},
		{1556, 800, 80, 0},
		{800, 300, 90, 0},
		{1700, 700, 128, 45},
		{2300, 900, 80, 0},
		{450, 950, 100, 15},
	}
	out := make([]*Body, 0, len(specs))
	for _, s := range specs {
		out = append(out, &Body{Kind: "box", X: s.x, Y: s.y, W: s.size, H: s.size, Rotation: deg(s.rot)})
	}
	return out
}

func seedFurniture() []*Body {
	specs := []struct {
		kind          string
		x, y, w, h, r float64
	}{
		{"small_bed", 300, 400, 108, 200, 0},
		{"small_bed", 1850, 400, 108, 200, 0},
		{"small_table", 2500, 600, 288, 132, 0},
		{"big_table", 500, 1400, 480, 240, 0},
		{"car", 3150, 150, 502, 302, 180},
		{"small_bed", 1000, 400, 108, 200, 0},
		{"small_table", 2100, 1400, 288, 132, 90},
		{"small_table", 850, 900, 288, 132, 0},
	}
	out := make([]*Body, 0, len(specs))
	for _, s := range specs {
		out = append(out, &Body{Kind: s.kind, X: s.x, Y: s.y, W: s.w, H: s.h, Rotation: deg(s.r)})
	}
	return out
}

package dynamo

import "math"

type Vec3 struct {
	X, Y, Z float64
}

func (v Vec3) Add(o Vec3) Vec3      { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }
func (v Vec3) Scale(s float64) Vec3 { return Vec3{v.X * s, v.Y * s, v.Z * s} }

// Norm2 is the squared distance from the origin.
func (v Vec3) Norm2() float64 { return v.X*v.X + v.Y*v.Y + v.Z*v.Z }

func (v Vec3) IsValid() bool {
	for _, c := range [3]float64{v.X, v.Y, v.Z} {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

type ChartID int

const (
	ChartMSD ChartID = iota
	ChartDiffusionTime
	ChartComparison
)

func (c ChartID) String() string {
	switch c {
	case ChartMSD:
		return "msd"
	case ChartDiffusionTime:
		return "diffusion"
	case ChartComparison:
		return "comparison"
	default:
		return "unknown"
	}
}

// Title is the display title of the chart.
func (c ChartID) Title() string {
	switch c {
	case ChartMSD:
		return "Mean Squared Displacement vs Time"
	case ChartDiffusionTime:
		return "Diffusion Time vs Distance"
	case ChartComparison:
		return "Diffusion vs Action Potential Time"
	default:
		return ""
	}
}

// Axes returns the x and y axis labels of the chart.
func (c ChartID) Axes() (string, string) {
	switch c {
	case ChartMSD:
		return "Time (s)", "MSD (m²)"
	case ChartDiffusionTime:
		return "Distance (µm)", "Time (seconds)"
	case ChartComparison:
		return "Distance (mm)", "Time (seconds)"
	default:
		return "", ""
	}
}

var Charts = []ChartID{ChartMSD, ChartDiffusionTime, ChartComparison}

type SeriesMode string

const (
	ModeLines   SeriesMode = "lines"
	ModeMarkers SeriesMode = "markers"
)

// Series is one trace of a chart. X and Y are index-aligned.
type Series struct {
	Name string     `json:"name"`
	Mode SeriesMode `json:"mode"`
	X    []float64  `json:"x"`
	Y    []float64  `json:"y"`
}

func (s Series) Len() int {
	if len(s.X) < len(s.Y) {
		return len(s.X)
	}
	return len(s.Y)
}

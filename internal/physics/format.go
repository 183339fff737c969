package physics

import "fmt"

func FormatD(d float64) string             { return fmt.Sprintf("%.2e", d) }
func FormatDt(dt float64) string           { return fmt.Sprintf("%.3f", dt) }
func FormatTemperature(t float64) string   { return fmt.Sprintf("%.0f", t) }
func FormatViscosity(eta float64) string   { return fmt.Sprintf("%.4f", eta) }
func FormatRadiusNm(radius float64) string { return fmt.Sprintf("%.2f", MetersToNanometers(radius)) }

// FormatDiffusionTime uses 4 decimals; diffusion times are usually large.
func FormatDiffusionTime(t float64) string { return fmt.Sprintf("%.4f s", t) }

// FormatTransportTime uses 6 decimals; conduction times are usually tiny.
func FormatTransportTime(t float64) string { return fmt.Sprintf("%.6f s", t) }

// FormatParam renders a named parameter the way the controls display it.
func FormatParam(name string, value float64) string {
	switch name {
	case "D":
		return FormatD(value)
	case "dt":
		return FormatDt(value)
	case "N":
		return fmt.Sprintf("%.0f", value)
	case "temperature":
		return FormatTemperature(value)
	case "viscosity":
		return FormatViscosity(value)
	case "radius_nm":
		return fmt.Sprintf("%.2f", value)
	default:
		return fmt.Sprintf("%g", value)
	}
}

// Package density provides linear temperature approximations for the density
// of two reference liquids. They are shown next to the inputs for orientation
// and are never used by the solver.
package density

// Water returns the approximate density of pure water in g/mL at tempC,
// linearised around its 4 °C maximum.
func Water(tempC float64) float64 {
	return 1.0 - 0.0003*(tempC-4)
}

// Saline returns the approximate density of physiological saline in g/mL at
// tempC, linearised around 20 °C.
func Saline(tempC float64) float64 {
	return 1.004 - 0.0003*(tempC-20)
}

// Reference is the pair of reference densities at one temperature.
type Reference struct {
	TemperatureC float64 `json:"temperature_c"`
	Water        float64 `json:"water_g_per_ml"`
	Saline       float64 `json:"saline_g_per_ml"`
}

// References evaluates both reference liquids at tempC.
func References(tempC float64) Reference {
	return Reference{
		TemperatureC: tempC,
		Water:        Water(tempC),
		Saline:       Saline(tempC),
	}
}

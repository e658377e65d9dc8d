package retention

import "github.com/chromalab/go-chroma/method"

// Plate height follows a Golay-style van Deemter curve for open tubular
// columns:
//
//	H = B/u + C*u
//	B = 2 * Dm
//	C = f(k) * r^2 / Dm,  f(k) = (1 + 6k + 11k^2) / (96 * (1+k)^2)
//
// with Dm the analyte's gas-phase diffusion coefficient (cm^2/s), r the
// column radius (cm), u the linear velocity (cm/s), and k the reference
// retention factor. There is no packing term for a capillary column.

// PlateHeight returns the theoretical plate height in cm at the given
// linear velocity.
func PlateHeight(col method.Column, a method.Analyte, u float64) float64 {
	if u <= 0 || a.DiffusionCoeff <= 0 {
		return 0
	}

	r := col.InnerDiameter / 2 / 10 // mm -> cm
	k := a.RetentionFactor
	fk := (1 + 6*k + 11*k*k) / (96 * (1 + k) * (1 + k))

	b := 2 * a.DiffusionCoeff
	c := fk * r * r / a.DiffusionCoeff

	return b/u + c*u
}

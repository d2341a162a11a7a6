package geometry

import (
	"fmt"
)

// BuildTranslationTransform creates a 3MF transformation matrix string for a
// plain translation. The matrix format is row-major:
// m11 m12 m13 m21 m22 m23 m31 m32 m33 tx ty tz
func BuildTranslationTransform(tx, ty, tz float64) string {
	return fmt.Sprintf("1 0 0 0 1 0 0 0 1 %.2f %.2f %.2f", tx, ty, tz)
}

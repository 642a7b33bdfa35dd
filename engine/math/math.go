package math

import "github.com/chewxy/math32"

const (
	/** @brief An approximate representation of PI. */
	K_PI float32 = 3.14159265358979323846
	/** @brief An approximate representation of PI divided by 2. */
	K_HALF_PI float32 = 0.5 * K_PI
	/** @brief A multiplier used to convert degrees to radians. */
	K_DEG2RAD_MULTIPLIER float32 = K_PI / 180.0
	/** @brief A multiplier used to convert radians to degrees. */
	K_RAD2DEG_MULTIPLIER float32 = 180.0 / K_PI
	/**
	 * @brief Lower bound for |det(M)| divided by the product of the column
	 * lengths of M. Below it a matrix is treated as singular.
	 */
	K_SINGULAR_EPSILON float64 = 1e-6
)

func ksin(x float32) float32 {
	return math32.Sin(x)
}

func kcos(x float32) float32 {
	return math32.Cos(x)
}

func ksqrt(x float32) float32 {
	return math32.Sqrt(x)
}

func kabs(x float32) float32 {
	return math32.Abs(x)
}

func kfinite(x float32) bool {
	return !math32.IsNaN(x) && !math32.IsInf(x, 0)
}

/**
 * @brief Converts provided degrees to radians.
 *
 * @param degrees The degrees to be converted.
 * @return The amount in radians.
 */
func DegToRad(degrees float32) float32 {
	return degrees * K_DEG2RAD_MULTIPLIER
}

/**
 * @brief Converts provided radians to degrees.
 *
 * @param radians The radians to be converted.
 * @return The amount in degrees.
 */
func RadToDeg(radians float32) float32 {
	return radians * K_RAD2DEG_MULTIPLIER
}

// IsFinite reports whether x is neither NaN nor infinite.
func IsFinite(x float32) bool {
	return kfinite(x)
}

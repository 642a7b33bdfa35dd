package math

import (
	m "math"

	"github.com/spaghettifunk/rtx/engine/core"
)

/**
 * @brief Creates and returns an identity matrix:
 *
 * {
 *   {1, 0, 0, 0},
 *   {0, 1, 0, 0},
 *   {0, 0, 1, 0},
 *   {0, 0, 0, 1}
 * }
 *
 * @return A new identity matrix
 */
func NewMat4Identity() Mat4 {
	out_matrix := Mat4{}
	out_matrix.Data[0] = 1.0
	out_matrix.Data[5] = 1.0
	out_matrix.Data[10] = 1.0
	out_matrix.Data[15] = 1.0
	return out_matrix
}

/**
 * @brief Returns the matrix that applies mt first and other second.
 * In column-vector notation this is other * mt.
 *
 * @param other The matrix applied after mt.
 * @return The result of the matrix multiplication.
 */
func (mt Mat4) Mul(other Mat4) Mat4 {
	out_matrix := Mat4{}

	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			sum := float32(0)
			for i := 0; i < 4; i++ {
				sum += mt.Data[row*4+i] * other.Data[i*4+col]
			}
			out_matrix.Data[row*4+col] = sum
		}
	}

	return out_matrix
}

/**
 * @brief Returns a transposed copy of the provided matrix (rows->colums)
 *
 * @param matrix The matrix to be transposed.
 * @return A transposed copy of of the provided matrix.
 */
func NewMat4Transposed(matrix Mat4) Mat4 {
	out_matrix := Mat4{}
	for col := 0; col < 4; col++ {
		for row := 0; row < 4; row++ {
			out_matrix.Data[row*4+col] = matrix.Data[col*4+row]
		}
	}
	return out_matrix
}

// cofactors computes the adjugate of mt (unscaled) together with the
// determinant.
func (mt Mat4) cofactors() ([16]float32, float32) {
	m := mt.Data

	t0 := m[10] * m[15]
	t1 := m[14] * m[11]
	t2 := m[6] * m[15]
	t3 := m[14] * m[7]
	t4 := m[6] * m[11]
	t5 := m[10] * m[7]
	t6 := m[2] * m[15]
	t7 := m[14] * m[3]
	t8 := m[2] * m[11]
	t9 := m[10] * m[3]
	t10 := m[2] * m[7]
	t11 := m[6] * m[3]
	t12 := m[8] * m[13]
	t13 := m[12] * m[9]
	t14 := m[4] * m[13]
	t15 := m[12] * m[5]
	t16 := m[4] * m[9]
	t17 := m[8] * m[5]
	t18 := m[0] * m[13]
	t19 := m[12] * m[1]
	t20 := m[0] * m[9]
	t21 := m[8] * m[1]
	t22 := m[0] * m[5]
	t23 := m[4] * m[1]

	var o [16]float32

	o[0] = (t0*m[5] + t3*m[9] + t4*m[13]) - (t1*m[5] + t2*m[9] + t5*m[13])
	o[1] = (t1*m[1] + t6*m[9] + t9*m[13]) - (t0*m[1] + t7*m[9] + t8*m[13])
	o[2] = (t2*m[1] + t7*m[5] + t10*m[13]) - (t3*m[1] + t6*m[5] + t11*m[13])
	o[3] = (t5*m[1] + t8*m[5] + t11*m[9]) - (t4*m[1] + t9*m[5] + t10*m[9])

	det := m[0]*o[0] + m[4]*o[1] + m[8]*o[2] + m[12]*o[3]

	o[4] = (t1*m[4] + t2*m[8] + t5*m[12]) - (t0*m[4] + t3*m[8] + t4*m[12])
	o[5] = (t0*m[0] + t7*m[8] + t8*m[12]) - (t1*m[0] + t6*m[8] + t9*m[12])
	o[6] = (t3*m[0] + t6*m[4] + t11*m[12]) - (t2*m[0] + t7*m[4] + t10*m[12])
	o[7] = (t4*m[0] + t9*m[4] + t10*m[8]) - (t5*m[0] + t8*m[4] + t11*m[8])
	o[8] = (t12*m[7] + t15*m[11] + t16*m[15]) - (t13*m[7] + t14*m[11] + t17*m[15])
	o[9] = (t13*m[3] + t18*m[11] + t21*m[15]) - (t12*m[3] + t19*m[11] + t20*m[15])
	o[10] = (t14*m[3] + t19*m[7] + t22*m[15]) - (t15*m[3] + t18*m[7] + t23*m[15])
	o[11] = (t17*m[3] + t20*m[7] + t23*m[11]) - (t16*m[3] + t21*m[7] + t22*m[11])
	o[12] = (t14*m[10] + t17*m[14] + t13*m[6]) - (t16*m[14] + t12*m[6] + t15*m[10])
	o[13] = (t20*m[14] + t12*m[2] + t19*m[10]) - (t18*m[10] + t21*m[14] + t13*m[2])
	o[14] = (t18*m[6] + t23*m[14] + t15*m[2]) - (t22*m[14] + t14*m[2] + t19*m[6])
	o[15] = (t22*m[10] + t16*m[2] + t21*m[6]) - (t20*m[6] + t23*m[10] + t17*m[2])

	return o, det
}

/**
 * @brief Returns the determinant of the matrix.
 */
func (mt Mat4) Determinant() float32 {
	_, det := mt.cofactors()
	return det
}

/**
 * @brief Creates and returns an inverse of the provided matrix.
 * No check is made for singular input; see InverseChecked.
 *
 * @return A inverted copy of the provided matrix.
 */
func (mt Mat4) Inverse() Mat4 {
	o, det := mt.cofactors()
	d := 1.0 / det

	out_matrix := Mat4{}
	for i := range o {
		out_matrix.Data[i] = d * o[i]
	}
	return out_matrix
}

/**
 * @brief Returns the inverse of the matrix, or core.ErrSingularTransform
 * when the matrix holds a non-finite element or is too close to singular.
 * Closeness is measured scale-free: |det| divided by the product of the
 * column lengths, compared to K_SINGULAR_EPSILON. For affine matrices only
 * the upper 3x3 block takes part.
 */
func (mt Mat4) InverseChecked() (Mat4, error) {
	for _, v := range mt.Data {
		if !kfinite(v) {
			return Mat4{}, core.ErrSingularTransform
		}
	}

	o, det := mt.cofactors()

	// Hadamard bound over the linear part only, so that translation does
	// not make far away objects look singular.
	n := 4
	if mt.IsAffine() {
		n = 3
	}
	bound := 1.0
	for col := 0; col < n; col++ {
		sum := 0.0
		for row := 0; row < n; row++ {
			v := float64(mt.Data[col*4+row])
			sum += v * v
		}
		bound *= m.Sqrt(sum)
	}
	if bound == 0 || det == 0 || m.Abs(float64(det))/bound < K_SINGULAR_EPSILON {
		return Mat4{}, core.ErrSingularTransform
	}

	d := 1.0 / det
	out_matrix := Mat4{}
	for i := range o {
		out_matrix.Data[i] = d * o[i]
		if !kfinite(out_matrix.Data[i]) {
			return Mat4{}, core.ErrSingularTransform
		}
	}
	return out_matrix, nil
}

/**
 * @brief Reports whether the last row is exactly [0, 0, 0, 1].
 */
func (mt Mat4) IsAffine() bool {
	return mt.Data[3] == 0 && mt.Data[7] == 0 && mt.Data[11] == 0 && mt.Data[15] == 1
}

/**
 * @brief Returns row i across the four columns:
 * {col0[i], col1[i], col2[i], col3[i]}.
 */
func (mt Mat4) Row(i int) Vec4 {
	return Vec4{mt.Data[0*4+i], mt.Data[1*4+i], mt.Data[2*4+i], mt.Data[3*4+i]}
}

/**
 * @brief Rebuilds an affine matrix from its first three rows. The fourth
 * row is implicitly [0, 0, 0, 1].
 */
func NewMat4FromRows(r0, r1, r2 Vec4) Mat4 {
	out_matrix := Mat4{}
	rows := [3]Vec4{r0, r1, r2}
	for i, r := range rows {
		out_matrix.Data[0*4+i] = r.X
		out_matrix.Data[1*4+i] = r.Y
		out_matrix.Data[2*4+i] = r.Z
		out_matrix.Data[3*4+i] = r.W
	}
	out_matrix.Data[15] = 1.0
	return out_matrix
}

/**
 * @brief Compares every element of the two matrices within tolerance.
 */
func (mt Mat4) Compare(other Mat4, tolerance float32) bool {
	for i := range mt.Data {
		if kabs(mt.Data[i]-other.Data[i]) > tolerance {
			return false
		}
	}
	return true
}

/**
 * @brief Creates and returns a translation matrix from the given position.
 *
 * @param position The position to be used to create the matrix.
 * @return A newly created translation matrix.
 */
func NewMat4Translation(position Vec3) Mat4 {
	out_matrix := NewMat4Identity()
	out_matrix.Data[12] = position.X
	out_matrix.Data[13] = position.Y
	out_matrix.Data[14] = position.Z
	return out_matrix
}

// Translation returns the translation part of an affine matrix.
func (mt Mat4) Translation() Vec3 {
	return Vec3{mt.Data[12], mt.Data[13], mt.Data[14]}
}

/**
 * @brief Returns a scale matrix using the provided scale.
 *
 * @param scale The 3-component scale.
 * @return A scale matrix.
 */
func NewMat4Scale(scale Vec3) Mat4 {
	out_matrix := NewMat4Identity()
	out_matrix.Data[0] = scale.X
	out_matrix.Data[5] = scale.Y
	out_matrix.Data[10] = scale.Z
	return out_matrix
}

/**
 * @brief Creates a rotation matrix from the provided x angle.
 *
 * @param angle_radians The x angle in radians.
 * @return A rotation matrix.
 */
func NewMat4EulerX(angle_radians float32) Mat4 {
	out_matrix := NewMat4Identity()
	c := kcos(angle_radians)
	s := ksin(angle_radians)

	out_matrix.Data[5] = c
	out_matrix.Data[6] = s
	out_matrix.Data[9] = -s
	out_matrix.Data[10] = c
	return out_matrix
}

/**
 * @brief Creates a rotation matrix from the provided y angle.
 *
 * @param angle_radians The y angle in radians.
 * @return A rotation matrix.
 */
func NewMat4EulerY(angle_radians float32) Mat4 {
	out_matrix := NewMat4Identity()
	c := kcos(angle_radians)
	s := ksin(angle_radians)

	out_matrix.Data[0] = c
	out_matrix.Data[2] = -s
	out_matrix.Data[8] = s
	out_matrix.Data[10] = c
	return out_matrix
}

/**
 * @brief Creates a rotation matrix from the provided z angle.
 *
 * @param angle_radians The z angle in radians.
 * @return A rotation matrix.
 */
func NewMat4EulerZ(angle_radians float32) Mat4 {
	out_matrix := NewMat4Identity()

	c := kcos(angle_radians)
	s := ksin(angle_radians)

	out_matrix.Data[0] = c
	out_matrix.Data[1] = s
	out_matrix.Data[4] = -s
	out_matrix.Data[5] = c
	return out_matrix
}

/**
 * @brief Creates a rotation matrix from the provided x, y and z axis rotations.
 * The x rotation is applied first, then y, then z.
 *
 * @param x_radians The x rotation.
 * @param y_radians The y rotation.
 * @param z_radians The z rotation.
 * @return A rotation matrix.
 */
func NewMat4EulerXYZ(x_radians, y_radians, z_radians float32) Mat4 {
	rx := NewMat4EulerX(x_radians)
	ry := NewMat4EulerY(y_radians)
	rz := NewMat4EulerZ(z_radians)
	out_matrix := rx.Mul(ry)
	out_matrix = out_matrix.Mul(rz)
	return out_matrix
}

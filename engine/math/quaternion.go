package math

func NewQuatIdentity() Quaternion {
	return Quaternion{0, 0, 0, 1.0}
}

func (q Quaternion) Normal() float32 {
	return ksqrt(q.X*q.X + q.Y*q.Y + q.Z*q.Z + q.W*q.W)
}

func (q Quaternion) Normalize() Quaternion {
	normal := q.Normal()
	return Quaternion{
		q.X / normal,
		q.Y / normal,
		q.Z / normal,
		q.W / normal,
	}
}

/**
 * @brief Multiplies the provided quaternions: q * other.
 */
func (q Quaternion) Mul(other Quaternion) Quaternion {
	out := Quaternion{}

	out.X = q.X*other.W + q.Y*other.Z - q.Z*other.Y + q.W*other.X
	out.Y = -q.X*other.Z + q.Y*other.W + q.Z*other.X + q.W*other.Y
	out.Z = q.X*other.Y - q.Y*other.X + q.Z*other.W + q.W*other.Z
	out.W = -q.X*other.X - q.Y*other.Y - q.Z*other.Z + q.W*other.W

	return out
}

/**
 * @brief Creates a rotation matrix from the given quaternion.
 *
 * @param q The quaternion to be used.
 * @return A rotation matrix.
 */
func (q Quaternion) ToMat4() Mat4 {
	out_matrix := NewMat4Identity()

	// https://stackoverflow.com/questions/1556260/convert-quaternion-rotation-to-rotation-matrix
	n := q.Normalize()

	// column 0
	out_matrix.Data[0] = 1.0 - 2.0*n.Y*n.Y - 2.0*n.Z*n.Z
	out_matrix.Data[1] = 2.0*n.X*n.Y + 2.0*n.Z*n.W
	out_matrix.Data[2] = 2.0*n.X*n.Z - 2.0*n.Y*n.W

	// column 1
	out_matrix.Data[4] = 2.0*n.X*n.Y - 2.0*n.Z*n.W
	out_matrix.Data[5] = 1.0 - 2.0*n.X*n.X - 2.0*n.Z*n.Z
	out_matrix.Data[6] = 2.0*n.Y*n.Z + 2.0*n.X*n.W

	// column 2
	out_matrix.Data[8] = 2.0*n.X*n.Z + 2.0*n.Y*n.W
	out_matrix.Data[9] = 2.0*n.Y*n.Z - 2.0*n.X*n.W
	out_matrix.Data[10] = 1.0 - 2.0*n.X*n.X - 2.0*n.Y*n.Y

	return out_matrix
}

/**
 * @brief Creates a quaternion from the given axis and angle.
 *
 * @param axis The axis of rotation.
 * @param angle The angle of rotation.
 * @param normalize Indicates if the quaternion should be normalized.
 * @return A new quaternion.
 */
func NewQuatFromAxisAngle(axis Vec3, angle float32, normalize bool) Quaternion {
	half_angle := 0.5 * angle
	s := ksin(half_angle)
	c := kcos(half_angle)

	q := Quaternion{s * axis.X, s * axis.Y, s * axis.Z, c}
	if normalize {
		return q.Normalize()
	}
	return q
}

/**
 * @brief Creates a quaternion from euler angles in radians. The x rotation
 * is applied first, then y, then z, matching NewMat4EulerXYZ.
 */
func NewQuatFromEuler(x_radians, y_radians, z_radians float32) Quaternion {
	qx := NewQuatFromAxisAngle(Vec3{1, 0, 0}, x_radians, false)
	qy := NewQuatFromAxisAngle(Vec3{0, 1, 0}, y_radians, false)
	qz := NewQuatFromAxisAngle(Vec3{0, 0, 1}, z_radians, false)
	return qz.Mul(qy).Mul(qx)
}

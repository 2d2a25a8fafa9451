package composer

import "cilastudio/internal/app/model"

var angleRotation = []model.CameraAngle{
	model.AngleEyeLevel,
	model.AngleLow,
	model.AngleHigh,
	model.AngleDutch,
}

// AngleRotation is the ordered set cycled through when a batch leaves the angle at its default.
func AngleRotation() []model.CameraAngle {
	return append([]model.CameraAngle(nil), angleRotation...)
}

// ResolveAngle returns the concrete angle for request index i of a batch.
func ResolveAngle(angle model.CameraAngle, i int) model.CameraAngle {
	if angle != model.AngleDefault {
		return angle
	}
	if i < 0 {
		i = -i
	}
	return angleRotation[i%len(angleRotation)]
}

func ResolveAngles(angle model.CameraAngle, count int) []model.CameraAngle {
	if count <= 0 {
		return nil
	}
	out := make([]model.CameraAngle, count)
	for i := range out {
		out[i] = ResolveAngle(angle, i)
	}
	return out
}

package model

// Landmark names the gaze signal requires at minimum.
const (
	LandmarkNoseTip  = "nose_tip"
	LandmarkLeftEye  = "left_eye"
	LandmarkRightEye = "right_eye"
)

// Landmark is one normalized 2-D point on a detected face.
type Landmark struct {
	X float64
	Y float64
}

// Face is one detected face as a set of named landmarks.
type Face struct {
	Landmarks map[string]Landmark
}

// Box is a detection bounding box in normalized coordinates.
type Box struct {
	X float64
	Y float64
	W float64
	H float64
}

// Detection is one object-provider result for a frame.
type Detection struct {
	Label      string
	Confidence float64
	Box        Box
}

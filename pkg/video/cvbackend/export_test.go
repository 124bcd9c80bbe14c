package cvbackend

import "gocv.io/x/gocv"

type Capture interface {
	Read(*gocv.Mat) bool
	IsOpened() bool
	Set(gocv.VideoCaptureProperties, float64)
	Close() error
}

func OverloadOpenVideoCapture(overload func(interface{}) (Capture, error)) func() {
	openVideoCaptureRef := openVideoCapture
	openVideoCapture = func(device interface{}) (capture, error) {
		return overload(device)
	}
	return func() { openVideoCapture = openVideoCaptureRef }
}

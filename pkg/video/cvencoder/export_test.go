package cvencoder

import "gocv.io/x/gocv"

func OverloadIMEncode(overload func(gocv.FileExt, gocv.Mat, []int) (*gocv.NativeByteBuffer, error)) func() {
	imEncodeRef := imEncode
	imEncode = overload
	return func() { imEncode = imEncodeRef }
}

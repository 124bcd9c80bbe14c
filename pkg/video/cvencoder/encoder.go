// Package cvencoder compresses captured frames to JPEG with OpenCV.
package cvencoder

import (
	"image"

	"github.com/tauraamui/dragoncast/pkg/video/videoencoder"
	"github.com/tauraamui/dragoncast/pkg/video/videoframe"
	"github.com/tauraamui/xerror"
	"gocv.io/x/gocv"
)

// cv::IMWRITE_JPEG_SAMPLING_FACTOR, not exported by gocv
const imWriteJpegSamplingFactor = 7

var samplingFactors = map[videoencoder.Subsampling]int{
	videoencoder.Subsampling444: 0x111111,
	videoencoder.Subsampling422: 0x211111,
	videoencoder.Subsampling420: 0x221111,
	videoencoder.Subsampling440: 0x121111,
	videoencoder.Subsampling411: 0x411111,
}

type backend struct{}

func Backend() videoencoder.Backend {
	return &backend{}
}

func (b *backend) Name() string { return "opencv" }

// Open prepares the encoder's scratch matrices and proves the codec
// works by encoding a single black pixel.
func (b *backend) Open() (videoencoder.Encoder, error) {
	enc := &encoder{bgr: gocv.NewMat()}

	probe, err := videoframe.New(make([]byte, videoframe.BytesPerPixel), 1, 1, videoframe.BytesPerPixel, videoframe.PixelFormatB8G8R8X8UNorm, nil)
	if err != nil {
		enc.Close()
		return nil, err
	}

	buf, err := enc.Encode(probe, videoencoder.DefaultOptions())
	if err != nil {
		enc.Close()
		return nil, xerror.Errorf("JPEG encoder unavailable: %w", err)
	}
	buf.Close()

	return enc, nil
}

type encoder struct {
	bgr    gocv.Mat
	closed bool
}

func (e *encoder) Encode(frame *videoframe.Frame, opts videoencoder.Options) (videoencoder.Buffer, error) {
	if e.closed {
		return nil, xerror.New("encoder is closed")
	}
	if err := videoencoder.CheckOptions(opts); err != nil {
		return nil, err
	}

	src, err := frameToMat(frame)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	region := src.Region(image.Rect(0, 0, frame.Width, frame.Height))
	defer region.Close()

	gocv.CvtColor(region, &e.bgr, gocv.ColorBGRAToBGR)

	params := []int{
		gocv.IMWriteJpegQuality, opts.Quality,
		imWriteJpegSamplingFactor, samplingFactors[opts.Subsampling],
	}
	nb, err := imEncode(gocv.JPEGFileExt, e.bgr, params)
	if err != nil {
		return nil, xerror.Errorf("unable to encode frame as JPEG: %w", err)
	}

	return videoencoder.NewBuffer(nb.GetBytes(), nb.Close), nil
}

var imEncode = func(ext gocv.FileExt, img gocv.Mat, params []int) (*gocv.NativeByteBuffer, error) {
	return gocv.IMEncodeWithParams(ext, img, params)
}

// frameToMat views the frame's pixels as a 4 channel matrix, one
// column per 4 bytes of stride, so padding is cut off by a region.
// Strides that are not a whole number of pixels get compacted first.
func frameToMat(frame *videoframe.Frame) (gocv.Mat, error) {
	if frame.Stride%videoframe.BytesPerPixel == 0 {
		return gocv.NewMatFromBytes(frame.Height, frame.Stride/videoframe.BytesPerPixel, gocv.MatTypeCV8UC4, frame.Data)
	}

	compact := make([]byte, 0, frame.Width*frame.Height*videoframe.BytesPerPixel)
	for y := 0; y < frame.Height; y++ {
		compact = append(compact, frame.Row(y)...)
	}
	return gocv.NewMatFromBytes(frame.Height, frame.Width, gocv.MatTypeCV8UC4, compact)
}

func (e *encoder) Close() error {
	if e.closed {
		return nil
	}
	e.closed = true
	return e.bgr.Close()
}

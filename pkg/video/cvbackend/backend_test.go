package cvbackend_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/tauraamui/dragoncast/pkg/video/cvbackend"
	"github.com/tauraamui/dragoncast/pkg/video/videobackend"
	"github.com/tauraamui/dragoncast/pkg/video/videoframe"
	"gocv.io/x/gocv"
)

type fakeCapture struct {
	channels int
	gate     chan struct{}
	fail     bool
	props    map[gocv.VideoCaptureProperties]float64
	closed   bool
}

func (f *fakeCapture) Read(m *gocv.Mat) bool {
	if f.gate != nil {
		<-f.gate
	}
	if f.fail {
		return false
	}
	matType := gocv.MatTypeCV8UC3
	if f.channels == 1 {
		matType = gocv.MatTypeCV8UC1
	}
	src := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(10, 20, 30, 0), 6, 8, matType)
	defer src.Close()
	src.CopyTo(m)
	return true
}

func (f *fakeCapture) IsOpened() bool { return !f.closed }

func (f *fakeCapture) Set(p gocv.VideoCaptureProperties, v float64) {
	if f.props == nil {
		f.props = map[gocv.VideoCaptureProperties]float64{}
	}
	f.props[p] = v
}

func (f *fakeCapture) Close() error {
	f.closed = true
	return nil
}

type CaptureTestSuite struct {
	suite.Suite
	capture        *fakeCapture
	openedDevice   interface{}
	resetOpenVideo func()
}

func (suite *CaptureTestSuite) SetupTest() {
	suite.capture = &fakeCapture{channels: 3}
	suite.resetOpenVideo = cvbackend.OverloadOpenVideoCapture(func(device interface{}) (cvbackend.Capture, error) {
		suite.openedDevice = device
		return suite.capture, nil
	})
}

func (suite *CaptureTestSuite) TearDownTest() {
	suite.resetOpenVideo()
}

func (suite *CaptureTestSuite) connect(settings videobackend.Settings) videobackend.Connection {
	conn, err := cvbackend.Backend().Connect(context.Background(), settings)
	require.NoError(suite.T(), err)
	return conn
}

func (suite *CaptureTestSuite) TestConnectParsesDeviceIndex() {
	conn := suite.connect(videobackend.Settings{Device: "2", Width: 1280, Height: 720})
	defer conn.Close()

	assert.Equal(suite.T(), 2, suite.openedDevice)
	assert.Equal(suite.T(), 1280.0, suite.capture.props[gocv.VideoCaptureFrameWidth])
	assert.Equal(suite.T(), 720.0, suite.capture.props[gocv.VideoCaptureFrameHeight])
	assert.True(suite.T(), conn.IsOpen())
}

func (suite *CaptureTestSuite) TestConnectPassesPipelineStringThrough() {
	conn := suite.connect(videobackend.Settings{Device: "videotestsrc ! appsink"})
	defer conn.Close()
	assert.Equal(suite.T(), "videotestsrc ! appsink", suite.openedDevice)
}

func (suite *CaptureTestSuite) TestAcquireConvertsBGRToPackedBGRA() {
	conn := suite.connect(videobackend.Settings{Device: "0"})
	defer conn.Close()

	frame, err := conn.Acquire(time.Second)
	require.NoError(suite.T(), err)
	defer frame.Close()

	assert.Equal(suite.T(), videoframe.Dimensions{W: 8, H: 6}, frame.Dimensions())
	assert.Equal(suite.T(), 8*4, frame.Stride)
	assert.Equal(suite.T(), videoframe.PixelFormatB8G8R8A8UNorm, frame.Format)
	assert.Equal(suite.T(), []byte{10, 20, 30, 255}, frame.Data[:4])
}

func (suite *CaptureTestSuite) TestAcquireConvertsGrayscale() {
	suite.capture.channels = 1
	conn := suite.connect(videobackend.Settings{Device: "0"})
	defer conn.Close()

	frame, err := conn.Acquire(time.Second)
	require.NoError(suite.T(), err)
	defer frame.Close()
	assert.Equal(suite.T(), []byte{10, 10, 10, 255}, frame.Data[:4])
}

func (suite *CaptureTestSuite) TestAcquireReportsFailedRead() {
	suite.capture.fail = true
	conn := suite.connect(videobackend.Settings{Device: "0"})
	defer conn.Close()

	_, err := conn.Acquire(time.Second)
	assert.EqualError(suite.T(), err, "unable to read from video connection")
}

func (suite *CaptureTestSuite) TestAcquireTimesOutThenCollectsPendingRead() {
	suite.capture.gate = make(chan struct{})
	conn := suite.connect(videobackend.Settings{Device: "0"})

	_, err := conn.Acquire(10 * time.Millisecond)
	assert.True(suite.T(), errors.Is(err, videobackend.ErrTimeout))

	close(suite.capture.gate)
	frame, err := conn.Acquire(time.Second)
	require.NoError(suite.T(), err)
	frame.Close()

	require.NoError(suite.T(), conn.Close())
	assert.True(suite.T(), suite.capture.closed)
	assert.False(suite.T(), conn.IsOpen())

	_, err = conn.Acquire(time.Second)
	assert.Equal(suite.T(), videobackend.ErrClosed, err)
}

func (suite *CaptureTestSuite) TestConnectFailure() {
	suite.resetOpenVideo()
	suite.resetOpenVideo = cvbackend.OverloadOpenVideoCapture(func(interface{}) (cvbackend.Capture, error) {
		return nil, errors.New("no such device")
	})

	_, err := cvbackend.Backend().Connect(context.Background(), videobackend.Settings{Device: "9"})
	assert.EqualError(suite.T(), err, `unable to open capture device "9": no such device`)
}

func TestCaptureTestSuite(t *testing.T) {
	suite.Run(t, &CaptureTestSuite{})
}

package main

import (
	"flag"
	"fmt"
	"github.com/cyclopcam/logs"
	"github.com/pkg/errors"
	"github.com/skylens/go-corrtrack"
	"github.com/skylens/go-corrtrack/adapter"
	"github.com/skylens/go-corrtrack/affinity"
	"github.com/skylens/go-corrtrack/config"
	"github.com/skylens/go-corrtrack/render"
	"gocv.io/x/gocv"
	"image"
	"image/color"
	"os"
	"time"
)

// Demo tracks a single object through a video file and writes the annotated
// frames to a new video
type Demo struct {
	log     logs.Log
	tracker *corrtrack.Tracker
	adapter *adapter.Adapter
	// trail holds the tracking rectangle centers drawn behind the object
	trail *render.Trail
	// diag renders the diagnostic inset, nil when disabled
	diag     *render.Diagnostic
	diagKind corrtrack.ImageType
	font     render.Font
	style    render.OverlayStyle
}

// NewDemo returns a Demo with the tracker tuned from cfgFile, an empty
// cfgFile keeps the tracker defaults
func NewDemo(log logs.Log, cfgFile string, maxWidth, timeoutMs, trailSize int,
	diagKind string) (*Demo, error) {

	d := &Demo{
		log:     log,
		tracker: corrtrack.New(corrtrack.WithLogger(log)),
		trail:   render.NewTrail(trailSize),
		font:    render.DefaultFont(),
		style:   render.DefaultOverlayStyle(),
	}

	if cfgFile != "" {
		cfg, err := config.LoadTuningConfig(cfgFile)

		if err != nil {
			return nil, err
		}

		if err := cfg.Apply(d.tracker); err != nil {
			return nil, errors.Wrapf(err, "error applying %s", cfgFile)
		}

		log.Infof("Loaded tuning from %s", cfgFile)
	}

	switch diagKind {
	case "":
	case "pattern":
		d.diagKind = corrtrack.ImagePattern
	case "mask":
		d.diagKind = corrtrack.ImageMask
	case "surface":
		d.diagKind = corrtrack.ImageSurface
	default:
		return nil, errors.Errorf("unknown diagnostic image %q", diagKind)
	}

	if diagKind != "" {
		d.diag = render.NewDiagnostic(128)
	}

	d.adapter = adapter.New(log, d.tracker, adapter.Config{
		MaxWidth:  maxWidth,
		TimeoutMs: timeoutMs,
	})

	return d, nil
}

// Close releases the adapter buffers
func (d *Demo) Close() {
	d.adapter.Close()
}

// Run reads vidFile, locks on the object at lockPt on frame lockFrame and
// writes the annotated video to outFile
func (d *Demo) Run(vidFile, outFile string, lockPt image.Point, lockFrame int) error {

	video, err := gocv.VideoCaptureFile(vidFile)

	if err != nil {
		return errors.Wrapf(err, "error opening video %s", vidFile)
	}

	defer video.Close()

	width := int(video.Get(gocv.VideoCaptureFrameWidth))
	height := int(video.Get(gocv.VideoCaptureFrameHeight))
	fps := video.Get(gocv.VideoCaptureFPS)

	if fps <= 0 {
		fps = 30
	}

	writer, err := gocv.VideoWriterFile(outFile, "MJPG", fps, width, height, true)

	if err != nil {
		return errors.Wrapf(err, "error creating video %s", outFile)
	}

	defer writer.Close()

	d.log.Infof("Tracking %s %dx%d at %.1f FPS", vidFile, width, height, fps)

	img := gocv.NewMat()
	defer img.Close()

	frameNum := 0
	tracked := 0
	start := time.Now()

	for {
		// read the next frame from the video
		if ok := video.Read(&img); !ok {
			break
		}

		if img.Empty() {
			continue
		}

		rect, err := d.adapter.DoProcessFrame(img)

		if err != nil {
			return errors.Wrapf(err, "error processing frame %d", frameNum)
		}

		if frameNum == lockFrame {
			if !d.adapter.LockTarget(lockPt) {
				d.log.Warnf("Failed to lock target at %v on frame %d", lockPt, frameNum)
			}
		}

		if !rect.Empty() {
			tracked++
			d.log.Debugf("Frame %d target at %v", frameNum, rect)
		}

		if err := d.annotate(&img, frameNum); err != nil {
			return err
		}

		if err := writer.Write(img); err != nil {
			return errors.Wrapf(err, "error writing frame %d", frameNum)
		}

		frameNum++
	}

	elapsed := time.Since(start)

	d.log.Infof("Processed %d frames in %s, target tracked on %d", frameNum, elapsed, tracked)

	return nil
}

// annotate draws the tracker state, trail and diagnostic inset on img
func (d *Demo) annotate(img *gocv.Mat, frameNum int) error {

	res := d.tracker.GetTrackerResultData()
	scale := d.adapter.Scale()

	d.trail.Update(res, scale)
	render.DrawTrail(img, d.trail, render.ModeColor(res.Mode), render.DefaultTrailStyle())
	render.TrackerOverlay(img, res, scale, d.font, d.style)

	if d.diag != nil && res.Mode != corrtrack.ModeFree {
		err := d.diag.Inset(img, d.tracker, d.diagKind, image.Pt(img.Cols()-132, 4))

		if err != nil {
			return err
		}
	}

	gocv.PutText(img, fmt.Sprintf("Frame: %d, Mode: %s, Probability: %.2f", frameNum, res.Mode,
		res.ObjectDetectionProbability),
		image.Pt(4, 14), gocv.FontHersheyDuplex, 0.5, color.RGBA{R: 255, G: 0, B: 0, A: 255}, 1)

	return nil
}

func main() {

	// read in cli flags
	vidFile := flag.String("v", "../data/target.mp4", "Video file to track an object in")
	outFile := flag.String("o", "tracked.avi", "Output video file with the tracking overlay")
	cfgFile := flag.String("c", "", "Tuning config JSON file, defaults are used when empty")
	lockX := flag.Int("x", 0, "X coordinate of the object to lock on, in video pixels")
	lockY := flag.Int("y", 0, "Y coordinate of the object to lock on, in video pixels")
	lockFrame := flag.Int("f", 0, "Frame number to lock on the object at")
	maxWidth := flag.Int("w", 640, "Maximum frame width used for tracking, 0 keeps the video resolution")
	timeoutMs := flag.Int("t", 0, "Per frame processing budget in milliseconds, 0 is unbounded")
	trailSize := flag.Int("trail", 64, "Number of tracking rectangle centers drawn as a trail")
	diagKind := flag.String("d", "", "Diagnostic inset to draw: pattern, mask or surface")
	cores := flag.String("cpu", "", "Pin to fast, slow or all cores of the detected board, empty leaves affinity unchanged")

	flag.Parse()

	log, err := logs.NewLog()

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating log: %v\n", err)
		os.Exit(1)
	}

	defer log.Close()

	if *cores != "" {
		ct, err := affinity.ParseCoreType(*cores)

		if err != nil {
			log.Criticalf("Invalid -cpu: %v", err)
			os.Exit(1)
		}

		platform, err := affinity.PinPlatform(ct)

		if err != nil {
			log.Warnf("Failed to set CPU affinity: %v", err)
		} else {
			log.Infof("Pinned to %s cores of %s", *cores, platform)
		}
	}

	demo, err := NewDemo(log, *cfgFile, *maxWidth, *timeoutMs, *trailSize, *diagKind)

	if err != nil {
		log.Criticalf("Error creating demo: %v", err)
		os.Exit(1)
	}

	defer demo.Close()

	err = demo.Run(*vidFile, *outFile, image.Pt(*lockX, *lockY), *lockFrame)

	if err != nil {
		log.Criticalf("Error tracking video: %v", err)
		os.Exit(1)
	}
}

package ai

import (
	"fmt"
	"image"
	"log"
	"os"

	"gocv.io/x/gocv"

	"postureserver/internal/posture"
)

// DetectorService runs the single-person pose estimation network on frames.
// Each processing worker owns its own DetectorService: the underlying net is
// not safe for concurrent use.
type DetectorService struct {
	net           gocv.Net
	modelPath     string
	inputSize     int
	minConfidence float64
	loaded        bool
}

// NewDetectorService loads the pose network from modelPath.
func NewDetectorService(modelPath string, minConfidence float64) *DetectorService {
	service := &DetectorService{
		modelPath:     modelPath,
		inputSize:     256,
		minConfidence: minConfidence,
	}

	if err := service.initializeNet(); err != nil {
		log.Printf("Warning: Could not initialize pose network: %v", err)
		return service // Detection calls will report the missing network
	}

	return service
}

func (s *DetectorService) initializeNet() error {
	if _, err := os.Stat(s.modelPath); os.IsNotExist(err) {
		return fmt.Errorf("model file not found: %s", s.modelPath)
	}

	net := gocv.ReadNetFromONNX(s.modelPath)
	if net.Empty() {
		return fmt.Errorf("failed to load network")
	}
	net.SetPreferableBackend(gocv.NetBackendDefault)
	net.SetPreferableTarget(gocv.NetTargetCPU)

	s.net = net
	s.loaded = true
	log.Printf("Pose network initialized successfully")
	return nil
}

// DetectPose runs the pose network on a JPEG frame and returns the detected
// landmark set plus the frame's pixel dimensions. A nil set with a nil error
// means no person was found in the frame.
func (s *DetectorService) DetectPose(imageBytes []byte) (posture.LandmarkSet, int, int, error) {
	if !s.loaded {
		return nil, 0, 0, fmt.Errorf("pose network not initialized")
	}

	mat, err := gocv.IMDecode(imageBytes, gocv.IMReadColor)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("failed to decode image: %v", err)
	}
	defer mat.Close()

	if mat.Empty() {
		return nil, 0, 0, fmt.Errorf("decoded image is empty")
	}

	frameWidth := mat.Cols()
	frameHeight := mat.Rows()

	// The network expects RGB input; decoded frames are BGR-ordered, so
	// swapRB flips the channels on the way in.
	blob := gocv.BlobFromImage(
		mat,
		1.0/255.0,
		image.Pt(s.inputSize, s.inputSize),
		gocv.NewScalar(0, 0, 0, 0),
		true,  // swapRB
		false, // crop
	)
	defer blob.Close()

	s.net.SetInput(blob, "")
	output := s.net.Forward("")
	defer output.Close()

	set := s.parseKeypoints(output)
	return set, frameWidth, frameHeight, nil
}

// parseKeypoints reads the 17 keypoint rows (normalized y, x, score) from
// the network output. When every score falls below the detection confidence
// the frame is treated as containing no person.
func (s *DetectorService) parseKeypoints(output gocv.Mat) posture.LandmarkSet {
	data, err := output.DataPtrFloat32()
	if err != nil || len(data) < len(posture.KeypointNames)*3 {
		return nil
	}

	set := make(posture.LandmarkSet, len(posture.KeypointNames))
	best := 0.0
	for i, name := range posture.KeypointNames {
		y := float64(data[i*3])
		x := float64(data[i*3+1])
		score := float64(data[i*3+2])

		if score > best {
			best = score
		}
		set[name] = posture.Landmark{X: x, Y: y, Visibility: score}
	}

	if best < s.minConfidence {
		return nil
	}
	return set
}

// Close releases the network handle. Safe to call more than once.
func (s *DetectorService) Close() {
	if s.loaded {
		s.net.Close()
		s.loaded = false
	}
}

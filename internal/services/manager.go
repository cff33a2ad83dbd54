package services

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"sync"

	"gocv.io/x/gocv"

	"postureserver/internal/config"
	"postureserver/internal/dto"
	"postureserver/internal/logger"
	"postureserver/internal/posture"
	"postureserver/internal/services/ai"
	"postureserver/internal/services/storage"
	"postureserver/internal/services/websocket"
)

// Manager runs the per-frame pipeline: relay the raw frame to viewers,
// queue every Nth frame, and have a worker detect the pose, classify it,
// draw the overlay, and broadcast the result.
type Manager struct {
	analyzer         *posture.Analyzer
	detectorServices []*ai.DetectorService
	bufferService    *storage.BufferService
	websocketService *websocket.HubService
	logger           *logger.Logger

	processingQueue chan FrameTask
	frameCounters   map[string]int
	processEveryNth int
	numWorkers      int

	frameCounterMu sync.Mutex
	wg             sync.WaitGroup

	// stopMu orders every enqueue before the queue close: frames are sent
	// under the read lock, Stop closes under the write lock.
	stopMu  sync.RWMutex
	stopped bool
}

// FrameTask is one frame waiting for posture analysis.
type FrameTask struct {
	Image  []byte
	Camera string
}

func NewManager(analyzer *posture.Analyzer, detectorServices []*ai.DetectorService,
	bufferService *storage.BufferService, websocketService *websocket.HubService,
	config *config.Config, logger *logger.Logger) *Manager {

	manager := &Manager{
		analyzer:         analyzer,
		detectorServices: detectorServices,
		bufferService:    bufferService,
		websocketService: websocketService,
		logger:           logger,
		processingQueue:  make(chan FrameTask, 100),
		frameCounters:    make(map[string]int),
		processEveryNth:  config.ProcessingInterval,
		numWorkers:       config.ProcessingWorkers,
	}

	for i := 0; i < manager.numWorkers; i++ {
		manager.wg.Add(1)
		go manager.processingWorker(i)
	}

	manager.logger.Info("🎬 Manager started - analyzing every %d frame(s)", manager.processEveryNth)
	return manager
}

// HandleCameraFrame relays a frame to viewers and queues it for analysis if
// it lands on the processing interval.
func (m *Manager) HandleCameraFrame(image []byte, camera string) {
	m.relayRawFrame(image, camera)

	m.frameCounterMu.Lock()
	m.frameCounters[camera]++
	frameCount := m.frameCounters[camera]
	m.frameCounterMu.Unlock()

	if frameCount%m.processEveryNth != 0 {
		return
	}
	m.resetFrameCounter(camera)

	// A camera connection can outlive the HTTP shutdown, so late frames may
	// still arrive here after Stop. Drop them instead of hitting the closed
	// queue.
	m.stopMu.RLock()
	defer m.stopMu.RUnlock()
	if m.stopped {
		return
	}

	select {
	case m.processingQueue <- FrameTask{Image: image, Camera: camera}:
	default:
		m.logger.Warning("⚠️  Processing queue full for camera %s - skipping frame", camera)
	}
}

// relayRawFrame forwards the unprocessed frame so the stream stays live
// between analyzed frames.
func (m *Manager) relayRawFrame(image []byte, camera string) {
	msg := dto.RawFrameMessage{
		Camera: camera,
		Image:  base64.StdEncoding.EncodeToString(image),
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		m.logger.Error("Failed to encode raw frame message: %v", err)
		return
	}
	m.websocketService.Broadcast(payload)
}

// processingWorker analyzes queued frames with its own detector handle.
func (m *Manager) processingWorker(workerID int) {
	defer m.wg.Done()

	m.logger.Info("🔧 Processing worker %d started", workerID)

	for task := range m.processingQueue {
		m.processFrame(task.Image, task.Camera, workerID)
	}

	m.logger.Info("🔧 Processing worker %d stopped", workerID)
}

func (m *Manager) processFrame(imageBytes []byte, camera string, workerID int) {
	set, frameWidth, frameHeight, err := m.detectorServices[workerID].DetectPose(imageBytes)
	if err != nil {
		m.logger.Error("Pose detection failed for camera %s: %v", camera, err)
		return
	}

	assessment := m.analyzer.Analyze(set, frameWidth, frameHeight)

	annotated := imageBytes
	if assessment.HasLandmarks() {
		annotated, err = m.renderOverlay(imageBytes, assessment)
		if err != nil {
			m.logger.Error("Failed to draw overlay: %v", err)
			annotated = imageBytes
		}
	}

	m.broadcastAssessment(annotated, camera, assessment)

	if assessment.HasLandmarks() && !assessment.Result.Judgments.GoodPosture {
		m.bufferService.Add(annotated, camera, primaryIssue(assessment.Result))
	}
}

// renderOverlay decodes the frame, draws the assessment onto it, and
// re-encodes it as JPEG.
func (m *Manager) renderOverlay(imageBytes []byte, assessment posture.Assessment) ([]byte, error) {
	mat, err := gocv.IMDecode(imageBytes, gocv.IMReadColor)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %v", err)
	}
	defer mat.Close()

	posture.DrawAnnotations(&mat, assessment)

	buf, err := gocv.IMEncode(".jpg", mat)
	if err != nil {
		return nil, fmt.Errorf("failed to encode image: %v", err)
	}
	defer buf.Close()

	annotated := make([]byte, len(buf.GetBytes()))
	copy(annotated, buf.GetBytes())
	return annotated, nil
}

func (m *Manager) broadcastAssessment(image []byte, camera string, assessment posture.Assessment) {
	msg := dto.FrameMessage{
		Camera:     camera,
		Image:      base64.StdEncoding.EncodeToString(image),
		Assessment: assessment,
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		m.logger.Error("Failed to encode frame message: %v", err)
		return
	}
	m.websocketService.Broadcast(payload)
}

// primaryIssue names the first failing check, used to tag snapshots.
func primaryIssue(r *posture.Result) string {
	switch {
	case !r.Judgments.TorsoGood:
		return "torso"
	case !r.Judgments.NeckGood:
		return "neck"
	case !r.Judgments.HeadPositionGood:
		return "head"
	default:
		return "shoulders"
	}
}

func (m *Manager) GetWebsocketService() *websocket.HubService {
	return m.websocketService
}

func (m *Manager) GetBufferService() *storage.BufferService {
	return m.bufferService
}

func (m *Manager) Analyzer() *posture.Analyzer {
	return m.analyzer
}

func (m *Manager) resetFrameCounter(camera string) {
	m.frameCounterMu.Lock()
	m.frameCounters[camera] = 0
	m.frameCounterMu.Unlock()
}

// Stop drains the queue, waits for the workers, and releases every detector
// handle exactly once. Additional calls are no-ops.
func (m *Manager) Stop() {
	m.stopMu.Lock()
	if m.stopped {
		m.stopMu.Unlock()
		return
	}
	m.stopped = true
	close(m.processingQueue)
	m.stopMu.Unlock()

	m.wg.Wait()
	for _, detector := range m.detectorServices {
		detector.Close()
	}
	m.logger.Info("🛑 All processing workers stopped")
}

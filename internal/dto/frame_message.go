package dto

import "postureserver/internal/posture"

// FrameMessage is the payload broadcast to viewer websockets: the annotated
// frame plus the assessment the overlay was drawn from.
type FrameMessage struct {
	Camera     string             `json:"camera"`
	Image      string             `json:"image"` // base64-encoded JPEG
	Assessment posture.Assessment `json:"assessment"`
}

// RawFrameMessage relays an unprocessed camera frame so the stream stays
// live between analyzed frames.
type RawFrameMessage struct {
	Camera string `json:"camera"`
	Image  string `json:"image"` // base64-encoded JPEG
}

package domain

import "errors"

var (
	// Subtitle errors
	ErrMalformedTimestamp = errors.New("malformed timestamp")

	// Library errors
	ErrMissingVideoForTranscript = errors.New("no video file found for transcript")
	ErrNoVideos                  = errors.New("no videos found")
	ErrNoTranscripts             = errors.New("no transcripts found")

	// Search errors
	ErrEmptySearchTerm = errors.New("search term is empty")

	// Evidence errors
	ErrFrameExtractionFailed = errors.New("frame extraction failed")

	// Transcription errors
	ErrTranscriptionFailed = errors.New("transcription failed")
	ErrModelNotFound       = errors.New("model not found")

	// Dependency errors
	ErrFFmpegNotFound  = errors.New("ffmpeg not found")
	ErrWhisperNotFound = errors.New("whisper binary not found (install whisper.cpp)")
)

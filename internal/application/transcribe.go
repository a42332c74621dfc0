package application

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/devbush/vidtrans/internal/domain"
	"github.com/devbush/vidtrans/internal/logger"
	"github.com/devbush/vidtrans/internal/ports"
)

// Selection chooses which videos in the library get transcribed
type Selection int

const (
	// SelectRemaining picks videos without an SRT file
	SelectRemaining Selection = iota
	// SelectAll picks every video, overwriting existing subtitles
	SelectAll
)

// TranscribeOptions configures the transcription
type TranscribeOptions struct {
	Model    string
	Language string // empty for auto-detect
}

// TranscribeOutcome is the result for one video
type TranscribeOutcome struct {
	VideoPath  string
	Transcript *domain.Transcript
	Err        error
}

// TranscribeSummary collects the outcomes of a batch
type TranscribeSummary struct {
	Outcomes  []TranscribeOutcome
	Succeeded int
	Failed    int
}

// BatchObserver receives batch events. Either field may be nil.
type BatchObserver struct {
	Started  func(index, total int, videoPath string)
	Finished func(outcome TranscribeOutcome)
}

// TranscribeService orchestrates the transcription process
type TranscribeService struct {
	library     ports.VideoLibrary
	transcriber ports.Transcriber
	logger      logger.Logger
}

// NewTranscribeService creates a new transcription service
func NewTranscribeService(library ports.VideoLibrary, transcriber ports.Transcriber, log logger.Logger) *TranscribeService {
	if log == nil {
		log = logger.Nop()
	}
	return &TranscribeService{
		library:     library,
		transcriber: transcriber,
		logger:      log,
	}
}

// Select lists the videos a batch should process
func (s *TranscribeService) Select(ctx context.Context, sel Selection) ([]string, error) {
	videos, err := s.library.ListVideos(ctx)
	if err != nil {
		return nil, err
	}
	if len(videos) == 0 {
		return nil, domain.ErrNoVideos
	}
	if sel == SelectAll {
		return videos, nil
	}

	var remaining []string
	for _, v := range videos {
		if !s.library.HasTranscript(v) {
			remaining = append(remaining, v)
		}
	}
	return remaining, nil
}

// TranscribeVideo transcribes one video and writes its TXT, SRT and VTT files
func (s *TranscribeService) TranscribeVideo(ctx context.Context, videoPath string, opts TranscribeOptions) (*domain.Transcript, error) {
	if !domain.IsVideoFile(videoPath) {
		return nil, fmt.Errorf("not a recognized video file: %s", filepath.Base(videoPath))
	}

	transcript, err := s.transcriber.Transcribe(ctx, videoPath, ports.TranscribeOpts{
		Model:    opts.Model,
		Language: opts.Language,
	})
	if err != nil {
		return nil, err
	}

	if transcript.VideoID == "" {
		transcript.VideoID = domain.VideoID(videoPath)
	}
	transcript.VideoPath = videoPath
	transcript.SortSegments()

	if err := s.library.SaveTranscript(ctx, videoPath, transcript); err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "Transcribed %s (%d segments)", filepath.Base(videoPath), len(transcript.Segments))
	return transcript, nil
}

// TranscribeFiles processes videos one after another. A failed video is
// logged and recorded; the batch carries on. Cancelling ctx stops the batch
// and returns what was done so far together with the context error.
func (s *TranscribeService) TranscribeFiles(ctx context.Context, videos []string, opts TranscribeOptions, obs BatchObserver) (*TranscribeSummary, error) {
	summary := &TranscribeSummary{}

	for i, video := range videos {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		if obs.Started != nil {
			obs.Started(i, len(videos), video)
		}

		transcript, err := s.TranscribeVideo(ctx, video, opts)
		outcome := TranscribeOutcome{
			VideoPath:  video,
			Transcript: transcript,
			Err:        err,
		}
		summary.Outcomes = append(summary.Outcomes, outcome)
		if obs.Finished != nil {
			obs.Finished(outcome)
		}
		if err != nil {
			s.logger.Error(ctx, "Failed to transcribe %s: %v", filepath.Base(video), err)
			summary.Failed++
			continue
		}
		summary.Succeeded++
	}

	return summary, nil
}

// TranscribeSelection selects videos and transcribes them
func (s *TranscribeService) TranscribeSelection(ctx context.Context, sel Selection, opts TranscribeOptions, obs BatchObserver) (*TranscribeSummary, error) {
	videos, err := s.Select(ctx, sel)
	if err != nil {
		return nil, err
	}
	return s.TranscribeFiles(ctx, videos, opts, obs)
}

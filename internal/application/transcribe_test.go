package application

import (
	"context"
	"errors"
	"testing"

	"github.com/devbush/vidtrans/internal/domain"
)

func TestTranscribeService_Select(t *testing.T) {
	lib := newMockLibrary()
	lib.videos = []string{"/videos/a.mp4", "/videos/b.mkv", "/videos/c.mov"}
	lib.addTranscript("b")

	svc := NewTranscribeService(lib, &mockTranscriber{}, nil)
	ctx := context.Background()

	tests := []struct {
		name string
		sel  Selection
		want []string
	}{
		{"remaining", SelectRemaining, []string{"/videos/a.mp4", "/videos/c.mov"}},
		{"all", SelectAll, []string{"/videos/a.mp4", "/videos/b.mkv", "/videos/c.mov"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.Select(ctx, tt.sel)
			if err != nil {
				t.Fatalf("Select() error = %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("Select() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("Select()[%d] = %s, want %s", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestTranscribeService_Select_NoVideos(t *testing.T) {
	svc := NewTranscribeService(newMockLibrary(), &mockTranscriber{}, nil)

	_, err := svc.Select(context.Background(), SelectAll)
	if !errors.Is(err, domain.ErrNoVideos) {
		t.Errorf("Select() error = %v, want ErrNoVideos", err)
	}
}

func TestTranscribeService_TranscribeVideo(t *testing.T) {
	lib := newMockLibrary()
	tr := &mockTranscriber{}
	svc := NewTranscribeService(lib, tr, nil)

	got, err := svc.TranscribeVideo(context.Background(), "/videos/talk.mp4", TranscribeOptions{Model: "small"})
	if err != nil {
		t.Fatalf("TranscribeVideo() error = %v", err)
	}

	if got.VideoID != "talk" {
		t.Errorf("VideoID = %s, want talk", got.VideoID)
	}
	if got.Model != "small" {
		t.Errorf("Model = %s, want small", got.Model)
	}
	if got.Segments[0].Text != "first" {
		t.Errorf("segments not sorted: %+v", got.Segments)
	}
	if lib.saved["/videos/talk.mp4"] != got {
		t.Error("transcript was not saved to the library")
	}
}

func TestTranscribeService_TranscribeVideo_RejectsNonVideo(t *testing.T) {
	tr := &mockTranscriber{}
	svc := NewTranscribeService(newMockLibrary(), tr, nil)

	if _, err := svc.TranscribeVideo(context.Background(), "/videos/notes.txt", TranscribeOptions{}); err == nil {
		t.Error("TranscribeVideo() expected error for non-video file")
	}
	if len(tr.calls) != 0 {
		t.Errorf("transcriber called %d times, want 0", len(tr.calls))
	}
}

func TestTranscribeService_TranscribeFiles_ContinuesAfterFailure(t *testing.T) {
	lib := newMockLibrary()
	failure := errors.New("whisper crashed")
	tr := &mockTranscriber{failFor: map[string]error{"/videos/b.mp4": failure}}
	svc := NewTranscribeService(lib, tr, nil)

	videos := []string{"/videos/a.mp4", "/videos/b.mp4", "/videos/c.mp4"}
	var seen []int
	var finished []TranscribeOutcome
	summary, err := svc.TranscribeFiles(context.Background(), videos, TranscribeOptions{}, BatchObserver{
		Started: func(i, total int, _ string) {
			if total != 3 {
				t.Errorf("progress total = %d, want 3", total)
			}
			seen = append(seen, i)
		},
		Finished: func(o TranscribeOutcome) { finished = append(finished, o) },
	})
	if err != nil {
		t.Fatalf("TranscribeFiles() error = %v", err)
	}

	if summary.Succeeded != 2 || summary.Failed != 1 {
		t.Errorf("summary = %d ok / %d failed, want 2 / 1", summary.Succeeded, summary.Failed)
	}
	if !errors.Is(summary.Outcomes[1].Err, failure) {
		t.Errorf("outcome[1].Err = %v, want %v", summary.Outcomes[1].Err, failure)
	}
	if len(seen) != 3 || len(finished) != 3 {
		t.Errorf("observer saw %d starts and %d finishes, want 3 and 3", len(seen), len(finished))
	}
	if finished[1].Err == nil || finished[0].Err != nil {
		t.Errorf("finished outcomes out of order: %+v", finished)
	}
	if len(lib.saved) != 2 {
		t.Errorf("saved %d transcripts, want 2", len(lib.saved))
	}
}

func TestTranscribeService_TranscribeFiles_SaveError(t *testing.T) {
	lib := newMockLibrary()
	lib.saveErr = errors.New("disk full")
	svc := NewTranscribeService(lib, &mockTranscriber{}, nil)

	summary, err := svc.TranscribeFiles(context.Background(), []string{"/videos/a.mp4"}, TranscribeOptions{}, BatchObserver{})
	if err != nil {
		t.Fatalf("TranscribeFiles() error = %v", err)
	}
	if summary.Failed != 1 || summary.Outcomes[0].Err != lib.saveErr {
		t.Errorf("summary = %+v, want save error recorded", summary)
	}
}

func TestTranscribeService_TranscribeFiles_Cancelled(t *testing.T) {
	tr := &mockTranscriber{}
	svc := NewTranscribeService(newMockLibrary(), tr, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	summary, err := svc.TranscribeFiles(ctx, []string{"/videos/a.mp4"}, TranscribeOptions{}, BatchObserver{})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("TranscribeFiles() error = %v, want context.Canceled", err)
	}
	if summary == nil || len(summary.Outcomes) != 0 {
		t.Errorf("summary = %+v, want empty", summary)
	}
	if len(tr.calls) != 0 {
		t.Errorf("transcriber called %d times, want 0", len(tr.calls))
	}
}

func TestTranscribeService_TranscribeSelection(t *testing.T) {
	lib := newMockLibrary()
	lib.videos = []string{"/videos/a.mp4", "/videos/b.mp4"}
	lib.addTranscript("a")
	tr := &mockTranscriber{}
	svc := NewTranscribeService(lib, tr, nil)

	summary, err := svc.TranscribeSelection(context.Background(), SelectRemaining, TranscribeOptions{}, BatchObserver{})
	if err != nil {
		t.Fatalf("TranscribeSelection() error = %v", err)
	}
	if summary.Succeeded != 1 || len(tr.calls) != 1 || tr.calls[0] != "/videos/b.mp4" {
		t.Errorf("calls = %v, want only b.mp4", tr.calls)
	}
}

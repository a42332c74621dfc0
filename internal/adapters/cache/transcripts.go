package cache

import (
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/devbush/vidtrans/internal/domain"
	"github.com/devbush/vidtrans/internal/ports"
)

// DefaultTranscriptEntries bounds the number of parsed subtitle files kept
const DefaultTranscriptEntries = 256

// TranscriptCache keeps parsed transcripts keyed by file path, modification
// time and size, so an edited file is never served stale.
type TranscriptCache struct {
	entries *lru.Cache[ports.TranscriptKey, *domain.Transcript]
}

func NewTranscriptCache(size int) (*TranscriptCache, error) {
	if size <= 0 {
		size = DefaultTranscriptEntries
	}
	entries, err := lru.New[ports.TranscriptKey, *domain.Transcript](size)
	if err != nil {
		return nil, err
	}
	return &TranscriptCache{entries: entries}, nil
}

func (c *TranscriptCache) Get(key ports.TranscriptKey) (*domain.Transcript, bool) {
	return c.entries.Get(key)
}

func (c *TranscriptCache) Add(key ports.TranscriptKey, transcript *domain.Transcript) {
	c.entries.Add(key, transcript)
}

func (c *TranscriptCache) Len() int {
	return c.entries.Len()
}

func (c *TranscriptCache) Purge() {
	c.entries.Purge()
}

var _ ports.TranscriptCache = (*TranscriptCache)(nil)

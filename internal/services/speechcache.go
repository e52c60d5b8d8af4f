package services

import (
	"fmt"
	"sync"
)

// SpeechCache memoizes synthesized audio paths by exact caption text. Keys
// are compared with plain string equality; captions differing only in
// whitespace or casing produce separate entries and separate audio files.
// Entries live for the process lifetime, there is no eviction. ClearCache
// drops the mapping but never touches files on disk.
type SpeechCache struct {
	synth Synthesizer
	mu    sync.RWMutex
	paths map[string]string
}

func NewSpeechCache(synth Synthesizer) *SpeechCache {
	return &SpeechCache{
		synth: synth,
		paths: make(map[string]string),
	}
}

// GetOrSynthesize returns the cached audio path for text, synthesizing and
// caching a new file when none exists. With useCache=false it always invokes
// the synthesizer and leaves existing entries untouched.
func (c *SpeechCache) GetOrSynthesize(text string, useCache bool) (string, error) {
	if useCache {
		c.mu.RLock()
		path, ok := c.paths[text]
		c.mu.RUnlock()
		if ok {
			return path, nil
		}
	}

	path, err := c.synth.Synthesize(text)
	if err != nil {
		return "", fmt.Errorf("speech cache: %w", err)
	}

	if useCache {
		// Two requests synthesizing the same caption concurrently may both
		// get here; either file winning the map slot is acceptable.
		c.mu.Lock()
		c.paths[text] = path
		c.mu.Unlock()
	}

	return path, nil
}

// ClearCache empties the in-memory mapping. Cached files stay on disk.
func (c *SpeechCache) ClearCache() {
	c.mu.Lock()
	c.paths = make(map[string]string)
	c.mu.Unlock()
}

// Len returns the number of cached entries.
func (c *SpeechCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.paths)
}

var _ SpeechSource = (*SpeechCache)(nil)

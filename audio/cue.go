// Package audio plays a short tone when the field creates injections
package audio

import (
	"fmt"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
	"go.uber.org/zap"

	"github.com/lixenwraith/crackfield/core"
	"github.com/lixenwraith/crackfield/parameter"
	"github.com/lixenwraith/crackfield/vmath"
)

// Player sends a finished stream to an output device
type Player interface {
	Play(s ...beep.Streamer)
}

type speakerPlayer struct{}

func (speakerPlayer) Play(s ...beep.Streamer) { speaker.Play(s...) }

// Cue plays a tone when the injection counter advances, throttled to CueMinGap
// A nil *Cue is valid and silent
type Cue struct {
	mu        sync.Mutex
	player    Player
	clock     core.Clock
	logger    *zap.Logger
	rate      beep.SampleRate
	volume    float64
	lastCount uint64
	lastPlay  time.Time
	played    uint64
	closed    bool
	speaker   bool
}

// NewCue initializes the speaker and returns a cue at the given volume in [0, 1]
func NewCue(volume float64, logger *zap.Logger) (*Cue, error) {
	rate := beep.SampleRate(parameter.CueSampleRate)
	if err := speaker.Init(rate, rate.N(100*time.Millisecond)); err != nil {
		return nil, fmt.Errorf("init speaker: %w", err)
	}
	c := newCue(speakerPlayer{}, core.NewTimeProvider(), volume, logger)
	c.speaker = true
	return c, nil
}

func newCue(player Player, clock core.Clock, volume float64, logger *zap.Logger) *Cue {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cue{
		player: player,
		clock:  clock,
		logger: logger,
		rate:   beep.SampleRate(parameter.CueSampleRate),
		volume: vmath.Clamp01(volume),
	}
}

// Observe takes the running total of created injections and plays when it advanced
func (c *Cue) Observe(created uint64) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || created <= c.lastCount {
		c.lastCount = created
		return
	}
	burst := created - c.lastCount
	c.lastCount = created

	now := c.clock.Now()
	if !c.lastPlay.IsZero() && now.Sub(c.lastPlay) < parameter.CueMinGap {
		return
	}

	// Bigger bursts pitch up a little
	freq := parameter.CueFrequency * (1 + 0.05*float64(min(burst-1, 4)))
	tone, err := newTone(c.rate, freq, parameter.CueDuration, c.volume)
	if err != nil {
		c.logger.Warn("cue tone failed", zap.Error(err))
		return
	}
	c.player.Play(tone)
	c.lastPlay = now
	c.played++
}

// Played returns how many tones have been sent to the player
func (c *Cue) Played() uint64 {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.played
}

// Close releases the speaker; later observations are ignored
func (c *Cue) Close() {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	if c.speaker {
		speaker.Close()
	}
}

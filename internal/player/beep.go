package player

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/flac"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/gopxl/beep/v2/vorbis"
	"github.com/gopxl/beep/v2/wav"
	"github.com/rs/zerolog"
)

const (
	// engineSampleRate is the speaker mix rate; station streams are
	// resampled to it.
	engineSampleRate = beep.SampleRate(44100)

	streamUserAgent = "RadioAtlas/1.0"
)

// BeepEngine is the production Engine: it connects to the stream URL over
// HTTP, decodes it incrementally, and plays it through the system speaker.
type BeepEngine struct {
	httpClient *http.Client
	log        zerolog.Logger
}

// NewBeepEngine initializes the speaker and returns the engine. Only one
// engine should exist per process.
func NewBeepEngine(log zerolog.Logger) (*BeepEngine, error) {
	if err := speaker.Init(engineSampleRate, engineSampleRate.N(time.Second/10)); err != nil {
		return nil, fmt.Errorf("initializing speaker: %w", err)
	}
	return &BeepEngine{
		// No overall timeout: the response body is the live stream.
		httpClient: &http.Client{},
		log:        log,
	}, nil
}

// Create starts connecting to streamURL in the background and returns the
// handle immediately. Load success or failure is reported through Events.
func (e *BeepEngine) Create(streamURL string, opts HandleOptions) Handle {
	h := &beepHandle{engine: e, opts: opts}
	go h.open(streamURL)
	return h
}

type beepHandle struct {
	engine *BeepEngine
	opts   HandleOptions

	mu          sync.Mutex
	released    bool
	pendingPlay bool
	body        io.Closer
	ctrl        *beep.Ctrl
	volume      *effects.Volume

	// Volume requested before the stream finished loading; applied at
	// handle construction instead of the initial option.
	requested    float64
	hasRequested bool
}

func (h *beepHandle) open(streamURL string) {
	req, err := http.NewRequest("GET", streamURL, nil)
	if err != nil {
		h.loadFailed(fmt.Errorf("creating request: %w", err))
		return
	}
	req.Header.Set("User-Agent", streamUserAgent)

	resp, err := h.engine.httpClient.Do(req)
	if err != nil {
		h.loadFailed(fmt.Errorf("connecting to stream: %w", err))
		return
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		h.loadFailed(fmt.Errorf("stream returned status %d", resp.StatusCode))
		return
	}

	decode := decoderFor(resp.Header.Get("Content-Type"))
	streamer, format, err := decode(resp.Body)
	if err != nil {
		resp.Body.Close()
		h.loadFailed(fmt.Errorf("decoding stream: %w", err))
		return
	}

	h.mu.Lock()
	if h.released {
		h.mu.Unlock()
		streamer.Close()
		resp.Body.Close()
		return
	}
	h.body = resp.Body
	vol := h.opts.Volume
	if h.hasRequested {
		vol = h.requested
	}
	resampled := beep.Resample(4, format.SampleRate, engineSampleRate, streamer)
	h.volume = &effects.Volume{Streamer: resampled, Base: 2, Volume: gain(vol), Silent: vol == 0}
	h.ctrl = &beep.Ctrl{Streamer: h.volume, Paused: !h.pendingPlay}
	h.mu.Unlock()

	// The callback runs inside the speaker's mixer; hop to a fresh
	// goroutine before touching handle state or delivering events.
	speaker.Play(beep.Seq(h.ctrl, beep.Callback(func() { go h.finished(streamer) })))

	h.mu.Lock()
	released := h.released
	h.mu.Unlock()
	if !released && h.opts.Events.OnLoad != nil {
		h.opts.Events.OnLoad()
	}
}

func (h *beepHandle) loadFailed(err error) {
	h.mu.Lock()
	released := h.released
	h.mu.Unlock()
	if released {
		return
	}
	h.engine.log.Debug().Err(err).Msg("stream load failed")
	if h.opts.Events.OnLoadError != nil {
		h.opts.Events.OnLoadError(err)
	}
}

// finished runs when the stream drains: a decode error mid-stream is a
// playback failure, a clean drain is a natural end.
func (h *beepHandle) finished(streamer beep.StreamSeekCloser) {
	err := streamer.Err()

	h.mu.Lock()
	released := h.released
	h.mu.Unlock()
	if released {
		return
	}

	if err != nil {
		if h.opts.Events.OnPlayError != nil {
			h.opts.Events.OnPlayError(err)
		}
		return
	}
	if h.opts.Events.OnEnd != nil {
		h.opts.Events.OnEnd()
	}
}

func (h *beepHandle) Play() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.pendingPlay = true
	if h.ctrl != nil {
		speaker.Lock()
		h.ctrl.Paused = false
		speaker.Unlock()
	}
}

func (h *beepHandle) Pause() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.pendingPlay = false
	if h.ctrl != nil {
		speaker.Lock()
		h.ctrl.Paused = true
		speaker.Unlock()
	}
}

func (h *beepHandle) SetVolume(v float64) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.requested = v
	h.hasRequested = true
	if h.volume != nil {
		speaker.Lock()
		h.volume.Silent = v == 0
		h.volume.Volume = gain(v)
		speaker.Unlock()
	}
}

// Release silences the handle immediately and closes the stream connection.
// Idempotent; safe to call before the stream has finished loading.
func (h *beepHandle) Release() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.released {
		return
	}
	h.released = true

	if h.ctrl != nil {
		speaker.Lock()
		h.ctrl.Paused = true
		h.ctrl.Streamer = nil
		speaker.Unlock()
	}
	if h.body != nil {
		h.body.Close()
		h.body = nil
	}
}

// gain maps the linear [0,1] volume to the exponent effects.Volume expects:
// 1.0 is unity gain, values below attenuate on a log scale.
func gain(v float64) float64 {
	return (v - 1) * 6
}

type decodeFunc func(io.ReadCloser) (beep.StreamSeekCloser, beep.Format, error)

// decoderFor picks a decoder from the response content type. Internet radio
// overwhelmingly serves MP3, so that is the fallback.
func decoderFor(contentType string) decodeFunc {
	ct := strings.ToLower(contentType)
	switch {
	case strings.Contains(ct, "ogg"):
		return vorbis.Decode
	case strings.Contains(ct, "flac"):
		return func(rc io.ReadCloser) (beep.StreamSeekCloser, beep.Format, error) {
			return flac.Decode(rc)
		}
	case strings.Contains(ct, "wav"):
		return func(rc io.ReadCloser) (beep.StreamSeekCloser, beep.Format, error) {
			return wav.Decode(rc)
		}
	default:
		return mp3.Decode
	}
}

// Package player renders a resolved stream URL through the system
// audio output.
package player

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/rs/zerolog/log"
)

const (
	DefaultSampleRate   = beep.SampleRate(44100)
	SpeakerBufferSize   = time.Millisecond * 250
	ReadTimeout         = 5 * time.Second
	VolumeCurveExponent = 0.5
	MinVolumeDB         = -10.0
	DefaultVolume       = 80

	playlistFetchTimeout = 10 * time.Second
	maxPlaylistHops      = 3
)

// Relies on context cancellation to clean up the spawned read goroutine.
type contextReader struct {
	reader  io.Reader
	ctx     context.Context
	timeout time.Duration
}

func (cr *contextReader) Read(p []byte) (n int, err error) {
	select {
	case <-cr.ctx.Done():
		return 0, cr.ctx.Err()
	default:
	}

	timer := time.NewTimer(cr.timeout)
	defer timer.Stop()

	type result struct {
		n   int
		err error
	}
	done := make(chan result, 1)

	go func() {
		n, err := cr.reader.Read(p)
		select {
		case done <- result{n, err}:
		case <-cr.ctx.Done():
		}
	}()

	select {
	case res := <-done:
		return res.n, res.err
	case <-timer.C:
		return 0, fmt.Errorf("read timeout: no data received for %v", cr.timeout)
	case <-cr.ctx.Done():
		return 0, cr.ctx.Err()
	}
}

// Engine streams a live URL through the speaker. One stream plays at a
// time; starting a new one stops the previous.
type Engine struct {
	mu            sync.Mutex
	httpClient    *http.Client
	format        beep.Format
	volume        *effects.Volume
	ctrl          *beep.Ctrl
	cancelFunc    context.CancelFunc
	body          io.Closer
	speakerInit   bool
	isPlaying     bool
	isPaused      bool
	volumePercent int
	onState       func(playing, paused bool)
}

func NewEngine() *Engine {
	httpClient := &http.Client{
		Timeout: 0, // No overall timeout — streams are long-lived
		Transport: &http.Transport{
			DialContext: (&net.Dialer{
				Timeout: 10 * time.Second,
			}).DialContext,
			TLSHandshakeTimeout:   10 * time.Second,
			ResponseHeaderTimeout: 15 * time.Second,
			MaxIdleConns:          10,
			IdleConnTimeout:       90 * time.Second,
			DisableCompression:    true,
		},
	}

	return &Engine{
		format: beep.Format{
			SampleRate:  DefaultSampleRate,
			NumChannels: 2,
			Precision:   2,
		},
		httpClient:    httpClient,
		volumePercent: -1,
	}
}

// OnStateChange registers the callback fired whenever the play/pause
// flags change.
func (e *Engine) OnStateChange(fn func(playing, paused bool)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onState = fn
}

// Play connects to streamURL and starts playback, following playlist
// indirection (PLS, M3U) to the first reachable media URL. Any stream
// already playing is stopped first.
func (e *Engine) Play(streamURL string) error {
	if streamURL == "" {
		return errors.New("empty stream URL")
	}

	e.Stop()

	ctx, cancel := context.WithCancel(context.Background())

	fetchCtx, fetchCancel := context.WithTimeout(ctx, playlistFetchTimeout)
	mediaURLs, err := e.resolveMediaURLs(fetchCtx, streamURL, 0)
	fetchCancel()
	if err != nil {
		cancel()
		return err
	}

	var lastErr error
	for _, mediaURL := range mediaURLs {
		if err := e.playStream(ctx, cancel, mediaURL); err != nil {
			log.Warn().Err(err).Str("url", mediaURL).Msg("Stream failed, trying next")
			lastErr = err
			continue
		}
		return nil
	}

	cancel()
	if lastErr == nil {
		lastErr = errors.New("no playable stream URL")
	}
	return lastErr
}

// Stop halts playback and releases the stream connection.
func (e *Engine) Stop() {
	e.mu.Lock()
	if e.cancelFunc == nil && !e.isPlaying {
		e.mu.Unlock()
		return
	}

	if e.cancelFunc != nil {
		e.cancelFunc()
		e.cancelFunc = nil
	}
	if e.body != nil {
		e.body.Close()
		e.body = nil
	}

	if e.speakerInit {
		speaker.Clear()
	}
	e.isPlaying = false
	e.isPaused = false
	cb := e.onState
	e.mu.Unlock()

	e.fireState(cb, false, false)
	log.Debug().Msg("Playback stopped")
}

// TogglePause flips between playing and paused. A no-op when nothing
// is playing.
func (e *Engine) TogglePause() {
	e.mu.Lock()
	if e.ctrl == nil || !e.isPlaying {
		e.mu.Unlock()
		return
	}

	speaker.Lock()
	e.ctrl.Paused = !e.ctrl.Paused
	e.isPaused = e.ctrl.Paused
	speaker.Unlock()

	playing := e.isPlaying && !e.isPaused
	paused := e.isPaused
	cb := e.onState
	e.mu.Unlock()

	e.fireState(cb, playing, paused)
	if paused {
		log.Debug().Msg("Playback paused")
	} else {
		log.Debug().Msg("Playback resumed")
	}
}

// SetVolume sets the output level as a 0-100 percentage. Takes effect
// immediately when a stream is playing, otherwise when playback starts.
func (e *Engine) SetVolume(volumePercent int) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.volumePercent = volumePercent

	if e.volume == nil {
		log.Debug().Msgf("Volume stored as %d%% (will be applied when playback starts)", volumePercent)
		return
	}

	volumeLevel := percentToExponent(float64(volumePercent))

	speaker.Lock()
	e.volume.Volume = volumeLevel
	e.volume.Silent = volumePercent == 0
	speaker.Unlock()

	log.Debug().Msgf("Volume set to %d%% (%.2f dB)", volumePercent, volumeLevel)
}

func (e *Engine) IsPlaying() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.isPlaying && !e.isPaused
}

func (e *Engine) IsPaused() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.isPaused
}

func percentToExponent(p float64) float64 {
	if p <= 0 {
		return MinVolumeDB
	}
	if p >= 100 {
		return 0
	}

	normalized := p / 100.0
	adjusted := math.Pow(normalized, VolumeCurveExponent)
	return (1.0 - adjusted) * MinVolumeDB
}

func (e *Engine) initSpeaker(sampleRate beep.SampleRate) error {
	if !e.speakerInit || sampleRate != e.format.SampleRate {
		if err := speaker.Init(sampleRate, sampleRate.N(SpeakerBufferSize)); err != nil {
			return fmt.Errorf("failed to initialize speaker: %w", err)
		}
		e.format.SampleRate = sampleRate
		e.speakerInit = true
		log.Debug().Msgf("Speaker initialized with sample rate: %d Hz, buffer: %v", sampleRate, SpeakerBufferSize)
	}
	return nil
}

func (e *Engine) playStream(ctx context.Context, cancel context.CancelFunc, streamURL string) error {
	log.Debug().Msgf("Connecting to stream: %s", streamURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, streamURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to fetch stream: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return fmt.Errorf("stream returned status %d: %s", resp.StatusCode, resp.Status)
	}

	body := &contextReader{
		reader:  bufio.NewReader(resp.Body),
		ctx:     ctx,
		timeout: ReadTimeout,
	}

	streamer, format, err := mp3.Decode(io.NopCloser(body))
	if err != nil {
		resp.Body.Close()
		return fmt.Errorf("failed to decode stream: %w", err)
	}

	e.mu.Lock()
	if err := e.initSpeaker(format.SampleRate); err != nil {
		e.mu.Unlock()
		streamer.Close()
		resp.Body.Close()
		return err
	}

	volumePercent := e.volumePercent
	if volumePercent < 0 {
		volumePercent = DefaultVolume
	}

	e.volume = &effects.Volume{
		Streamer: streamer,
		Base:     2,
		Volume:   percentToExponent(float64(volumePercent)),
		Silent:   volumePercent == 0,
	}
	e.ctrl = &beep.Ctrl{Streamer: e.volume}
	e.cancelFunc = cancel
	e.body = resp.Body
	e.isPlaying = true
	e.isPaused = false
	cb := e.onState
	e.mu.Unlock()

	speaker.Play(beep.Seq(e.ctrl, beep.Callback(func() {
		e.mu.Lock()
		e.isPlaying = false
		e.isPaused = false
		endCb := e.onState
		e.mu.Unlock()
		e.fireState(endCb, false, false)
		log.Debug().Msg("Stream ended")
	})))

	e.fireState(cb, true, false)
	return nil
}

func (e *Engine) fireState(cb func(playing, paused bool), playing, paused bool) {
	if cb != nil {
		cb(playing, paused)
	}
}

// resolveMediaURLs follows playlist files down to plain media URLs.
// Non-playlist URLs come back as a single-element list unchanged.
func (e *Engine) resolveMediaURLs(ctx context.Context, streamURL string, depth int) ([]string, error) {
	if !isPlaylistURL(streamURL) {
		return []string{streamURL}, nil
	}
	if depth >= maxPlaylistHops {
		return nil, fmt.Errorf("playlist nesting too deep at %s", streamURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, streamURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create playlist request: %w", err)
	}
	resp, err := e.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch playlist: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("playlist returned status %d: %s", resp.StatusCode, resp.Status)
	}

	entries, err := parsePlaylist(resp.Body)
	if err != nil {
		return nil, err
	}

	var urls []string
	for _, entry := range entries {
		resolved, err := e.resolveMediaURLs(ctx, entry, depth+1)
		if err != nil {
			log.Debug().Err(err).Str("url", entry).Msg("Skipping playlist entry")
			continue
		}
		urls = append(urls, resolved...)
	}
	if len(urls) == 0 {
		return nil, fmt.Errorf("no usable entries in playlist %s", streamURL)
	}
	return urls, nil
}

func isPlaylistURL(streamURL string) bool {
	trimmed := streamURL
	if i := strings.IndexAny(trimmed, "?#"); i >= 0 {
		trimmed = trimmed[:i]
	}
	lower := strings.ToLower(trimmed)
	return strings.HasSuffix(lower, ".pls") ||
		strings.HasSuffix(lower, ".m3u") ||
		strings.HasSuffix(lower, ".m3u8")
}

// parsePlaylist extracts entry URLs from PLS (File1=...) and M3U
// (one URL per non-comment line) payloads.
func parsePlaylist(r io.Reader) ([]string, error) {
	var urls []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "["):
			continue
		case strings.HasPrefix(line, "File") && strings.Contains(line, "="):
			parts := strings.SplitN(line, "=", 2)
			if url := strings.TrimSpace(parts[1]); url != "" {
				urls = append(urls, url)
			}
		case strings.Contains(line, "="):
			// Other PLS keys (Title1, Length1, NumberOfEntries).
			continue
		case strings.HasPrefix(line, "http://") || strings.HasPrefix(line, "https://"):
			urls = append(urls, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading playlist: %w", err)
	}
	if len(urls) == 0 {
		return nil, errors.New("no stream URL found in playlist")
	}
	return urls, nil
}

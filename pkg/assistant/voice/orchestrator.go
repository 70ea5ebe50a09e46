package voice

import (
	"context"
	"log"
	"strings"
	"sync"
	"time"

	"wevysya-assistant-be/internal/constant"
	"wevysya-assistant-be/pkg/assistant/action"
	"wevysya-assistant-be/pkg/assistant/intent"
	"wevysya-assistant-be/pkg/speech"
	"wevysya-assistant-be/pkg/store"
)

// Pipeline is the routing core as seen from the state machine. Both calls
// are total: classification failures resolve internally to fallback intents
// and execution failures come back as structured results.
type Pipeline interface {
	Classify(ctx context.Context, query string) *intent.Intent
	Execute(ctx context.Context, it *intent.Intent) *action.Result
}

// SessionStore persists ephemeral per-session state
type SessionStore interface {
	Save(session *store.VoiceSession)
	Get(sessionID string) (*store.VoiceSession, bool)
	Delete(sessionID string)
}

// Listener receives UI-facing callbacks
type Listener interface {
	StateChanged(session *store.VoiceSession)
	Navigate(screen string, params intent.Params)
}

// NopListener discards all callbacks
type NopListener struct{}

func (NopListener) StateChanged(*store.VoiceSession)   {}
func (NopListener) Navigate(string, intent.Params)     {}

// Config holds the state machine's timing knobs
type Config struct {
	// CaptureTimeout auto-stops audio capture
	CaptureTimeout time.Duration
	// NavigationDelay lets the spoken/visual response register before the
	// screen changes. UX tuning value, not a correctness requirement.
	NavigationDelay time.Duration
	// ErrorDisplayDelay holds the error state before returning to idle
	ErrorDisplayDelay time.Duration
}

func DefaultConfig() Config {
	return Config{
		CaptureTimeout:    5 * time.Second,
		NavigationDelay:   1500 * time.Millisecond,
		ErrorDisplayDelay: 2 * time.Second,
	}
}

// Orchestrator drives the per-session assistant state machine:
// idle -> listening -> thinking -> responding -> idle, with error reachable
// from any state and always returning to idle. One utterance is processed at
// a time per session; a second trigger while listening means "stop and
// process now", not a concurrent capture.
type Orchestrator struct {
	pipeline Pipeline
	recorder speech.Recorder
	speaker  speech.Speaker
	sessions SessionStore
	listener Listener
	cfg      Config
	logger   *log.Logger

	mu     sync.Mutex
	closed bool
	gen    map[string]int
	timers map[string]*time.Timer
}

func NewOrchestrator(
	pipeline Pipeline,
	recorder speech.Recorder,
	speaker speech.Speaker,
	sessions SessionStore,
	listener Listener,
	cfg Config,
	logger *log.Logger,
) *Orchestrator {
	if listener == nil {
		listener = NopListener{}
	}
	if speaker == nil {
		speaker = speech.NopSpeaker{}
	}
	return &Orchestrator{
		pipeline: pipeline,
		recorder: recorder,
		speaker:  speaker,
		sessions: sessions,
		listener: listener,
		cfg:      cfg,
		logger:   logger,
		gen:      make(map[string]int),
		timers:   make(map[string]*time.Timer),
	}
}

// ToggleListening handles the mic trigger. From idle it starts capture with
// an auto-stop timeout; while listening it stops capture and processes the
// transcript; in any other state the trigger is ignored.
func (o *Orchestrator) ToggleListening(ctx context.Context, sessionID, userID string) *store.VoiceSession {
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return nil
	}
	session := o.getOrCreateLocked(sessionID, userID)

	switch session.State {
	case store.StateIdle:
		if err := o.recorder.Start(ctx); err != nil {
			o.logger.Printf("[ERROR] Failed to start capture: %v", err)
			o.mu.Unlock()
			o.toError(sessionID, constant.ProcessingFailedMessage)
			s, _ := o.sessions.Get(sessionID)
			return s
		}
		myGen := o.beginUtteranceLocked(sessionID)
		o.transitionLocked(session, store.StateListening)
		o.timers[sessionID] = time.AfterFunc(o.cfg.CaptureTimeout, func() {
			o.stopAndProcess(sessionID, myGen)
		})
		o.mu.Unlock()
		return session

	case store.StateListening:
		myGen := o.gen[sessionID]
		o.mu.Unlock()
		o.stopAndProcess(sessionID, myGen)
		s, _ := o.sessions.Get(sessionID)
		return s

	default:
		// Busy with the previous utterance; triggers are not queued
		o.mu.Unlock()
		return session
	}
}

// SubmitText is the text entry point; it skips the listening phase entirely
func (o *Orchestrator) SubmitText(ctx context.Context, sessionID, userID, text string) *store.VoiceSession {
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return nil
	}
	session := o.getOrCreateLocked(sessionID, userID)
	if session.State != store.StateIdle {
		o.mu.Unlock()
		return session
	}
	if strings.TrimSpace(text) == "" {
		o.mu.Unlock()
		o.toError(sessionID, constant.NoSpeechDetectedMessage)
		s, _ := o.sessions.Get(sessionID)
		return s
	}
	o.beginUtteranceLocked(sessionID)
	o.mu.Unlock()

	o.process(sessionID, text)
	s, _ := o.sessions.Get(sessionID)
	return s
}

// Session exposes the current state for polling clients
func (o *Orchestrator) Session(sessionID string) (*store.VoiceSession, bool) {
	return o.sessions.Get(sessionID)
}

// Close tears the orchestrator down: capture timers are cancelled and
// playback stops. In-flight classifier calls are allowed to complete; their
// results are discarded by the generation check.
func (o *Orchestrator) Close() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return
	}
	o.closed = true
	for id, t := range o.timers {
		t.Stop()
		delete(o.timers, id)
	}
	o.speaker.Stop()
}

// stopAndProcess moves listening -> thinking via the transcript
func (o *Orchestrator) stopAndProcess(sessionID string, expectGen int) {
	o.mu.Lock()
	session, ok := o.sessions.Get(sessionID)
	if !ok || o.closed || o.gen[sessionID] != expectGen || session.State != store.StateListening {
		o.mu.Unlock()
		return
	}
	o.cancelTimerLocked(sessionID)
	o.mu.Unlock()

	transcript, err := o.recorder.StopAndTranscribe(context.Background())
	if err != nil || strings.TrimSpace(transcript) == "" {
		if err != nil {
			o.logger.Printf("[WARN] Transcription failed: %v", err)
		}
		o.toError(sessionID, constant.NoSpeechDetectedMessage)
		return
	}

	o.process(sessionID, transcript)
}

// process runs the thinking and responding phases for one utterance
func (o *Orchestrator) process(sessionID, query string) {
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return
	}
	session, ok := o.sessions.Get(sessionID)
	if !ok {
		o.mu.Unlock()
		return
	}
	session.LastQuery = query
	o.transitionLocked(session, store.StateThinking)
	myGen := o.gen[sessionID]
	o.mu.Unlock()

	go func() {
		defer func() {
			// Top-level catch for bugs the inner layers did not absorb
			if r := recover(); r != nil {
				o.logger.Printf("[ERROR] Assistant processing panicked: %v", r)
				o.toError(sessionID, constant.ProcessingFailedMessage)
			}
		}()

		resolved := o.pipeline.Classify(context.Background(), query)

		if !o.alive(sessionID, myGen) {
			// Torn down or superseded while the call was in flight
			return
		}

		o.respond(sessionID, myGen, resolved)
	}()
}

// respond surfaces the response, speaks it, and schedules navigation
func (o *Orchestrator) respond(sessionID string, myGen int, resolved *intent.Intent) {
	o.mu.Lock()
	session, ok := o.sessions.Get(sessionID)
	if !ok || o.closed || o.gen[sessionID] != myGen {
		o.mu.Unlock()
		return
	}
	session.ResponseText = resolved.Response
	o.transitionLocked(session, store.StateResponding)
	o.mu.Unlock()

	// Playback is fire-and-forget with respect to the state machine
	go func() {
		if err := o.speaker.Speak(context.Background(), resolved.Response); err != nil {
			o.logger.Printf("[WARN] Speech playback failed: %v", err)
		}
	}()

	o.mu.Lock()
	o.timers[sessionID] = time.AfterFunc(o.cfg.NavigationDelay, func() {
		if !o.alive(sessionID, myGen) {
			return
		}
		if resolved.Executable() {
			result := o.pipeline.Execute(context.Background(), resolved)
			if result.Navigation && o.alive(sessionID, myGen) {
				o.listener.Navigate(result.Screen, resolved.Action.Parameters)
			}
		}
		o.toIdle(sessionID)
	})
	o.mu.Unlock()
}

func (o *Orchestrator) toError(sessionID, message string) {
	o.mu.Lock()
	session, ok := o.sessions.Get(sessionID)
	if !ok || o.closed {
		o.mu.Unlock()
		return
	}
	o.cancelTimerLocked(sessionID)
	session.ErrorText = message
	o.transitionLocked(session, store.StateError)
	myGen := o.gen[sessionID]
	o.timers[sessionID] = time.AfterFunc(o.cfg.ErrorDisplayDelay, func() {
		if o.alive(sessionID, myGen) {
			o.toIdle(sessionID)
		}
	})
	o.mu.Unlock()
}

func (o *Orchestrator) toIdle(sessionID string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	session, ok := o.sessions.Get(sessionID)
	if !ok || o.closed {
		return
	}
	o.cancelTimerLocked(sessionID)
	session.ErrorText = ""
	o.transitionLocked(session, store.StateIdle)
}

func (o *Orchestrator) alive(sessionID string, expectGen int) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return !o.closed && o.gen[sessionID] == expectGen
}

func (o *Orchestrator) getOrCreateLocked(sessionID, userID string) *store.VoiceSession {
	if session, ok := o.sessions.Get(sessionID); ok {
		return session
	}
	session := &store.VoiceSession{
		ID:     sessionID,
		UserID: userID,
		State:  store.StateIdle,
	}
	o.sessions.Save(session)
	return session
}

// beginUtteranceLocked advances the session generation. Async work spawned
// for a previous utterance (late classifier results, expired timers) checks
// its generation before applying and so becomes a no-op.
func (o *Orchestrator) beginUtteranceLocked(sessionID string) int {
	o.gen[sessionID]++
	return o.gen[sessionID]
}

func (o *Orchestrator) transitionLocked(session *store.VoiceSession, state string) {
	session.State = state
	o.sessions.Save(session)
	o.listener.StateChanged(session)
	o.logger.Printf("[VOICE] Session %s -> %s", session.ID, state)
}

func (o *Orchestrator) cancelTimerLocked(sessionID string) {
	if t, ok := o.timers[sessionID]; ok {
		t.Stop()
		delete(o.timers, sessionID)
	}
}

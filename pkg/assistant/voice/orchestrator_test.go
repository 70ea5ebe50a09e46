package voice

import (
	"context"
	"errors"
	"io"
	"log"
	"sync"
	"testing"
	"time"

	"wevysya-assistant-be/internal/constant"
	"wevysya-assistant-be/pkg/assistant/action"
	"wevysya-assistant-be/pkg/assistant/intent"
	"wevysya-assistant-be/pkg/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	pollInterval = 2 * time.Millisecond
	waitFor      = 2 * time.Second
)

func testConfig() Config {
	return Config{
		CaptureTimeout:    50 * time.Millisecond,
		NavigationDelay:   10 * time.Millisecond,
		ErrorDisplayDelay: 10 * time.Millisecond,
	}
}

type fakePipeline struct {
	resolved *intent.Intent
	result   *action.Result
	proceed  chan struct{} // when set, Classify blocks until closed

	mu       sync.Mutex
	executed int
}

func (f *fakePipeline) Classify(ctx context.Context, query string) *intent.Intent {
	if f.proceed != nil {
		<-f.proceed
	}
	if f.resolved != nil {
		return f.resolved
	}
	return &intent.Intent{
		Type:       intent.TypeKnowledge,
		Category:   "general",
		Response:   "answer for " + query,
		Confidence: 0.5,
	}
}

func (f *fakePipeline) Execute(ctx context.Context, it *intent.Intent) *action.Result {
	f.mu.Lock()
	f.executed++
	f.mu.Unlock()
	if f.result != nil {
		return f.result
	}
	return &action.Result{Success: true, NoOp: true}
}

func (f *fakePipeline) executeCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.executed
}

type fakeRecorder struct {
	startErr   error
	transcript string
	err        error
}

func (f *fakeRecorder) Start(ctx context.Context) error { return f.startErr }

func (f *fakeRecorder) StopAndTranscribe(ctx context.Context) (string, error) {
	return f.transcript, f.err
}

type fakeSpeaker struct {
	mu      sync.Mutex
	spoken  []string
	stopped int
}

func (f *fakeSpeaker) Speak(ctx context.Context, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.spoken = append(f.spoken, text)
	return nil
}

func (f *fakeSpeaker) Stop() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stopped++
}

func (f *fakeSpeaker) stopCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stopped
}

type memStore struct {
	mu       sync.Mutex
	sessions map[string]*store.VoiceSession
}

func newMemStore() *memStore {
	return &memStore{sessions: map[string]*store.VoiceSession{}}
}

func (m *memStore) Save(session *store.VoiceSession) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[session.ID] = session
}

func (m *memStore) Get(sessionID string) (*store.VoiceSession, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[sessionID]
	return s, ok
}

func (m *memStore) Delete(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, sessionID)
}

type recListener struct {
	mu     sync.Mutex
	states []string
	navs   []string
}

func (l *recListener) StateChanged(session *store.VoiceSession) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.states = append(l.states, session.State)
}

func (l *recListener) Navigate(screen string, params intent.Params) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.navs = append(l.navs, screen)
}

func (l *recListener) seenStates() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, len(l.states))
	copy(out, l.states)
	return out
}

func (l *recListener) navigations() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, len(l.navs))
	copy(out, l.navs)
	return out
}

type fixture struct {
	orch     *Orchestrator
	pipeline *fakePipeline
	recorder *fakeRecorder
	speaker  *fakeSpeaker
	sessions *memStore
	listener *recListener
}

func newFixture(pipeline *fakePipeline, recorder *fakeRecorder) *fixture {
	speaker := &fakeSpeaker{}
	sessions := newMemStore()
	listener := &recListener{}
	orch := NewOrchestrator(
		pipeline,
		recorder,
		speaker,
		sessions,
		listener,
		testConfig(),
		log.New(io.Discard, "", 0),
	)
	return &fixture{orch: orch, pipeline: pipeline, recorder: recorder, speaker: speaker, sessions: sessions, listener: listener}
}

func (f *fixture) waitForState(t *testing.T, sessionID, state string) {
	t.Helper()
	assert.Eventually(t, func() bool {
		s, ok := f.sessions.Get(sessionID)
		return ok && s.State == state
	}, waitFor, pollInterval, "session never reached state %q", state)
}

func TestSubmitTextKnowledgeFlow(t *testing.T) {
	f := newFixture(&fakePipeline{}, &fakeRecorder{})
	defer f.orch.Close()

	f.orch.SubmitText(context.Background(), "s1", "u1", "what is wevysya")

	f.waitForState(t, "s1", store.StateIdle)

	s, _ := f.sessions.Get("s1")
	assert.Equal(t, "answer for what is wevysya", s.ResponseText)
	assert.Equal(t, "what is wevysya", s.LastQuery)

	states := f.listener.seenStates()
	assert.Contains(t, states, store.StateThinking)
	assert.Contains(t, states, store.StateResponding)
	assert.Empty(t, f.listener.navigations())
}

func TestSubmitTextActionNavigatesAfterDelay(t *testing.T) {
	resolved := &intent.Intent{
		Type:     intent.TypeAction,
		Category: "view_deals",
		Action: &intent.Action{
			Name:       "view_deals",
			Parameters: intent.RawParams{},
			Screen:     "/(tabs)/deals",
		},
		Response:   "Here are the deals.",
		Confidence: 0.9,
	}
	pipeline := &fakePipeline{
		resolved: resolved,
		result:   &action.Result{Success: true, Navigation: true, Screen: "/(tabs)/deals"},
	}
	f := newFixture(pipeline, &fakeRecorder{})
	defer f.orch.Close()

	f.orch.SubmitText(context.Background(), "s1", "u1", "show me deals")

	f.waitForState(t, "s1", store.StateIdle)

	assert.Equal(t, []string{"/(tabs)/deals"}, f.listener.navigations())
	assert.Equal(t, 1, pipeline.executeCount())
}

func TestSubmitTextEmptyGoesToError(t *testing.T) {
	f := newFixture(&fakePipeline{}, &fakeRecorder{})
	defer f.orch.Close()

	s := f.orch.SubmitText(context.Background(), "s1", "u1", "   ")

	require.NotNil(t, s)
	assert.Equal(t, store.StateError, s.State)
	assert.Equal(t, constant.NoSpeechDetectedMessage, s.ErrorText)

	// Error auto-returns to idle and the message is cleared
	f.waitForState(t, "s1", store.StateIdle)
	s, _ = f.sessions.Get("s1")
	assert.Empty(t, s.ErrorText)
}

func TestSubmitTextIgnoredWhileBusy(t *testing.T) {
	pipeline := &fakePipeline{proceed: make(chan struct{})}
	f := newFixture(pipeline, &fakeRecorder{})
	defer f.orch.Close()

	f.orch.SubmitText(context.Background(), "s1", "u1", "first")
	f.waitForState(t, "s1", store.StateThinking)

	s := f.orch.SubmitText(context.Background(), "s1", "u1", "second")
	assert.Equal(t, store.StateThinking, s.State)

	close(pipeline.proceed)
	f.waitForState(t, "s1", store.StateIdle)

	got, _ := f.sessions.Get("s1")
	assert.Equal(t, "first", got.LastQuery, "second submit must not replace the in-flight utterance")
}

func TestToggleStartsAndStopsListening(t *testing.T) {
	f := newFixture(&fakePipeline{}, &fakeRecorder{transcript: "find a jeweller"})
	defer f.orch.Close()

	s := f.orch.ToggleListening(context.Background(), "s1", "u1")
	require.NotNil(t, s)
	assert.Equal(t, store.StateListening, s.State)

	f.orch.ToggleListening(context.Background(), "s1", "u1")

	f.waitForState(t, "s1", store.StateIdle)
	got, _ := f.sessions.Get("s1")
	assert.Equal(t, "find a jeweller", got.LastQuery)
	assert.Contains(t, f.listener.seenStates(), store.StateThinking)
}

func TestCaptureTimeoutAutoStops(t *testing.T) {
	f := newFixture(&fakePipeline{}, &fakeRecorder{transcript: "hello there"})
	defer f.orch.Close()

	f.orch.ToggleListening(context.Background(), "s1", "u1")

	// No second toggle: the capture timeout fires and processing runs
	f.waitForState(t, "s1", store.StateIdle)
	got, _ := f.sessions.Get("s1")
	assert.Equal(t, "hello there", got.LastQuery)
}

func TestNoSpeechTranscriptGoesToError(t *testing.T) {
	f := newFixture(&fakePipeline{}, &fakeRecorder{err: errors.New("no speech detected")})
	defer f.orch.Close()

	f.orch.ToggleListening(context.Background(), "s1", "u1")
	f.orch.ToggleListening(context.Background(), "s1", "u1")

	f.waitForState(t, "s1", store.StateIdle)
	assert.Contains(t, f.listener.seenStates(), store.StateError)
	assert.NotContains(t, f.listener.seenStates(), store.StateThinking)
}

func TestRecorderStartFailureGoesToError(t *testing.T) {
	f := newFixture(&fakePipeline{}, &fakeRecorder{startErr: errors.New("mic busy")})
	defer f.orch.Close()

	f.orch.ToggleListening(context.Background(), "s1", "u1")

	assert.Eventually(t, func() bool {
		s, ok := f.sessions.Get("s1")
		return ok && s.ErrorText == constant.ProcessingFailedMessage
	}, waitFor, pollInterval)
}

func TestToggleIgnoredWhileThinking(t *testing.T) {
	pipeline := &fakePipeline{proceed: make(chan struct{})}
	f := newFixture(pipeline, &fakeRecorder{})
	defer f.orch.Close()

	f.orch.SubmitText(context.Background(), "s1", "u1", "question")
	f.waitForState(t, "s1", store.StateThinking)

	s := f.orch.ToggleListening(context.Background(), "s1", "u1")
	assert.Equal(t, store.StateThinking, s.State)

	close(pipeline.proceed)
	f.waitForState(t, "s1", store.StateIdle)
}

func TestCloseDiscardsLateClassification(t *testing.T) {
	pipeline := &fakePipeline{proceed: make(chan struct{})}
	f := newFixture(pipeline, &fakeRecorder{})

	f.orch.SubmitText(context.Background(), "s1", "u1", "question")
	f.waitForState(t, "s1", store.StateThinking)

	f.orch.Close()
	close(pipeline.proceed)

	// The late result must not surface: no responding transition, no speech
	time.Sleep(30 * time.Millisecond)
	s, _ := f.sessions.Get("s1")
	assert.Equal(t, store.StateThinking, s.State)
	assert.NotContains(t, f.listener.seenStates(), store.StateResponding)
	assert.GreaterOrEqual(t, f.speaker.stopCount(), 1)
}

func TestCloseMakesTriggersNoOps(t *testing.T) {
	f := newFixture(&fakePipeline{}, &fakeRecorder{})
	f.orch.Close()

	assert.Nil(t, f.orch.ToggleListening(context.Background(), "s1", "u1"))
	assert.Nil(t, f.orch.SubmitText(context.Background(), "s1", "u1", "hi"))
}

func TestSpeakerReceivesResponse(t *testing.T) {
	f := newFixture(&fakePipeline{}, &fakeRecorder{})
	defer f.orch.Close()

	f.orch.SubmitText(context.Background(), "s1", "u1", "hello")
	f.waitForState(t, "s1", store.StateIdle)

	assert.Eventually(t, func() bool {
		f.speaker.mu.Lock()
		defer f.speaker.mu.Unlock()
		return len(f.speaker.spoken) == 1 && f.speaker.spoken[0] == "answer for hello"
	}, waitFor, pollInterval)
}

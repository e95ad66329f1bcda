package callback

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/planify/planify/authenticator"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// recordingTimer fires immediately and remembers every requested wait.
type recordingTimer struct {
	mu     sync.Mutex
	delays []time.Duration
}

func (t *recordingTimer) After(d time.Duration) <-chan time.Time {
	t.mu.Lock()
	t.delays = append(t.delays, d)
	t.mu.Unlock()

	ch := make(chan time.Time, 1)
	ch <- time.Now()
	return ch
}

func (t *recordingTimer) Delays() []time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]time.Duration(nil), t.delays...)
}

// scriptedProber returns results in order and repeats the last one.
type scriptedProber struct {
	mu      sync.Mutex
	results []ProbeResult
	calls   int
	onCall  func(n int)
}

func (p *scriptedProber) Probe(context.Context, *Request) ProbeResult {
	p.mu.Lock()
	n := p.calls
	p.calls++
	hook := p.onCall
	p.mu.Unlock()

	if hook != nil {
		hook(n + 1)
	}
	if n >= len(p.results) {
		return p.results[len(p.results)-1]
	}
	return p.results[n]
}

func (p *scriptedProber) Calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

type navRecorder struct {
	mu      sync.Mutex
	targets []string
}

func (n *navRecorder) Replace(target string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.targets = append(n.targets, target)
}

func (n *navRecorder) Targets() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.targets...)
}

type memStore struct {
	mu      sync.Mutex
	slots   map[string]*Session
	saves   int
	saveErr error
}

func newMemStore() *memStore {
	return &memStore{slots: map[string]*Session{}}
}

func (m *memStore) Save(_ context.Context, deviceID, key string, s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	if deviceID == "" {
		return errors.New("device id is required")
	}
	m.saves++
	cp := *s
	m.slots[deviceID+"/"+key] = &cp
	return nil
}

func (m *memStore) Load(_ context.Context, deviceID, key string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.slots[deviceID+"/"+key]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

type mockProvider struct {
	mock.Mock
}

func (m *mockProvider) GetAuthURL(state, verifier string) string {
	return m.Called(state, verifier).String(0)
}

func (m *mockProvider) ExchangeCode(ctx context.Context, code, verifier string) (*authenticator.Token, error) {
	args := m.Called(ctx, code, verifier)
	tok, _ := args.Get(0).(*authenticator.Token)
	return tok, args.Error(1)
}

func (m *mockProvider) GetClaims(ctx context.Context, token *authenticator.Token) (authenticator.Claims, error) {
	args := m.Called(ctx, token)
	claims, _ := args.Get(0).(authenticator.Claims)
	return claims, args.Error(1)
}

func (m *mockProvider) UserInfo(ctx context.Context, accessToken string) (authenticator.Claims, error) {
	args := m.Called(ctx, accessToken)
	claims, _ := args.Get(0).(authenticator.Claims)
	return claims, args.Error(1)
}

func (m *mockProvider) Refresh(ctx context.Context, refreshToken string) (*authenticator.Token, error) {
	args := m.Called(ctx, refreshToken)
	tok, _ := args.Get(0).(*authenticator.Token)
	return tok, args.Error(1)
}

var (
	noSession = ProbeResult{Status: NoSessionYet}
	found     = ProbeResult{Status: SessionFound, Strategy: "code_exchange", Session: &Session{AccessToken: "at"}}
)

package browser

import (
	"sync"
	"time"

	"github.com/playwright-community/playwright-go"

	"github.com/Seebrasse345/linkedin-auto-apply/utils"
)

// StateSaver persists the current browser storage state to a path.
type StateSaver interface {
	SaveState(path string) error
}

type contextStateSaver struct {
	ctx playwright.BrowserContext
}

func (c contextStateSaver) SaveState(path string) error {
	_, err := c.ctx.StorageState(path)
	return err
}

// SessionService owns periodic persistence of the browser session state.
// It is constructed once and passed by reference; the periodic save runs
// as a cancellable goroutine, and callers may force an immediate save
// after key events.
type SessionService struct {
	saver    StateSaver
	path     string
	interval time.Duration

	mu       sync.Mutex
	lastSave time.Time

	started  bool
	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

func NewSessionService(ctx playwright.BrowserContext, path string, interval time.Duration) *SessionService {
	return newSessionService(contextStateSaver{ctx: ctx}, path, interval)
}

func newSessionService(saver StateSaver, path string, interval time.Duration) *SessionService {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &SessionService{
		saver:    saver,
		path:     path,
		interval: interval,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start launches the periodic save loop. Safe to call once.
func (s *SessionService) Start() {
	s.started = true
	go func() {
		defer close(s.done)
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.SaveNow(false)
			case <-s.stop:
				return
			}
		}
	}()
}

// Stop cancels the periodic save loop and waits for it to exit.
func (s *SessionService) Stop() {
	s.stopOnce.Do(func() { close(s.stop) })
	if s.started {
		<-s.done
	}
}

// SaveNow persists the session state. Unforced saves are throttled to half
// the periodic interval so event-driven saves do not hammer the disk;
// force bypasses the throttle. Returns true when a save was written.
func (s *SessionService) SaveNow(force bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !force && time.Since(s.lastSave) < s.interval/2 {
		return false
	}

	if err := s.saver.SaveState(s.path); err != nil {
		utils.Log.Warnf("Failed to save session state to %s: %v", s.path, err)
		return false
	}
	s.lastSave = time.Now()
	utils.Log.Debugf("Session state saved to %s", s.path)
	return true
}

package browser

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type countingSaver struct {
	mu    sync.Mutex
	saves int
	err   error
}

func (c *countingSaver) SaveState(path string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.saves++
	return c.err
}

func (c *countingSaver) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.saves
}

func TestSessionService_SaveNowThrottlesUnforcedSaves(t *testing.T) {
	saver := &countingSaver{}
	svc := newSessionService(saver, "state.json", time.Hour)

	assert.True(t, svc.SaveNow(false), "first save is never throttled")
	assert.False(t, svc.SaveNow(false), "second unforced save inside the window is skipped")
	assert.Equal(t, 1, saver.count())
}

func TestSessionService_ForceBypassesThrottle(t *testing.T) {
	saver := &countingSaver{}
	svc := newSessionService(saver, "state.json", time.Hour)

	assert.True(t, svc.SaveNow(false))
	assert.True(t, svc.SaveNow(true))
	assert.True(t, svc.SaveNow(true))
	assert.Equal(t, 3, saver.count())
}

func TestSessionService_SaveErrorReportsFalse(t *testing.T) {
	saver := &countingSaver{err: fmt.Errorf("disk full")}
	svc := newSessionService(saver, "state.json", time.Hour)

	assert.False(t, svc.SaveNow(true))
	// A failed save must not arm the throttle.
	saver.err = nil
	assert.True(t, svc.SaveNow(false))
}

func TestSessionService_PeriodicLoop(t *testing.T) {
	saver := &countingSaver{}
	svc := newSessionService(saver, "state.json", 10*time.Millisecond)

	svc.Start()
	time.Sleep(60 * time.Millisecond)
	svc.Stop()

	assert.Greater(t, saver.count(), 0)
}

func TestSessionService_StopWithoutStart(t *testing.T) {
	svc := newSessionService(&countingSaver{}, "state.json", time.Hour)
	// Must not block waiting for a loop that never ran.
	svc.Stop()
}

package autopilot

import (
	"context"
	"time"
)

// Toggle flips automation on or off and returns the new state. Arming sets
// the first deadline and starts polling; disarming clears the deadline and
// stops polling but lets a running cycle finish.
func (a *Autopilot) Toggle() bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.active {
		a.disarmLocked()
	} else {
		a.armLocked()
	}
	return a.active
}

// SetActive arms or disarms automation. It is a no-op when already in the
// requested state.
func (a *Autopilot) SetActive(on bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	switch {
	case on && !a.active:
		a.armLocked()
	case !on && a.active:
		a.disarmLocked()
	}
}

func (a *Autopilot) armLocked() {
	if a.closed {
		return
	}
	a.active = true
	a.logf("News Agent ENABLED.")
	if !a.generating {
		next := a.firstDeadline(a.now())
		a.nextRun = &next
	}
	a.startPollingLocked()
}

func (a *Autopilot) disarmLocked() {
	a.active = false
	a.nextRun = nil
	a.stopPollingLocked()
	a.logf("News Agent PAUSED.")
}

// firstDeadline is the deadline used when none is pending. An empty feed
// runs immediately instead of waiting a full interval.
func (a *Autopilot) firstDeadline(now time.Time) time.Time {
	if len(a.Articles()) == 0 {
		return now
	}
	return now.Add(a.interval)
}

func (a *Autopilot) startPollingLocked() {
	if a.stopPoll != nil {
		return
	}
	ctx, cancel := context.WithCancel(a.ctx)
	a.stopPoll = cancel
	a.wg.Add(1)
	go a.poll(ctx)
}

func (a *Autopilot) stopPollingLocked() {
	if a.stopPoll != nil {
		a.stopPoll()
		a.stopPoll = nil
	}
}

func (a *Autopilot) poll(ctx context.Context) {
	defer a.wg.Done()

	ticker := time.NewTicker(a.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			a.tick()
		}
	}
}

// tick checks the deadline against a fresh view of the state and starts a
// cycle when it is due. It never waits for the cycle.
func (a *Autopilot) tick() bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.active || a.generating {
		return false
	}
	now := a.now()
	if a.nextRun == nil {
		next := a.firstDeadline(now)
		a.nextRun = &next
	}
	if now.Before(*a.nextRun) {
		return false
	}
	if !a.beginLocked() {
		return false
	}
	go a.execute(a.ctx)
	return true
}

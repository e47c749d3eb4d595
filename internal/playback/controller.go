// ABOUTME: Playback controller owning the single active session
// ABOUTME: Start runs in the main loop; Advance runs in the engine tick; the active flag coordinates
package playback

import (
	"errors"
	"io"
	"log"
	"sync/atomic"

	"github.com/google/uuid"
)

// ErrNoLibrary is returned by Start when the audio library failed to mount.
var ErrNoLibrary = errors.New("audio library unavailable")

// Controller owns the currently open audio session. At most one session is
// active at a time. Start is only called from the main loop and only takes
// effect while inactive; Advance is only called from the engine tick and
// only while active. The active flag is the single point of coordination:
// all other session fields are written while transitioning it.
type Controller struct {
	library     *Library
	carrierRate int

	active atomic.Bool
	read   atomic.Int64

	// session is swapped whole on Start so concurrent Status readers
	// never see the name of one session paired with the length of
	// another.
	session atomic.Pointer[sessionInfo]

	// Stream state. Written in Start before active goes true and in
	// finish before active goes false; read only while active.
	stream  io.ReadCloser
	lastErr error
	buf     [1]byte
}

// sessionInfo is the immutable identity of one playback session.
type sessionInfo struct {
	name   string
	id     string
	length int64
}

// NewController creates a controller. library may be nil, in which case
// Start always fails with ErrNoLibrary. carrierRate is used only to report
// durations in logs.
func NewController(library *Library, carrierRate int) *Controller {
	return &Controller{
		library:     library,
		carrierRate: carrierRate,
	}
}

// Start opens the named resource and marks the session active. Calling
// Start while a session is active is a no-op: the running session is
// untouched and no resource is reopened.
func (c *Controller) Start(name string) error {
	if c.active.Load() {
		return nil
	}

	if c.library == nil {
		return ErrNoLibrary
	}

	stream, length, err := c.library.Resource(name)
	if err != nil {
		return err
	}

	info := &sessionInfo{
		name:   name,
		id:     uuid.New().String(),
		length: length,
	}

	c.stream = stream
	c.lastErr = nil
	c.read.Store(0)
	c.session.Store(info)

	log.Printf("Playback started: %s (%d bytes, %.2fs) session=%s",
		name, length, float64(length)/float64(c.carrierRate), info.id)

	c.active.Store(true)

	return nil
}

// Advance reads the next sample byte of the open session. While bytes
// remain it returns (byte, false). On exhaustion or read failure it closes
// the resource, clears the active flag and returns (0, true) exactly once.
// Runs in the engine tick: no allocation, one bounded read, never blocks
// beyond that read.
func (c *Controller) Advance() (byte, bool) {
	if !c.active.Load() || c.stream == nil {
		return 0, true
	}

	n, err := c.stream.Read(c.buf[:])
	if n == 1 {
		c.read.Add(1)
		return c.buf[0], false
	}

	// EOF or read failure. Either way the session is over; a failure is
	// never retried.
	if err != nil && err != io.EOF {
		c.lastErr = err
	}
	c.finish()

	return 0, true
}

// finish closes the resource and clears session state, then drops the
// active flag. Ordering matters: the flag goes false last so Start never
// observes a half-torn session.
func (c *Controller) finish() {
	if c.stream != nil {
		c.stream.Close()
		c.stream = nil
	}
	c.active.Store(false)
}

// IsActive reports whether a session is active.
func (c *Controller) IsActive() bool {
	return c.active.Load()
}

// HasLibrary reports whether file playback is available at all.
func (c *Controller) HasLibrary() bool {
	return c.library != nil
}

// LastError returns the read failure that ended the most recent session,
// or nil if it ended by natural exhaustion. Read from the main loop after
// the finished notification.
func (c *Controller) LastError() error {
	return c.lastErr
}

// Status reports the most recently started session for logging and remote
// status. Safe to call from any goroutine; the identity fields come from a
// single atomic snapshot.
func (c *Controller) Status() (name, id string, position, length int64) {
	s := c.session.Load()
	if s == nil {
		return "", "", 0, 0
	}
	return s.name, s.id, c.read.Load(), s.length
}

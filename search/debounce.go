package search

import (
	"regexp"
	"strings"
	"sync"
	"time"
)

// DefaultDelay is the quiet period after the last keystroke before a query
// fires.
const DefaultDelay = 300 * time.Millisecond

// MinLength is the shortest non-empty term worth querying for.
const MinLength = 3

var dateLiteral = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// Eligible reports whether a term is worth querying for: an empty term (the
// cleared box), anything of MinLength or more, or a full date literal.
func Eligible(term string) bool {
	term = strings.TrimSpace(term)
	return term == "" || len(term) >= MinLength || dateLiteral.MatchString(term)
}

// Debouncer gates search-driven list queries. Terms are debounced over the
// quiet period so typing doesn't issue a request per keystroke; an empty term
// (cleared box) and terms of MinLength or more are eligible, anything shorter
// is dropped. A full date literal (YYYY-MM-DD) bypasses the debounce and
// fires immediately, cancelling any pending query.
type Debouncer struct {
	delay time.Duration
	fire  func(term string)

	mu    sync.Mutex
	timer *time.Timer
}

func NewDebouncer(delay time.Duration, fire func(term string)) *Debouncer {
	if delay <= 0 {
		delay = DefaultDelay
	}
	return &Debouncer{delay: delay, fire: fire}
}

// Input feeds one search-box change into the gate.
func (d *Debouncer) Input(term string) {
	term = strings.TrimSpace(term)

	d.mu.Lock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}

	if dateLiteral.MatchString(term) {
		d.mu.Unlock()
		d.fire(term)
		return
	}

	if term != "" && len(term) < MinLength {
		d.mu.Unlock()
		return
	}

	d.timer = time.AfterFunc(d.delay, func() { d.fire(term) })
	d.mu.Unlock()
}

// Stop cancels any pending query.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.mu.Unlock()
}

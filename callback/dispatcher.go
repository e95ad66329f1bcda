package callback

import (
	"net/url"
	"sync/atomic"
)

// ErrorParam is the sign-in query parameter carrying the ErrorCode.
const ErrorParam = "error"

// Navigator performs a full-page replace to target.
type Navigator interface {
	Replace(target string)
}

type NavigatorFunc func(target string)

func (f NavigatorFunc) Replace(target string) { f(target) }

// Routes are the two terminal destinations of a callback.
type Routes struct {
	Landing string
	SignIn  string
}

// Dispatcher performs the single terminal navigation.
type Dispatcher struct {
	routes Routes
	nav    Navigator
	done   atomic.Bool
}

func NewDispatcher(routes Routes, nav Navigator) *Dispatcher {
	return &Dispatcher{routes: routes, nav: nav}
}

// Target is where res should send the browser.
func (d *Dispatcher) Target(res Resolution) string {
	if res.Found() {
		return d.routes.Landing
	}

	code := res.Code
	if code == "" {
		code = CodeSessionTimeout
	}

	u, err := url.Parse(d.routes.SignIn)
	if err != nil {
		return d.routes.SignIn + "?" + ErrorParam + "=" + url.QueryEscape(string(code))
	}
	q := u.Query()
	q.Set(ErrorParam, string(code))
	u.RawQuery = q.Encode()
	return u.String()
}

// Dispatch navigates once. Later calls, or calls after Disarm, return false.
func (d *Dispatcher) Dispatch(res Resolution) bool {
	if !d.done.CompareAndSwap(false, true) {
		return false
	}
	d.nav.Replace(d.Target(res))
	return true
}

// Disarm prevents any future dispatch. It reports whether a dispatch had not happened yet.
func (d *Dispatcher) Disarm() bool {
	return d.done.CompareAndSwap(false, true)
}

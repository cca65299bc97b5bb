package core

import (
	"fmt"
	"os"
	"runtime/debug"
	"sync/atomic"
)

// Finalizer restores the display before the crash report is printed
type Finalizer interface {
	Fini()
}

var crashFinalizer atomic.Pointer[Finalizer]

// SetCrashFinalizer registers the surface to restore on panic, nil clears it
func SetCrashFinalizer(f Finalizer) {
	if f == nil {
		crashFinalizer.Store(nil)
		return
	}
	crashFinalizer.Store(&f)
}

var (
	osExit = os.Exit
	exit   = osExit
)

// SetExitFunc replaces the process exit used after a crash report, nil restores os.Exit
// Must not race with a crash in progress
func SetExitFunc(fn func(code int)) {
	if fn == nil {
		fn = osExit
	}
	exit = fn
}

// HandleCrash is the unified panic handler that restores the terminal and prints the stack trace
func HandleCrash(r any) {
	if r == nil {
		return
	}

	if f := crashFinalizer.Load(); f != nil {
		(*f).Fini()
	}

	// Use \r\n in case the terminal is still in raw mode
	fmt.Fprintf(os.Stderr, "\r\n\x1b[31mCRACKFIELD CRASHED: %v\x1b[0m\r\n", r)
	fmt.Fprintf(os.Stderr, "Stack Trace:\r\n%s\r\n", debug.Stack())
	os.Stderr.Sync()

	exit(1)
}

// RecoverCrash must be deferred directly at the top of goroutines not started by Go
func RecoverCrash() {
	if r := recover(); r != nil {
		HandleCrash(r)
	}
}

// Go runs a function in a new goroutine with panic recovery.
// Use this instead of the 'go' keyword to ensure terminal cleanup on crash.
func Go(fn func()) {
	go func() {
		defer RecoverCrash()
		fn()
	}()
}

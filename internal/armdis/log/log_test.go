package log

import "testing"

func TestRecoverPanicRunsCleanup(t *testing.T) {
	Setup("", false)
	if !Initialized() {
		t.Fatalf("Setup did not initialize")
	}

	cleaned := false
	func() {
		defer RecoverPanic("test", func() { cleaned = true })
		panic("boom")
	}()
	if !cleaned {
		t.Errorf("cleanup was not called")
	}
}

func TestRecoverPanicWithoutPanic(t *testing.T) {
	called := false
	func() {
		defer RecoverPanic("quiet", func() { called = true })
	}()
	if called {
		t.Errorf("cleanup should only run after a panic")
	}
}

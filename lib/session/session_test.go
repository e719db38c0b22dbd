package session

import (
	"errors"
	"testing"
	"time"
)

func TestShutdown(t *testing.T) {
	s := New()
	events := make(chan interface{}, 2)
	s.AddEventListener(EventQuit, func(_ *Session, data interface{}) {
		events <- data
	})

	if s.ShutdownRequested() {
		t.Fatal("new session should not be shutting down")
	}

	s.RequestShutdown("test")
	s.RequestShutdown("again")

	if !s.ShutdownRequested() {
		t.Fatal("expected shutdown to be requested")
	}

	select {
	case data := <-events:
		quit, ok := data.(EventDataQuit)
		if !ok || quit.Reason != "test" {
			t.Errorf("unexpected event %#v", data)
		}
	case <-time.After(time.Second):
		t.Fatal("quit listener was not called")
	}

	select {
	case data := <-events:
		t.Errorf("quit event fired twice: %#v", data)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestReloadIsCoalesced(t *testing.T) {
	s := New()
	if s.TakeReload() {
		t.Fatal("no reload was requested")
	}

	s.RequestReload("a")
	s.RequestReload("b")

	if !s.TakeReload() {
		t.Fatal("expected a pending reload")
	}
	if s.TakeReload() {
		t.Fatal("reload requests should be coalesced")
	}
}

func TestProgramReloadedEvent(t *testing.T) {
	s := New()
	events := make(chan EventDataProgramReloaded, 1)
	s.AddEventListener(EventProgramReloaded, func(_ *Session, data interface{}) {
		events <- data.(EventDataProgramReloaded)
	})

	s.ProgramReloaded(errors.New("0:1(1): error"))

	select {
	case ev := <-events:
		if ev.Success || ev.Error != "0:1(1): error" {
			t.Errorf("unexpected event %#v", ev)
		}
	case <-time.After(time.Second):
		t.Fatal("listener was not called")
	}
}

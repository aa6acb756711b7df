package monitor

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRefresh_TracksCheckOutcome(t *testing.T) {
	healthy := true
	m := New(func(ctx context.Context) error {
		if healthy {
			return nil
		}
		return errors.New("store down")
	}, time.Hour, nil)

	if m.IsOnline() {
		t.Fatal("monitor must start offline until the first probe")
	}

	m.Refresh()
	if !m.IsOnline() {
		t.Fatal("healthy check must bring the monitor online")
	}
	if m.GetStatus().LastCheck.IsZero() {
		t.Fatal("refresh must stamp the probe time")
	}

	healthy = false
	m.Refresh()
	if m.IsOnline() {
		t.Fatal("failing check must take the monitor offline")
	}
}

func TestRefresh_NilCheckStaysOffline(t *testing.T) {
	m := New(nil, time.Hour, nil)
	m.Refresh()
	if m.IsOnline() {
		t.Fatal("monitor without a probe must stay offline")
	}
}

func TestStart_RunsInitialProbe(t *testing.T) {
	m := New(func(context.Context) error { return nil }, time.Hour, nil)
	m.Start()
	defer m.Stop()

	waitUntil := time.Now().Add(2 * time.Second)
	for !m.IsOnline() {
		if time.Now().After(waitUntil) {
			t.Fatal("initial probe never ran")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

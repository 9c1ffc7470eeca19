package bluez

import (
	"testing"
	"time"

	"github.com/muka/go-bluetooth/bluez"

	"github.com/hapworks/hapble"
)

func TestDevicePath(t *testing.T) {
	tests := []struct {
		adapter string
		mac     string
		want    string
	}{
		{"hci0", "AA:BB:CC:DD:EE:FF", "/org/bluez/hci0/dev_AA_BB_CC_DD_EE_FF"},
		{"hci1", "aa:bb:cc:dd:ee:ff", "/org/bluez/hci1/dev_AA_BB_CC_DD_EE_FF"},
	}
	for _, tt := range tests {
		if got := DevicePath(tt.adapter, tt.mac); string(got) != tt.want {
			t.Errorf("DevicePath(%q, %q) = %q, want %q", tt.adapter, tt.mac, got, tt.want)
		}
	}
}

func TestLoopStopsOnCancelledWatch(t *testing.T) {
	ch := make(chan *bluez.PropertyChanged)
	p := &Peer{ch: ch, subs: make(map[int]func(hapble.Reason))}
	fired := make(chan hapble.Reason, 1)
	p.OnDisconnect(func(r hapble.Reason) { fired <- r })

	done := make(chan struct{})
	go func() {
		p.loop(ch)
		close(done)
	}()

	// Cancelling the property watch delivers a nil event; the loop
	// must exit without dereferencing it.
	ch <- nil

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("loop did not stop after the watch was cancelled")
	}
	select {
	case r := <-fired:
		t.Errorf("unexpected disconnect notification %q", r)
	default:
	}
}

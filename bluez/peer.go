// Package bluez adapts BlueZ D-Bus device objects to the connection
// capability the watcher consumes on Linux.
package bluez

import (
	"strings"
	"sync"

	"github.com/godbus/dbus/v5"
	log "github.com/mgutz/logxi/v1"
	"github.com/muka/go-bluetooth/bluez"
	"github.com/muka/go-bluetooth/bluez/profile/device"
	"github.com/pkg/errors"

	"github.com/hapworks/hapble"
)

var logger = log.New("bluez")

// DevicePath builds the BlueZ object path for a device by adapter ID
// and MAC address, e.g. ("hci0", "AA:BB:CC:DD:EE:FF") ->
// /org/bluez/hci0/dev_AA_BB_CC_DD_EE_FF.
func DevicePath(adapter, mac string) dbus.ObjectPath {
	dev := strings.Replace(strings.ToUpper(mac), ":", "_", -1)
	return dbus.ObjectPath("/org/bluez/" + adapter + "/dev_" + dev)
}

// Peer exposes an org.bluez.Device1 object as a hapble.Conn. It
// watches the Connected property and fans the first drop out to every
// registered listener, each delivered at most once.
type Peer struct {
	dev *device.Device1
	ch  chan *bluez.PropertyChanged

	mu   sync.Mutex
	next int
	subs map[int]func(hapble.Reason)
}

// NewPeer opens the device object at path and starts watching its
// connection state. Close releases the watch.
func NewPeer(path dbus.ObjectPath) (*Peer, error) {
	dev, err := device.NewDevice1(path)
	if err != nil {
		return nil, errors.Wrap(err, "can't open device object")
	}
	return WrapDevice(dev)
}

// WrapDevice wraps an already-resolved Device1.
func WrapDevice(dev *device.Device1) (*Peer, error) {
	ch, err := dev.WatchProperties()
	if err != nil {
		return nil, errors.Wrap(err, "can't watch device properties")
	}
	p := &Peer{
		dev:  dev,
		ch:   ch,
		subs: make(map[int]func(hapble.Reason)),
	}
	go p.loop(ch)
	return p, nil
}

func (p *Peer) loop(ch chan *bluez.PropertyChanged) {
	for change := range ch {
		// A cancelled watch delivers a nil event.
		if change == nil {
			return
		}
		if change.Name != "Connected" {
			continue
		}
		connected, ok := change.Value.(bool)
		if !ok || connected {
			continue
		}
		logger.Debug("peer disconnected", "device", p.dev.Path())
		p.dispatch(hapble.Disconnected)
	}
}

func (p *Peer) dispatch(reason hapble.Reason) {
	p.mu.Lock()
	subs := p.subs
	p.subs = make(map[int]func(hapble.Reason))
	p.mu.Unlock()
	for _, f := range subs {
		f(reason)
	}
}

// OnDisconnect implements hapble.Conn.
func (p *Peer) OnDisconnect(f func(hapble.Reason)) func() {
	p.mu.Lock()
	id := p.next
	p.next++
	p.subs[id] = f
	p.mu.Unlock()
	return func() {
		p.mu.Lock()
		delete(p.subs, id)
		p.mu.Unlock()
	}
}

// Connected reports the current link state as BlueZ sees it.
func (p *Peer) Connected() (bool, error) {
	connected, err := p.dev.GetConnected()
	return connected, errors.Wrap(err, "can't read Connected property")
}

// Close stops watching the device. Pending registrations are dropped
// without being invoked.
func (p *Peer) Close() error {
	p.mu.Lock()
	p.subs = make(map[int]func(hapble.Reason))
	p.mu.Unlock()
	return errors.Wrap(p.dev.UnwatchProperties(p.ch), "can't unwatch device properties")
}

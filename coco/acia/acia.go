// Package acia implements a TCP-backed stand-in for the CoCo's optional
// serial adapter: its decode-priority contract with the memory bus is in
// scope (§4.1/§7), the actual UART timing is not. A client connecting over
// TCP sees a raw byte stream in both directions.
package acia

import (
	"fmt"
	"log/slog"
	"net"
	"sync"

	"github.com/kbolino/go-coco/coco/memory"
)

// ACIA is a single-address, single-client serial port bridged to a TCP
// listener, satisfying memory.ACIA.
type ACIA struct {
	addr     uint16
	debug    bool
	caseFold bool

	mu       sync.Mutex
	conn     net.Conn
	listener net.Listener
	rx       chan byte
}

var _ memory.ACIA = (*ACIA)(nil)

// New starts listening on port and returns an ACIA claiming decode priority
// for addr. debug logs every byte written to the bus side; caseFold folds
// received bytes to uppercase, matching some period terminal software's
// expectations.
func New(addr uint16, port uint16, debug, caseFold bool) (*ACIA, error) {
	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return nil, fmt.Errorf("acia: listen on port %d: %w", port, err)
	}
	a := &ACIA{
		addr:     addr,
		debug:    debug,
		caseFold: caseFold,
		listener: ln,
		rx:       make(chan byte, 256),
	}
	go a.serve()
	return a, nil
}

func (a *ACIA) serve() {
	for {
		conn, err := a.listener.Accept()
		if err != nil {
			return
		}
		slog.Info("acia: client connected", "remote", conn.RemoteAddr())
		a.mu.Lock()
		if a.conn != nil {
			a.conn.Close()
		}
		a.conn = conn
		a.mu.Unlock()
		go a.readLoop(conn)
	}
}

func (a *ACIA) readLoop(conn net.Conn) {
	buf := make([]byte, 1)
	for {
		n, err := conn.Read(buf)
		if n > 0 {
			select {
			case a.rx <- buf[0]:
			default:
				slog.Debug("acia: rx buffer full, dropping byte")
			}
		}
		if err != nil {
			return
		}
	}
}

// Accept reports whether address is this ACIA's claimed window.
func (a *ACIA) Accept(address uint16) bool {
	return address == a.addr
}

// Read returns the next received byte, or 0 if none is pending.
func (a *ACIA) Read(address uint16) uint8 {
	select {
	case b := <-a.rx:
		if a.caseFold && b >= 'a' && b <= 'z' {
			b -= 'a' - 'A'
		}
		return b
	default:
		return 0
	}
}

// Write sends data to the currently connected client, if any.
func (a *ACIA) Write(address uint16, data uint8) {
	if a.debug {
		slog.Debug("acia: write", "data", fmt.Sprintf("0x%02X", data))
	}
	a.mu.Lock()
	conn := a.conn
	a.mu.Unlock()
	if conn == nil {
		return
	}
	if _, err := conn.Write([]byte{data}); err != nil {
		slog.Debug("acia: write failed", "error", err)
	}
}

// Close shuts down the listener and any connected client.
func (a *ACIA) Close() error {
	a.mu.Lock()
	if a.conn != nil {
		a.conn.Close()
	}
	a.mu.Unlock()
	return a.listener.Close()
}

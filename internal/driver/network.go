// Package driver contains the device layer: implementations of
// core.PrinterDriver that move documents onto real or simulated printers.
package driver

import (
	"context"
	"fmt"
	"io"
	"net"
	"os"
	"sync"
	"time"

	"github.com/printhub/server/internal/core"
)

const defaultDialTimeout = 5 * time.Second

// Network drives raw-socket printers (JetDirect style, usually port 9100).
// Addresses maps printer name to host:port; a printer without an entry is
// unreachable.
type Network struct {
	timeout   time.Duration
	addresses map[string]string

	mu    sync.Mutex
	conns map[string]net.Conn
}

func NewNetwork(addresses map[string]string, timeout time.Duration) *Network {
	if timeout <= 0 {
		timeout = defaultDialTimeout
	}
	return &Network{
		timeout:   timeout,
		addresses: addresses,
		conns:     make(map[string]net.Conn),
	}
}

func (n *Network) connect(printerName string) (net.Conn, error) {
	addr, ok := n.addresses[printerName]
	if !ok {
		return nil, fmt.Errorf("no address configured for printer %s", printerName)
	}

	n.mu.Lock()
	if conn := n.conns[printerName]; conn != nil {
		n.mu.Unlock()
		return conn, nil
	}
	n.mu.Unlock()

	conn, err := net.DialTimeout("tcp", addr, n.timeout)
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", addr, err)
	}

	// Another submit may have dialed the same printer meanwhile; keep the
	// cached connection and drop ours.
	n.mu.Lock()
	defer n.mu.Unlock()
	if existing := n.conns[printerName]; existing != nil {
		conn.Close()
		return existing, nil
	}
	n.conns[printerName] = conn
	return conn, nil
}

func (n *Network) disconnect(printerName string) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if conn := n.conns[printerName]; conn != nil {
		conn.Close()
		delete(n.conns, printerName)
	}
}

// Submit streams the stored document to the printer socket, once per copy.
func (n *Network) Submit(ctx context.Context, printerName, documentRef string, copies int) error {
	if copies < 1 {
		copies = 1
	}

	conn, err := n.connect(printerName)
	if err != nil {
		return err
	}

	for i := 0; i < copies; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		file, err := os.Open(documentRef)
		if err != nil {
			return fmt.Errorf("open document %s: %w", documentRef, err)
		}

		if deadline, ok := ctx.Deadline(); ok {
			_ = conn.SetWriteDeadline(deadline)
		} else {
			_ = conn.SetWriteDeadline(time.Now().Add(n.timeout))
		}

		_, err = io.Copy(conn, file)
		file.Close()
		if err != nil {
			n.disconnect(printerName)
			return fmt.Errorf("write to printer %s: %w", printerName, err)
		}
	}
	return nil
}

// QueryStatus probes the socket. Raw-port printers expose no status protocol
// worth speaking here, so reachability is the whole signal: a printer that
// accepts connections is idle, one that does not is offline.
func (n *Network) QueryStatus(ctx context.Context, printerName string) (core.PrinterStatus, error) {
	addr, ok := n.addresses[printerName]
	if !ok {
		return core.PrinterOffline, fmt.Errorf("no address configured for printer %s", printerName)
	}

	d := net.Dialer{Timeout: n.timeout}
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		n.disconnect(printerName)
		return core.PrinterOffline, nil
	}
	conn.Close()
	return core.PrinterIdle, nil
}

// Close drops all cached connections.
func (n *Network) Close() {
	n.mu.Lock()
	defer n.mu.Unlock()

	for name, conn := range n.conns {
		if conn != nil {
			conn.Close()
		}
		delete(n.conns, name)
	}
}

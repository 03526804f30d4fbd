package driver

import (
	"context"
	"io"
	"net"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/printhub/server/internal/core"
)

func startSink(t *testing.T) net.Listener {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { ln.Close() })

	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			go func() {
				io.Copy(io.Discard, conn)
				conn.Close()
			}()
		}
	}()
	return ln
}

func TestNetworkConnectSharesOneConnection(t *testing.T) {
	ln := startSink(t)

	n := NewNetwork(map[string]string{"hp-1": ln.Addr().String()}, time.Second)
	defer n.Close()

	var wg sync.WaitGroup
	conns := make([]net.Conn, 4)
	for i := 0; i < len(conns); i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c, err := n.connect("hp-1")
			assert.NoError(t, err)
			conns[i] = c
		}(i)
	}
	wg.Wait()

	n.mu.Lock()
	cached := n.conns["hp-1"]
	cachedCount := len(n.conns)
	n.mu.Unlock()

	require.NotNil(t, cached)
	assert.Equal(t, 1, cachedCount)
	for _, c := range conns {
		assert.Same(t, cached, c)
	}
}

func TestNetworkSubmitStreamsDocument(t *testing.T) {
	ln := startSink(t)

	doc := filepath.Join(t.TempDir(), "job.pdf")
	require.NoError(t, os.WriteFile(doc, []byte("%PDF-1.4 test"), 0o644))

	n := NewNetwork(map[string]string{"hp-1": ln.Addr().String()}, time.Second)
	defer n.Close()

	assert.NoError(t, n.Submit(context.Background(), "hp-1", doc, 2))
	assert.Error(t, n.Submit(context.Background(), "unknown", doc, 1))
}

func TestNetworkQueryStatus(t *testing.T) {
	ln := startSink(t)
	addr := ln.Addr().String()

	n := NewNetwork(map[string]string{"hp-1": addr}, time.Second)
	defer n.Close()

	status, err := n.QueryStatus(context.Background(), "hp-1")
	require.NoError(t, err)
	assert.Equal(t, core.PrinterIdle, status)

	ln.Close()
	status, err = n.QueryStatus(context.Background(), "hp-1")
	require.NoError(t, err)
	assert.Equal(t, core.PrinterOffline, status)
}

package consensus

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/raft"
	raftboltdb "github.com/hashicorp/raft-boltdb"
)

// BufferedConn wraps a net.Conn to replay a peeked byte. RaftListener reads
// the first byte of every connection to detect HTTP traffic; when the
// connection turns out to be raft RPC, that byte is handed back through the
// first Read call here.
type BufferedConn struct {
	net.Conn
	peeked []byte
}

func (c *BufferedConn) Read(p []byte) (n int, err error) {
	if len(c.peeked) > 0 {
		n = copy(p, c.peeked)
		c.peeked = c.peeked[n:]
		if len(c.peeked) == 0 {
			c.peeked = nil
		}
		return n, nil
	}
	return c.Conn.Read(p)
}

// RaftListener peeks at the first byte of each incoming connection to filter
// out HTTP health checks, which in some deployment environments probe the
// raft port and otherwise show up as 'unknown rpc type' errors. Binary raft
// traffic passes through untouched.
type RaftListener struct {
	net.Listener
	log hclog.Logger
}

// Accept accepts the next connection. HTTP-looking connections get a 200 and
// are closed; everything else is returned with the peeked byte replayed.
func (l *RaftListener) Accept() (net.Conn, error) {
	for {
		conn, err := l.Listener.Accept()
		if err != nil {
			return nil, err
		}

		_ = conn.SetReadDeadline(time.Now().Add(500 * time.Millisecond))
		peek := make([]byte, 1)
		n, err := conn.Read(peek)
		_ = conn.SetReadDeadline(time.Time{})

		if err != nil || n == 0 {
			conn.Close()
			continue
		}

		// G=GET, H=HEAD, P=POST/PUT, C=CONNECT, O=OPTIONS, D=DELETE. Raft
		// RPC types are small binary values, never these ASCII letters.
		b := peek[0]
		if b == 'G' || b == 'H' || b == 'P' || b == 'C' || b == 'O' || b == 'D' {
			if _, err := conn.Write([]byte("HTTP/1.1 200 OK\r\nConnection: close\r\nContent-Length: 2\r\n\r\nok")); err != nil {
				l.log.Warn("failed to answer health check", "error", err)
			}
			conn.Close()
			continue
		}

		return &BufferedConn{Conn: conn, peeked: peek}, nil
	}
}

func (l *RaftListener) Dial(address raft.ServerAddress, timeout time.Duration) (net.Conn, error) {
	return net.DialTimeout("tcp", string(address), timeout)
}

// SetupRaft initializes and starts a raft node replicating the instance
// registry. dir holds the bolt log/stable store and file snapshots; bindAddr
// is the local listen address for raft RPC.
func SetupRaft(dir, nodeID, bindAddr string, fsm *FSM, logger hclog.Logger) (*raft.Raft, error) {
	config := raft.DefaultConfig()
	config.LocalID = raft.ServerID(nodeID)
	config.Logger = logger.Named("raft")

	realListener, err := net.Listen("tcp", bindAddr)
	if err != nil {
		return nil, err
	}
	raftListener := &RaftListener{Listener: realListener, log: logger}

	transport := raft.NewNetworkTransport(raftListener, 3, 10*time.Second, os.Stderr)

	snapshotStore, err := raft.NewFileSnapshotStore(dir, 2, os.Stderr)
	if err != nil {
		return nil, err
	}

	boltDB, err := raftboltdb.NewBoltStore(filepath.Join(dir, "raft.db"))
	if err != nil {
		return nil, fmt.Errorf("new bolt store: %w", err)
	}

	ra, err := raft.NewRaft(config, fsm, boltDB, boltDB, snapshotStore, transport)
	if err != nil {
		return nil, fmt.Errorf("new raft: %w", err)
	}

	return ra, nil
}

// RaftNode adapts *raft.Raft to the ports.Consensus interface.
type RaftNode struct {
	Raft *raft.Raft
}

func (n *RaftNode) Apply(cmd []byte) error {
	f := n.Raft.Apply(cmd, 500*time.Millisecond)
	return f.Error()
}

func (n *RaftNode) AddVoter(id, addr string) error {
	f := n.Raft.AddVoter(raft.ServerID(id), raft.ServerAddress(addr), 0, 0)
	return f.Error()
}

func (n *RaftNode) IsLeader() bool {
	return n.Raft.State() == raft.Leader
}

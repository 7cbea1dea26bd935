package network

import (
	"io"
	"log"
	"net"

	"rmindex/pkg/index"
	"rmindex/pkg/monitor"
	"rmindex/pkg/protocol"
)

// TCPServer serves an index.Index over the binary wire protocol, read-only:
// OpLookup/OpLowerBound/OpUpperBound are the only requests understood.
type TCPServer struct {
	idx   index.Index
	stats *monitor.QueryStats
}

func NewTCPServer(idx index.Index) *TCPServer {
	return &TCPServer{idx: idx, stats: monitor.NewQueryStats()}
}

func (s *TCPServer) Stats() *monitor.QueryStats { return s.stats }

func (s *TCPServer) Start(addr string) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	log.Printf("[TCP] Listening on %s (Binary Protocol, %s)", addr, s.idx.Type())

	for {
		conn, err := listener.Accept()
		if err != nil {
			log.Printf("[TCP] Accept error: %v", err)
			continue
		}
		go s.handleConn(conn)
	}
}

func (s *TCPServer) handleConn(conn net.Conn) {
	defer conn.Close()

	for {
		req, err := protocol.Decode(conn)
		if err != nil {
			if err != io.EOF {
				log.Printf("[TCP] decode error: %v", err)
			}
			return
		}
		if len(req.Key) != 8 {
			protocol.Encode(conn, protocol.RespErr, nil, []byte("malformed key"))
			continue
		}
		key := protocol.DecodeKey(req.Key)
		s.stats.RecordLookup()

		var pos int
		switch req.Op {
		case protocol.OpLookup, protocol.OpLowerBound:
			pos = s.idx.LowerBound(key)
		case protocol.OpUpperBound:
			pos = s.idx.UpperBound(key)
		default:
			protocol.Encode(conn, protocol.RespErr, nil, []byte("unknown op"))
			continue
		}
		protocol.Encode(conn, protocol.RespPos, nil, protocol.EncodePosition(pos))
	}
}

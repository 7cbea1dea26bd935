package client

import (
	"errors"
	"net"
	"time"

	"rmindex/pkg/protocol"
)

// Client dials a network.TCPServer and issues read-only position queries.
type Client struct {
	conn net.Conn
	addr string
}

func Dial(addr string) (*Client, error) {
	conn, err := net.DialTimeout("tcp", addr, 5*time.Second)
	if err != nil {
		return nil, err
	}
	return &Client{
		conn: conn,
		addr: addr,
	}, nil
}

func (c *Client) Lookup(key float64) (int, error) {
	return c.query(protocol.OpLookup, key)
}

func (c *Client) LowerBound(key float64) (int, error) {
	return c.query(protocol.OpLowerBound, key)
}

func (c *Client) UpperBound(key float64) (int, error) {
	return c.query(protocol.OpUpperBound, key)
}

func (c *Client) query(op byte, key float64) (int, error) {
	keyBuf := protocol.EncodeKey(key)

	if err := protocol.Encode(c.conn, op, keyBuf, nil); err != nil {
		return c.reconnectAndRetry(op, keyBuf)
	}

	pkg, err := protocol.Decode(c.conn)
	if err != nil {
		return c.reconnectAndRetry(op, keyBuf)
	}

	switch pkg.Op {
	case protocol.RespPos:
		return protocol.DecodePosition(pkg.Value), nil
	case protocol.RespErr:
		return 0, errors.New(string(pkg.Value))
	default:
		return 0, errors.New("unknown response")
	}
}

func (c *Client) Close() error {
	return c.conn.Close()
}

func (c *Client) reconnectAndRetry(op byte, key []byte) (int, error) {
	c.conn.Close()
	conn, err := net.DialTimeout("tcp", c.addr, 5*time.Second)
	if err != nil {
		return 0, err
	}
	c.conn = conn

	if err := protocol.Encode(c.conn, op, key, nil); err != nil {
		return 0, err
	}

	pkg, err := protocol.Decode(c.conn)
	if err != nil {
		return 0, err
	}
	if pkg.Op == protocol.RespPos {
		return protocol.DecodePosition(pkg.Value), nil
	}
	return 0, errors.New("operation failed")
}

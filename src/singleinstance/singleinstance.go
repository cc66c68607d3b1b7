// Package singleinstance keeps one resident inspector per desktop. The
// resident owns a loopback TCP port; a second launch finds it and asks it to
// inspect instead of installing a second hook.
package singleinstance

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"strconv"
	"time"
)

const (
	residentHost = "127.0.0.1"

	pingRequest     = "PING\n"
	pongResponse    = "PONG\n"
	inspectRequest  = "INSPECT\n"
	okResponse      = "OK\n"
	errorResponse   = "ERROR\n"
	requestDeadline = 3 * time.Second
)

// ErrNotRunning is returned by Delegate when no resident answered.
var ErrNotRunning = errors.New("no resident inspector")

// Server owns the resident endpoint.
type Server struct {
	lis  net.Listener
	port int
}

// NewServer returns an unstarted server.
func NewServer() *Server { return &Server{} }

// Start binds the first port of the configured range and answers requests
// until ctx is done or Close is called. onInspect runs for every INSPECT
// request and must not block.
func (s *Server) Start(ctx context.Context, onInspect func()) error {
	if s.lis != nil {
		return nil
	}
	start, _ := getPortRange()
	addr := net.JoinHostPort(residentHost, strconv.Itoa(start))
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("singleinstance: bind %s: %w", addr, err)
	}
	s.lis = lis
	s.port = start
	log.Printf("singleinstance: listening on %s", addr)

	go func() {
		<-ctx.Done()
		_ = lis.Close()
	}()
	go s.acceptLoop(lis, onInspect)
	return nil
}

// Port returns the bound port, or 0 if not started.
func (s *Server) Port() int { return s.port }

// Close stops accepting requests.
func (s *Server) Close() error {
	if s.lis == nil {
		return nil
	}
	err := s.lis.Close()
	s.lis = nil
	return err
}

func (s *Server) acceptLoop(lis net.Listener, onInspect func()) {
	for {
		c, err := lis.Accept()
		if err != nil {
			return
		}
		s.handle(c, onInspect)
	}
}

func (s *Server) handle(c net.Conn, onInspect func()) {
	defer c.Close()
	_ = c.SetDeadline(time.Now().Add(requestDeadline))

	line, err := bufio.NewReader(c).ReadString('\n')
	if err != nil {
		return
	}
	w := bufio.NewWriter(c)
	switch line {
	case pingRequest:
		_, _ = w.WriteString(pongResponse)
	case inspectRequest:
		log.Printf("singleinstance: inspect request from %s", c.RemoteAddr())
		if onInspect != nil {
			onInspect()
		}
		_, _ = w.WriteString(okResponse)
	default:
		_, _ = w.WriteString(errorResponse + "unknown request")
	}
	_ = w.Flush()
}

// Delegate scans the port range for a resident and asks it to inspect.
// It returns ErrNotRunning when nothing answers.
func Delegate(ctx context.Context) error {
	timeout := 300 * time.Millisecond
	if dl, ok := ctx.Deadline(); ok {
		if d := time.Until(dl); d > 0 {
			timeout = d
		}
	}
	start, end := getPortRange()
	for port := start; port <= end; port++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		addr := net.JoinHostPort(residentHost, strconv.Itoa(port))
		resp, err := roundTrip(addr, pingRequest, timeout)
		if err != nil || resp != pongResponse {
			continue
		}
		resp, err = roundTrip(addr, inspectRequest, timeout)
		if err != nil {
			return fmt.Errorf("singleinstance: %s: %w", addr, err)
		}
		if resp != okResponse {
			return fmt.Errorf("singleinstance: %s answered %q", addr, resp)
		}
		return nil
	}
	return ErrNotRunning
}

func roundTrip(addr, request string, timeout time.Duration) (string, error) {
	conn, err := net.DialTimeout("tcp", addr, timeout)
	if err != nil {
		return "", err
	}
	defer conn.Close()
	_ = conn.SetDeadline(time.Now().Add(timeout))
	w := bufio.NewWriter(conn)
	if _, err := w.WriteString(request); err != nil {
		return "", err
	}
	if err := w.Flush(); err != nil {
		return "", err
	}
	return bufio.NewReader(conn).ReadString('\n')
}

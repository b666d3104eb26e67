package platform

import (
	"bufio"
	"errors"
	"fmt"
	"hash/fnv"
	"net"
	"strings"
	"sync"
	"time"
)

// ErrAlreadyRunning indicates another instance already holds the lock.
var ErrAlreadyRunning = errors.New("instance already running")

const (
	activateCommand = "activate"
	dialTimeout     = time.Second
)

// InstanceGuard holds the single-instance lock. The first instance listens on
// a localhost port derived from the app name; later instances ask it to come
// to the front and exit.
type InstanceGuard struct {
	listener net.Listener
	address  string
	once     sync.Once
}

// AcquireSingleInstance attempts to bind a deterministic localhost port.
// When the port is taken it forwards an activation request and returns
// ErrAlreadyRunning.
func AcquireSingleInstance(appName string) (*InstanceGuard, error) {
	address := fmt.Sprintf("127.0.0.1:%d", portFromName(appName))
	listener, err := net.Listen("tcp", address)
	if err != nil {
		if activateErr := requestActivation(address); activateErr != nil {
			return nil, fmt.Errorf("bind %s: %w", address, errors.Join(err, activateErr))
		}
		return nil, ErrAlreadyRunning
	}
	return &InstanceGuard{listener: listener, address: address}, nil
}

// OnActivate calls handler whenever another instance starts. Only the first
// call installs a handler. The accept loop ends on Release.
func (guard *InstanceGuard) OnActivate(handler func()) {
	if guard == nil || guard.listener == nil {
		return
	}
	guard.once.Do(func() {
		go guard.serve(handler)
	})
}

// Release frees the single instance lock.
func (guard *InstanceGuard) Release() error {
	if guard == nil || guard.listener == nil {
		return nil
	}
	return guard.listener.Close()
}

// Address returns the bound address.
func (guard *InstanceGuard) Address() string {
	if guard == nil {
		return ""
	}
	return guard.address
}

func (guard *InstanceGuard) serve(handler func()) {
	for {
		conn, err := guard.listener.Accept()
		if err != nil {
			return
		}
		_ = conn.SetReadDeadline(time.Now().Add(dialTimeout))
		line, _ := bufio.NewReader(conn).ReadString('\n')
		_ = conn.Close()
		if strings.TrimSpace(line) == activateCommand {
			handler()
		}
	}
}

func requestActivation(address string) error {
	conn, err := net.DialTimeout("tcp", address, dialTimeout)
	if err != nil {
		return fmt.Errorf("dial running instance: %w", err)
	}
	defer conn.Close()
	if _, err := fmt.Fprintln(conn, activateCommand); err != nil {
		return fmt.Errorf("send activation: %w", err)
	}
	return nil
}

func portFromName(appName string) int {
	const (
		minPort = 20000
		maxPort = 39999
	)
	hash := fnv.New32a()
	_, _ = hash.Write([]byte(appName))
	rangeSize := maxPort - minPort + 1
	return minPort + int(hash.Sum32()%uint32(rangeSize))
}

package player

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"sync"

	"github.com/atsume-cli/atsume/log"
)

// EventCallback receives mpv events by name. Property changes are delivered
// under the property name with its new value.
type EventCallback func(event string, data any)

// EventListener keeps a connection to the mpv socket open and forwards every event it sees.
type EventListener struct {
	socketPath string
	conn       net.Conn
	callback   EventCallback
	mu         sync.Mutex
	listening  bool
	done       chan struct{}
}

func NewEventListener(socketPath string, callback EventCallback) *EventListener {
	return &EventListener{
		socketPath: socketPath,
		callback:   callback,
	}
}

// Start connects to the socket and starts the read loop.
func (el *EventListener) Start() error {
	el.mu.Lock()
	defer el.mu.Unlock()

	if el.listening {
		return nil
	}

	conn, err := net.Dial("unix", el.socketPath)
	if err != nil {
		return fmt.Errorf("event listener connect: %w", err)
	}

	el.conn = conn
	el.listening = true
	el.done = make(chan struct{})

	go el.readLoop(conn, el.done)

	log.Infof("mpv event listener started on %s", el.socketPath)
	return nil
}

// Stop closes the connection and waits for the read loop to return.
func (el *EventListener) Stop() {
	el.mu.Lock()
	if !el.listening {
		el.mu.Unlock()
		return
	}

	el.listening = false
	_ = el.conn.Close()
	done := el.done
	el.mu.Unlock()

	<-done
}

// readLoop reads newline delimited JSON until the connection closes.
func (el *EventListener) readLoop(conn net.Conn, done chan struct{}) {
	defer close(done)

	scanner := bufio.NewScanner(conn)
	for scanner.Scan() {
		el.processEvent(scanner.Bytes())
	}

	if err := scanner.Err(); err != nil && !errors.Is(err, net.ErrClosed) {
		log.Warnf("event listener read error: %v", err)
	}
}

func (el *EventListener) processEvent(line []byte) {
	var event struct {
		Event string `json:"event"`
		Name  string `json:"name"`
		Data  any    `json:"data"`
	}
	if err := json.Unmarshal(line, &event); err != nil || event.Event == "" || el.callback == nil {
		return
	}

	if event.Event == "property-change" {
		if event.Name != "" {
			el.callback(event.Name, event.Data)
		}
		return
	}

	el.callback(event.Event, event.Data)
}

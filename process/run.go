package process

import (
	"errors"
	"io"
	"os"
	"os/exec"
	"sync"
	"syscall"
	"time"

	"honk/domain"

	"golang.org/x/sync/errgroup"
)

const (
	// readBufferSize is the largest chunk a single pty output event carries
	readBufferSize = 32 * 1024

	// inputQueueSize is how many lines may wait for an agent that is not reading
	inputQueueSize = 256

	// outputDrainDelay bounds how long output may keep flowing once the
	// process has exited, e.g. from a background child holding stdout
	outputDrainDelay = 500 * time.Millisecond
)

// errInputFull is returned when the input queue is full
var errInputFull = errors.New("input queue is full")

// run is one lifetime of a spawned process
type run struct {
	closer     io.Closer // pty master, closed after the process is reaped
	cmd        *exec.Cmd
	dispatched chan struct{}
	events     chan domain.Event
	exit       domain.ExitStatus
	exited     chan struct{}
	id         string
	input      chan string
	stdin      io.Writer
	stopping   bool

	inputMu  sync.Mutex
	inputErr error

	emitMu sync.Mutex
	sealed bool
}

func newRun(id string, cmd *exec.Cmd) *run {
	return &run{
		cmd:        cmd,
		dispatched: make(chan struct{}),
		events:     make(chan domain.Event, eventBuffer),
		exited:     make(chan struct{}),
		id:         id,
		input:      make(chan string, inputQueueSize),
	}
}

// enqueue hands text to the writer goroutine without waiting for the agent to read it
func (r *run) enqueue(text string) error {
	r.inputMu.Lock()
	defer r.inputMu.Unlock()

	if r.inputErr != nil {
		return r.inputErr
	}
	select {
	case r.input <- text:
		return nil
	default:
		return errInputFull
	}
}

// writeLoop feeds queued lines to stdin in order until the process exits or
// stdin breaks
func (r *run) writeLoop() {
	for {
		select {
		case text := <-r.input:
			if _, err := io.WriteString(r.stdin, text); err != nil {
				r.inputMu.Lock()
				r.inputErr = err
				r.inputMu.Unlock()
				return
			}
		case <-r.exited:
			return
		}
	}
}

// emit queues an output event unless the run is sealed
func (r *run) emit(chunk []byte) {
	r.emitMu.Lock()
	defer r.emitMu.Unlock()

	if r.sealed {
		return
	}
	r.events <- domain.OutputEvent(r.id, chunk)
}

// seal drops any output that arrives from now on
func (r *run) seal() {
	r.emitMu.Lock()
	defer r.emitMu.Unlock()
	r.sealed = true
}

// outputWriter receives the merged stdout and stderr of a pipe-mode process
type outputWriter struct {
	r *run
}

func (w outputWriter) Write(p []byte) (int, error) {
	chunk := make([]byte, len(p))
	copy(chunk, p)
	w.r.emit(chunk)
	return len(p), nil
}

// readAll forwards every reader into the event channel until all of them are drained
func (r *run) readAll(readers []io.Reader) error {
	var g errgroup.Group
	for _, rd := range readers {
		g.Go(func() error {
			return r.forward(rd)
		})
	}
	return g.Wait()
}

func (r *run) forward(rd io.Reader) error {
	buf := make([]byte, readBufferSize)
	for {
		n, err := rd.Read(buf)
		if n > 0 {
			chunk := make([]byte, n)
			copy(chunk, buf[:n])
			r.emit(chunk)
		}
		if err != nil {
			if isEndOfStream(err) {
				return nil
			}
			return err
		}
	}
}

// drain waits for the readers after the process exited. When output is still
// held open past outputDrainDelay the pty master is closed to end it.
func (r *run) drain(readDone <-chan error) error {
	select {
	case err := <-readDone:
		return err
	case <-time.After(outputDrainDelay):
	}

	if r.closer != nil {
		r.closer.Close()
	}
	select {
	case err := <-readDone:
		return err
	case <-time.After(outputDrainDelay):
		return errors.New("output still open after exit")
	}
}

// isEndOfStream treats EOF, a closed file and the EIO a pty master returns
// once the child side is gone as the normal end of output.
func isEndOfStream(err error) bool {
	return errors.Is(err, io.EOF) ||
		errors.Is(err, os.ErrClosed) ||
		errors.Is(err, syscall.EIO)
}

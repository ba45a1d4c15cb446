package state

import (
	"errors"
	"fmt"
	"image"
	"image/color"
)

// ReferenceStatus tracks the line-art layer as it loads.
type ReferenceStatus int

const (
	ReferenceLoading ReferenceStatus = iota
	ReferenceReady
	ReferenceFailed
)

func (s ReferenceStatus) String() string {
	switch s {
	case ReferenceLoading:
		return "loading"
	case ReferenceReady:
		return "ready"
	case ReferenceFailed:
		return "failed"
	}
	return fmt.Sprintf("ReferenceStatus(%d)", int(s))
}

var (
	// ErrReferenceLoading is returned by operations that need the line art
	// before it has arrived.
	ErrReferenceLoading = errors.New("reference image still loading")
	// ErrReferenceFailed wraps the load error once the line art is known to
	// be unavailable.
	ErrReferenceFailed = errors.New("reference image unavailable")
	// ErrClosed is returned after Session.Close.
	ErrClosed = errors.New("session closed")
)

// fillRequest is a bucket fill waiting for the reference layer.
type fillRequest struct {
	At    image.Point
	Color color.RGBA
}

// Scheduler posts a task to run on the event goroutine once the current
// event handler has returned.
type Scheduler interface {
	Post(task func())
}

// SchedulerFunc adapts a function to Scheduler.
type SchedulerFunc func(task func())

func (f SchedulerFunc) Post(task func()) { f(task) }

// Queue is a Scheduler that holds tasks until RunPending is called. It backs
// headless runs and tests.
type Queue struct {
	tasks []func()
}

func (q *Queue) Post(task func()) { q.tasks = append(q.tasks, task) }

// Len returns the number of tasks waiting.
func (q *Queue) Len() int { return len(q.tasks) }

// RunPending runs the tasks queued so far, in order. Tasks they post wait
// for the next call. It returns the number of tasks run.
func (q *Queue) RunPending() int {
	tasks := q.tasks
	q.tasks = nil
	for _, task := range tasks {
		task()
	}
	return len(tasks)
}

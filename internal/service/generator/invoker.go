// internal/service/generator/invoker.go

// Package generator runs the external dataset generator as a bounded,
// cancellable unit of work and parses its structured output.
package generator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"time"

	"go.uber.org/zap"
)

// Config configures how the external generator is launched.
type Config struct {
	// Bin is the interpreter or binary, e.g. "python3".
	Bin string
	// Script is the generator entrypoint handed to Bin.
	Script string
	// MaxConcurrent bounds generator processes across all requests.
	MaxConcurrent int
}

// Task names one generator operation with its structured parameters.
// Params are serialized to JSON and passed as the second positional argument.
type Task struct {
	Name   string
	Params any
}

// Output is the generator's stdout payload.
type Output struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

// TimeoutError reports a generator run cancelled at its deadline.
type TimeoutError struct {
	Task    string
	Timeout time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("generator task %q timed out after %s", e.Task, e.Timeout)
}

// ExecError reports a generator that exited nonzero or signaled failure.
// Stderr carries the diagnostic stream for logging; it is never surfaced to
// API callers.
type ExecError struct {
	Task   string
	Stderr string
	Err    error
}

func (e *ExecError) Error() string {
	return fmt.Sprintf("generator task %q failed: %v", e.Task, e.Err)
}

func (e *ExecError) Unwrap() error { return e.Err }

// ParseError reports well-exited output that is not the expected payload.
type ParseError struct {
	Task string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("generator task %q produced unparseable output: %v", e.Task, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Invoker launches generator tasks. A semaphore bounds the number of live
// generator processes system-wide.
type Invoker struct {
	cfg    Config
	logger *zap.Logger
	sem    chan struct{}
}

// NewInvoker creates an invoker. MaxConcurrent <= 0 defaults to 4.
func NewInvoker(cfg Config, logger *zap.Logger) *Invoker {
	if cfg.MaxConcurrent <= 0 {
		cfg.MaxConcurrent = 4
	}
	return &Invoker{
		cfg:    cfg,
		logger: logger,
		sem:    make(chan struct{}, cfg.MaxConcurrent),
	}
}

// Handle is a running generator task. Wait blocks until the task finishes or
// the waiting context is cancelled; the task itself is governed only by its
// own deadline.
type Handle struct {
	done chan struct{}
	out  *Output
	err  error
}

// Wait returns the task result, or the waiting context's error if it ends
// first.
func (h *Handle) Wait(ctx context.Context) (*Output, error) {
	select {
	case <-h.done:
		return h.out, h.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Done exposes completion for select-based composition.
func (h *Handle) Done() <-chan struct{} { return h.done }

// Start launches a task with a wall-clock deadline and returns immediately.
func (i *Invoker) Start(ctx context.Context, task Task, timeout time.Duration) *Handle {
	h := &Handle{done: make(chan struct{})}
	go func() {
		defer close(h.done)
		h.out, h.err = i.run(ctx, task, timeout)
	}()
	return h
}

// Invoke runs a task to completion. On deadline expiry the process is killed
// and a TimeoutError returned; a nonzero exit yields an ExecError with the
// error stream attached; malformed stdout yields a ParseError. There are no
/// retries: a failed attempt falls through to the caller's next tier.
func (i *Invoker) Invoke(ctx context.Context, task Task, timeout time.Duration) (*Output, error) {
	return i.Start(ctx, task, timeout).Wait(ctx)
}

func (i *Invoker) run(ctx context.Context, task Task, timeout time.Duration) (*Output, error) {
	select {
	case i.sem <- struct{}{}:
		defer func() { <-i.sem }()
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	args := []string{i.cfg.Script, task.Name}
	if task.Params != nil {
		params, err := json.Marshal(task.Params)
		if err != nil {
			return nil, fmt.Errorf("marshaling task params: %w", err)
		}
		args = append(args, string(params))
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(runCtx, i.cfg.Bin, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	// Do not wait on inherited pipes after the kill.
	cmd.WaitDelay = time.Second

	start := time.Now()
	runErr := cmd.Run()
	elapsed := time.Since(start)

	if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		i.logger.Warn("generator timed out",
			zap.String("task", task.Name),
			zap.Duration("timeout", timeout))
		return nil, &TimeoutError{Task: task.Name, Timeout: timeout}
	}

	if runErr != nil {
		i.logger.Warn("generator exited with failure",
			zap.String("task", task.Name),
			zap.Duration("elapsed", elapsed),
			zap.String("stderr", stderr.String()),
			zap.Error(runErr))
		return nil, &ExecError{Task: task.Name, Stderr: stderr.String(), Err: runErr}
	}

	var out Output
	if err := json.Unmarshal(bytes.TrimSpace(stdout.Bytes()), &out); err != nil {
		return nil, &ParseError{Task: task.Name, Err: err}
	}

	if !out.Success {
		return nil, &ExecError{
			Task:   task.Name,
			Stderr: out.Error,
			Err:    fmt.Errorf("generator reported failure: %s", out.Error),
		}
	}

	i.logger.Debug("generator task completed",
		zap.String("task", task.Name),
		zap.Duration("elapsed", elapsed))
	return &out, nil
}

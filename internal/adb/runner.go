package adb

import (
	"bufio"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/vburojevic/adbg/internal/domain"
)

// backgroundBuffer bounds the per-command line channel so a slow sink
// backpressures the reader instead of growing an unread queue.
const backgroundBuffer = 100

// Result is the outcome of a completed adb invocation.
type Result struct {
	Code   int    // process exit code
	Output string // decoded output, trailing line terminators stripped
}

// Runner executes adb commands against a selected device.
//
// Synchronous commands run in strict program order: Run blocks until the
// process exits and its output is fully captured. RunBackground is the only
// source of concurrency, and its reader goroutine is never joined.
type Runner struct {
	Path     string // adb executable
	Selector Selector
}

// Run executes adb with the selector prefix and the given arguments,
// blocking until completion. When captureStderr is true, stderr is merged
// into the captured output; otherwise only stdout is captured.
func (r *Runner) Run(ctx context.Context, args []string, captureStderr bool) (Result, error) {
	argv := append(r.Selector.Args(), args...)
	cmd := exec.CommandContext(ctx, r.Path, argv...)

	var out []byte
	var err error
	if captureStderr {
		out, err = cmd.CombinedOutput()
	} else {
		out, err = cmd.Output()
	}

	res := Result{Output: strings.TrimRight(string(out), "\r\n")}
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			res.Code = exitErr.ExitCode()
			return res, nil
		}
		return res, fmt.Errorf("run %s: %w", r.Path, err)
	}
	return res, nil
}

// RunBackground spawns adb with the given arguments and returns immediately.
// Every newline-delimited chunk of output is delivered to onLine as it
// arrives, for as long as the process lives. The reader goroutine is never
// joined and no termination event is surfaced: the expected targets (the
// debug stub) run indefinitely.
func (r *Runner) RunBackground(args []string, captureStderr bool, onLine func(string)) error {
	argv := append(r.Selector.Args(), args...)
	cmd := exec.Command(r.Path, argv...)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("background %s: %w", r.Path, err)
	}
	if captureStderr {
		cmd.Stderr = cmd.Stdout
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("background %s: %w", r.Path, err)
	}

	// One channel per spawned command; the producer closes it when the
	// stream ends and the consumer drains it into the caller's sink. Neither
	// goroutine is joined and no termination event is surfaced.
	lines := make(chan string, backgroundBuffer)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(stdout)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
		// Reap the process when its output closes; errors are dropped
		// because nothing observes this goroutine.
		_ = cmd.Wait()
	}()
	go func() {
		for line := range lines {
			if onLine != nil {
				onLine(line)
			}
		}
	}()
	return nil
}

// Shell runs a remote shell command and recovers its exit code. adb does not
// propagate remote exit statuses, so the command is suffixed with an echo of
// $? and the trailing status line is parsed back out of the output.
func (r *Runner) Shell(ctx context.Context, args ...string) (Result, error) {
	remote := strings.Join(args, " ") + " ; echo $?"
	res, err := r.Run(ctx, []string{"shell", remote}, true)
	if err != nil {
		return res, err
	}
	if res.Code != 0 {
		// adb itself failed (no device etc.); output is the transport's.
		return res, nil
	}

	lines := strings.Split(res.Output, "\n")
	last := strings.TrimSpace(lines[len(lines)-1])
	code, convErr := strconv.Atoi(last)
	if convErr != nil {
		return res, fmt.Errorf("shell %q: no status line in output", strings.Join(args, " "))
	}
	res.Code = code
	res.Output = strings.TrimRight(strings.Join(lines[:len(lines)-1], "\n"), "\r\n")
	return res, nil
}

// Forward asks adb to forward a local endpoint to a remote one.
func (r *Runner) Forward(ctx context.Context, local, remote string) (Result, error) {
	return r.Run(ctx, []string{"forward", local, remote}, true)
}

// Pull copies a device file to a local path.
func (r *Runner) Pull(ctx context.Context, remote, local string) (Result, error) {
	return r.Run(ctx, []string{"pull", remote, local}, true)
}

// Devices lists the devices adb currently sees.
func (r *Runner) Devices(ctx context.Context) ([]domain.Device, error) {
	res, err := r.Run(ctx, []string{"devices"}, false)
	if err != nil {
		return nil, err
	}
	if res.Code != 0 {
		return nil, fmt.Errorf("adb devices exited with status %d", res.Code)
	}

	var devices []domain.Device
	for _, line := range strings.Split(res.Output, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "List of devices") || strings.HasPrefix(line, "*") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		devices = append(devices, domain.Device{
			Type:          "device",
			SchemaVersion: domain.SchemaVersion,
			Serial:        fields[0],
			State:         fields[1],
		})
	}
	return devices, nil
}

package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"go.bug.st/serial"
)

// OpenSerial opens the arduino serial link with a read timeout. A
// timed-out read yields no data rather than an error, so the run loop
// just tries again.
func OpenSerial(device string, baud int, timeout time.Duration) (serial.Port, error) {
	port, err := serial.Open(device, &serial.Mode{BaudRate: baud})
	if err != nil {
		return nil, fmt.Errorf("open serial %s: %w", device, err)
	}
	if err := port.SetReadTimeout(timeout); err != nil {
		port.Close()
		return nil, fmt.Errorf("set read timeout on %s: %w", device, err)
	}
	return port, nil
}

// LineReader delivers newline-terminated frames from the serial link.
// Timed-out reads surface from bufio as io.ErrNoProgress; the reader
// keeps any partial line and retries, so a slow sender never loses data
// and a silent one never kills the loop.
type LineReader struct {
	r *bufio.Reader
}

func NewLineReader(r io.Reader) *LineReader {
	return &LineReader{r: bufio.NewReader(r)}
}

// Next blocks until a full line arrives, returning it without the
// trailing newline. io.EOF means the source is gone.
func (lr *LineReader) Next() (string, error) {
	var buf strings.Builder
	for {
		chunk, err := lr.r.ReadString('\n')
		buf.WriteString(chunk)
		if err == nil {
			return strings.TrimRight(buf.String(), "\r\n"), nil
		}
		if errors.Is(err, io.ErrNoProgress) {
			continue
		}
		return "", err
	}
}

// ParseScanLine parses a scan-mode line: the voltage of every key
// position, comma separated. The arduino terminates each value with a
// comma, so the split leaves one empty trailing field to drop. A line
// with the wrong field count or a non-numeric field is rejected; the
// caller silently skips it and reads the next line.
func ParseScanLine(line string) ([]int, bool) {
	fields := strings.Split(strings.TrimSpace(line), ",")
	if n := len(fields); n > 0 && fields[n-1] == "" {
		fields = fields[:n-1]
	}
	if len(fields) != NumKeys {
		return nil, false
	}
	scan := make([]int, NumKeys)
	for i, f := range fields {
		v, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil {
			return nil, false
		}
		scan[i] = v
	}
	return scan, true
}

// ParseEventLine parses an event-mode line: "index,flag" where flag is
// 1 for pressed and 0 for released. Anything else is rejected for the
// caller to skip.
func ParseEventLine(line string) (idx int, pressed bool, ok bool) {
	fields := strings.Split(strings.TrimSpace(line), ",")
	if n := len(fields); n > 0 && fields[n-1] == "" {
		fields = fields[:n-1]
	}
	if len(fields) != 2 {
		return 0, false, false
	}
	idx, err := strconv.Atoi(strings.TrimSpace(fields[0]))
	if err != nil || idx < 0 || idx >= NumKeys {
		return 0, false, false
	}
	flag, err := strconv.Atoi(strings.TrimSpace(fields[1]))
	if err != nil || (flag != 0 && flag != 1) {
		return 0, false, false
	}
	return idx, flag == 1, true
}

package gcodeio

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/snksoft/crc"

	"github.com/nasa-jpl/canon-mc/comm"
)

// ErrChecksumMismatch is returned when a received line's trailing checksum
// does not match the computed CRC-16/XMODEM of its payload (spec.md §6
// "line integrity check"; grounded on nkt/telegram.go's crcHelper/CRC
// verification, generalized from NKT's binary telegram to an ASCII
// "payload*checksum" line).
var ErrChecksumMismatch = errors.New("gcodeio: checksum mismatch")

var crcTable = crc.NewTable(crc.XMODEM)

// checksum computes the 16-bit CRC-XMODEM of payload, matching
// crcHelper's algorithm in nkt/telegram.go.
func checksum(payload []byte) uint16 {
	v := crcTable.InitCrc()
	v = crcTable.UpdateCrc(v, payload)
	return crcTable.CRC16(v)
}

// frame appends "*XXXX" (hex CRC-16) to a line, the wire format LineSender
// writes and expects back in acknowledgements (checked by unframe).
// LineReader reads plain, unframed lines.
func frame(line string) string {
	sum := checksum([]byte(line))
	buf := make([]byte, 2)
	binary.BigEndian.PutUint16(buf, sum)
	return fmt.Sprintf("%s*%02X%02X", line, buf[0], buf[1])
}

// unframe splits a received "line*XXXX" frame, verifying the checksum.
func unframe(raw string) (string, error) {
	idx := strings.LastIndexByte(raw, '*')
	if idx < 0 {
		return "", fmt.Errorf("%w: no checksum delimiter in %q", ErrChecksumMismatch, raw)
	}
	payload, sumHex := raw[:idx], raw[idx+1:]
	if len(sumHex) != 4 {
		return "", fmt.Errorf("%w: malformed checksum field %q", ErrChecksumMismatch, sumHex)
	}
	var want uint16
	if _, err := fmt.Sscanf(sumHex, "%04X", &want); err != nil {
		return "", fmt.Errorf("%w: %v", ErrChecksumMismatch, err)
	}
	if checksum([]byte(payload)) != want {
		return "", fmt.Errorf("%w: line %q", ErrChecksumMismatch, payload)
	}
	return payload, nil
}

// LineSender streams checksum-framed G-code lines to a downstream runtime
// over a comm.RemoteDevice and waits for its "ok"/"error" acknowledgement,
// the same request/response discipline comm.RemoteDevice.SendRecv already
// provides -- this just adds GRBL-style framing and ack parsing on top.
type LineSender struct {
	Device *comm.RemoteDevice
}

// NewLineSender wraps an already-configured comm.RemoteDevice.
func NewLineSender(d *comm.RemoteDevice) *LineSender {
	return &LineSender{Device: d}
}

// SendLine frames line, transmits it, and returns the downstream runtime's
// single-line acknowledgement text (stripped of its own frame). An "error"
// acknowledgement is surfaced as an error carrying the runtime's message.
func (s *LineSender) SendLine(line string) (string, error) {
	framed := frame(line)
	resp, err := s.Device.SendRecv([]byte(framed))
	if err != nil {
		return "", err
	}
	ack, err := unframe(string(resp))
	if err != nil {
		return "", err
	}
	if strings.HasPrefix(strings.ToLower(ack), "error") {
		return "", fmt.Errorf("downstream runtime: %s", ack)
	}
	return ack, nil
}

// LineReader reads newline-delimited G-code blocks from an io.Reader (a
// .gcode/.nc program file, typically), skipping blank lines.
type LineReader struct {
	scanner *bufio.Scanner
	line    int
}

// NewLineReader wraps r for sequential line reads.
func NewLineReader(r io.Reader) *LineReader {
	return &LineReader{scanner: bufio.NewScanner(r)}
}

// Next returns the next non-blank line and its 1-based line number, or
// io.EOF once the source is exhausted.
func (r *LineReader) Next() (string, int, error) {
	for r.scanner.Scan() {
		r.line++
		text := strings.TrimSpace(r.scanner.Text())
		if text == "" {
			continue
		}
		return text, r.line, nil
	}
	if err := r.scanner.Err(); err != nil {
		return "", r.line, err
	}
	return "", r.line, io.EOF
}

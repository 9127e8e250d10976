package gcodeio

import (
	"errors"
	"strings"
	"testing"
)

func TestFrameUnframeRoundTrips(t *testing.T) {
	framed := frame("G1 X10 Y20 F500")
	payload, err := unframe(framed)
	if err != nil {
		t.Fatalf("unframe: %v", err)
	}
	if payload != "G1 X10 Y20 F500" {
		t.Errorf("payload = %q, want original line back", payload)
	}
}

func TestUnframeDetectsCorruption(t *testing.T) {
	framed := frame("G1 X10")
	corrupted := strings.Replace(framed, "X10", "X99", 1)
	if _, err := unframe(corrupted); !errors.Is(err, ErrChecksumMismatch) {
		t.Fatalf("unframe(corrupted): got %v, want ErrChecksumMismatch", err)
	}
}

func TestUnframeRejectsMissingDelimiter(t *testing.T) {
	if _, err := unframe("G1 X10"); err == nil {
		t.Fatal("expected an error for a line with no '*' checksum delimiter")
	}
}

func TestLineReaderSkipsBlankLinesAndTracksLineNumbers(t *testing.T) {
	r := NewLineReader(strings.NewReader("G0 X1\n\nG1 X2\n   \nG1 X3\n"))

	line, n, err := r.Next()
	if err != nil || line != "G0 X1" || n != 1 {
		t.Fatalf("Next() #1 = (%q, %d, %v), want (\"G0 X1\", 1, nil)", line, n, err)
	}
	line, n, err = r.Next()
	if err != nil || line != "G1 X2" || n != 3 {
		t.Fatalf("Next() #2 = (%q, %d, %v), want (\"G1 X2\", 3, nil)", line, n, err)
	}
	line, n, err = r.Next()
	if err != nil || line != "G1 X3" || n != 5 {
		t.Fatalf("Next() #3 = (%q, %d, %v), want (\"G1 X3\", 5, nil)", line, n, err)
	}
	if _, _, err := r.Next(); err == nil {
		t.Fatal("expected io.EOF once the reader is exhausted")
	}
}

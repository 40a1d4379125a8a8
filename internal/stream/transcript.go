package stream

import (
	"bufio"
	"encoding/json"
	"io"
	"os"

	"argus/internal/logging"
)

// Transcript files are JSON Lines: one Message per line. The backend
// appends as the conversation progresses; the workspace tails the file.
//
// Malformed lines are skipped, not fatal. A transcript written by an
// evolving backend must never stop the workspace from rendering what it
// can parse.

const maxTranscriptLine = 1024 * 1024

// ReadTranscript loads all parseable messages from a transcript file.
// A missing file is not an error: it yields an empty conversation.
func ReadTranscript(path string) ([]Message, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()
	return DecodeMessages(f), nil
}

// DecodeMessages reads JSON-lines messages from r, dropping lines that
// fail to parse. Read errors terminate the scan with whatever was
// decoded so far.
func DecodeMessages(r io.Reader) []Message {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxTranscriptLine)

	var msgs []Message
	line := 0
	for scanner.Scan() {
		line++
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}
		var m Message
		if err := json.Unmarshal(raw, &m); err != nil {
			logging.StreamDebug("transcript: skipping unparseable line %d: %v", line, err)
			continue
		}
		msgs = append(msgs, m)
	}
	if err := scanner.Err(); err != nil {
		logging.Get(logging.CategoryStream).Warn("transcript: scan stopped at line %d: %v", line, err)
	}
	return msgs
}

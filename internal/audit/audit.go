// Package audit writes a synchronous, HMAC-chained, newline-delimited
// JSON record of every inventory mutation and apply/revert failure.
package audit

import (
	"bufio"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"
)

// Record is one audited event. Hash chains to PrevHash so the log as a
// whole can be verified against the key without re-trusting the file.
type Record struct {
	Timestamp  time.Time `json:"timestamp"`
	Actor      string    `json:"actor,omitempty"`
	Action     string    `json:"action"`
	ObjectPath string    `json:"object_path,omitempty"`
	Success    bool      `json:"success"`
	Error      string    `json:"error,omitempty"`
	PrevHash   string    `json:"prev_hash"`
	Hash       string    `json:"hash"`
}

// Logger is the daemon's audit sink. It is written in-line both from
// the core loop (apply/revert failures) and from transport handler
// goroutines (inventory mutations); the mutex serialises those writers
// so records and the hash chain stay in order.
type Logger struct {
	mu       sync.Mutex
	file     *os.File
	key      []byte
	lastHash string
}

// NewLogger opens (or creates) the audit log at path and resumes the
// hash chain from its last record, if any.
func NewLogger(path string, key []byte) (*Logger, error) {
	lastHash, err := lastRecordHash(path)
	if err != nil {
		return nil, err
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return nil, fmt.Errorf("open audit log: %w", err)
	}

	return &Logger{file: file, key: key, lastHash: lastHash}, nil
}

func lastRecordHash(path string) (string, error) {
	file, err := os.Open(path)
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("open audit log: %w", err)
	}
	defer file.Close()

	var last Record
	found := false
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		var r Record
		if err := json.Unmarshal(scanner.Bytes(), &r); err != nil {
			continue
		}
		last = r
		found = true
	}
	if !found {
		return "", nil
	}
	return last.Hash, nil
}

// Log appends one record for actor performing action against objectPath.
// If opErr is non-nil the record is marked unsuccessful and carries its
// message; opErr never prevents the record from being written.
func (l *Logger) Log(actor, action, objectPath string, opErr error) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	r := Record{
		Timestamp:  time.Now(),
		Actor:      actor,
		Action:     action,
		ObjectPath: objectPath,
		Success:    opErr == nil,
		PrevHash:   l.lastHash,
	}
	if opErr != nil {
		r.Error = opErr.Error()
	}
	r.Hash = computeHash(l.key, r)

	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshal audit record: %w", err)
	}
	if _, err := l.file.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("write audit record: %w", err)
	}
	if err := l.file.Sync(); err != nil {
		return fmt.Errorf("sync audit log: %w", err)
	}

	l.lastHash = r.Hash
	return nil
}

// Close closes the underlying file.
func (l *Logger) Close() error {
	return l.file.Close()
}

// computeHash returns HMAC-SHA256(key, prevHash|timestamp|actor|action|objectPath|success|error)
// hex-encoded, or "" if key is empty (chain disabled).
func computeHash(key []byte, r Record) string {
	if len(key) == 0 {
		return ""
	}
	msg := fmt.Sprintf("%s|%d|%s|%s|%s|%v|%s",
		r.PrevHash,
		r.Timestamp.Unix(),
		r.Actor,
		r.Action,
		r.ObjectPath,
		r.Success,
		r.Error,
	)
	mac := hmac.New(sha256.New, key)
	mac.Write([]byte(msg))
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifyChain recomputes the hash chain over records from key and
// reports whether every record's stored hash matches its recomputation.
func VerifyChain(key []byte, records []Record) bool {
	prev := ""
	for _, r := range records {
		r.PrevHash = prev
		want := computeHash(key, r)
		if want != r.Hash {
			return false
		}
		prev = r.Hash
	}
	return true
}

package retrieval

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

func TestQueryLogger_ThreadSafety(t *testing.T) {
	var buf bytes.Buffer
	logger := NewQueryLogger(&buf)

	concurrency := 50
	iterations := 100
	var wg sync.WaitGroup

	wg.Add(concurrency)
	for i := 0; i < concurrency; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < iterations; j++ {
				logger.Log(QueryLogEntry{
					Questions: 3,
					Duration:  time.Millisecond,
				})
			}
		}()
	}
	wg.Wait()

	// Verify output is valid JSON stream
	decoder := json.NewDecoder(&buf)
	count := 0
	for decoder.More() {
		var entry QueryLogEntry
		err := decoder.Decode(&entry)
		if err != nil {
			t.Fatalf("Failed to decode entry %d: %v", count, err)
		}
		count++
	}

	expected := concurrency * iterations
	if count != expected {
		t.Errorf("Expected %d entries, got %d", expected, count)
	}
}

func TestQueryLogger_EntryFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewQueryLogger(&buf)

	logger.Log(QueryLogEntry{
		Documents:     []string{"https://example.com/policy.pdf"},
		Questions:     2,
		EvidenceCount: 7,
		Answers:       2,
		Degraded:      true,
		Duration:      1500 * time.Millisecond,
		CorrelationID: "abc-123",
	})

	var entry QueryLogEntry
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Failed to decode entry: %v", err)
	}
	if entry.LatencyMs != 1500 {
		t.Errorf("Expected latency 1500ms, got %d", entry.LatencyMs)
	}
	if entry.Timestamp.IsZero() {
		t.Error("Expected timestamp to be set")
	}
	if entry.EvidenceCount != 7 {
		t.Errorf("Expected evidence count 7, got %d", entry.EvidenceCount)
	}
	if !entry.Degraded {
		t.Error("Expected degraded flag to survive the round trip")
	}
}

func TestNewFileQueryLogger_CreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "queries.jsonl")

	logger, err := NewFileQueryLogger(path)
	if err != nil {
		t.Fatalf("NewFileQueryLogger: %v", err)
	}
	logger.Log(QueryLogEntry{Questions: 1})

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}
	if len(data) == 0 {
		t.Error("Expected log file to contain an entry")
	}
}

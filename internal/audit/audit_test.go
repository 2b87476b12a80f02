package audit

import (
	"bytes"
	"fmt"
	"strings"
	"testing"
	"time"
)

func TestLoggerWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf)
	logger.Log(Event{
		Timestamp: time.Unix(1, 0).UTC(),
		UserID:    "user",
		Tool:      "aws.iam.list_users",
		Toolset:   "iam",
		Regions:   []string{"us-east-1"},
		Outcome:   "success",
	})
	output := buf.String()
	if !strings.Contains(output, `"tool":"aws.iam.list_users"`) {
		t.Fatalf("expected tool in output: %s", output)
	}
	if !strings.Contains(output, `"regions":["us-east-1"]`) {
		t.Fatalf("expected regions in output: %s", output)
	}
	if !strings.HasSuffix(output, "\n") {
		t.Fatalf("expected newline")
	}
}

func TestLoggerNilWriter(t *testing.T) {
	logger := NewLogger(nil)
	logger.Log(Event{Tool: "aws.s3.list_buckets", Toolset: "s3", Outcome: "success"})
}

func TestLoggerMarshalError(t *testing.T) {
	orig := jsonMarshal
	t.Cleanup(func() { jsonMarshal = orig })
	jsonMarshal = func(any) ([]byte, error) {
		return nil, fmt.Errorf("fail")
	}
	var buf bytes.Buffer
	logger := NewLogger(&buf)
	logger.Log(Event{Tool: "aws.s3.list_buckets", Toolset: "s3", Outcome: "success"})
	if buf.Len() != 0 {
		t.Fatalf("expected no output on marshal error")
	}
}

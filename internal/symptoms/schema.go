package symptoms

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/GogikarMahashri/MEDCARE-QR/pkg/models"
)

const resultField = "possibleConditions"

var errEmptyResponse = errors.New("empty response")

// ParseResult decodes a model reply into an AnalysisResult. The reply must be
// a JSON object with exactly one key, "possibleConditions", holding an array
// of strings. Empty strings are valid elements and are kept in place. A single
// surrounding Markdown code fence is tolerated.
func ParseResult(raw string) (*models.AnalysisResult, error) {
	body := stripCodeFence(raw)
	if body == "" {
		return nil, errEmptyResponse
	}

	dec := json.NewDecoder(strings.NewReader(body))
	var doc json.RawMessage
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("invalid JSON: trailing data after value")
	}
	if len(doc) == 0 || doc[0] != '{' {
		return nil, fmt.Errorf("schema mismatch: expected an object")
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(doc, &fields); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}

	value, ok := fields[resultField]
	if !ok {
		return nil, fmt.Errorf("schema mismatch: missing %q", resultField)
	}
	if len(fields) != 1 {
		return nil, fmt.Errorf("schema mismatch: unexpected fields %v", extraFields(fields))
	}

	var items []json.RawMessage
	if err := json.Unmarshal(value, &items); err != nil || isNull(value) {
		return nil, fmt.Errorf("schema mismatch: %q must be an array of strings", resultField)
	}

	conditions := make([]string, 0, len(items))
	for i, item := range items {
		var c string
		if isNull(item) || json.Unmarshal(item, &c) != nil {
			return nil, fmt.Errorf("schema mismatch: %q[%d] is not a string", resultField, i)
		}
		conditions = append(conditions, c)
	}

	return &models.AnalysisResult{PossibleConditions: conditions}, nil
}

// stripCodeFence removes one ```json ... ``` wrapper, which local models add
// even when told not to.
func stripCodeFence(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") || !strings.HasSuffix(s, "```") || len(s) < 6 {
		return s
	}
	s = strings.TrimSuffix(strings.TrimPrefix(s, "```"), "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 && !strings.ContainsAny(s[:nl], "{[") {
		s = s[nl+1:]
	}
	return strings.TrimSpace(s)
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

func extraFields(fields map[string]json.RawMessage) []string {
	var extra []string
	for k := range fields {
		if k != resultField {
			extra = append(extra, k)
		}
	}
	return extra
}

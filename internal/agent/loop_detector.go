package agent

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// toolCallHash identifies a (tool name, arguments) pair.
type toolCallHash string

const (
	loopWarnThreshold     = 3 // repeats before nudging the model
	loopCriticalThreshold = 5 // repeats before giving up
)

type toolCallRecord struct {
	count      int
	lastResult string
}

// toolLoopState detects an agent repeatedly calling the same tool with the
// same arguments without making progress (same result coming back every
// time). Zero value is ready to use.
type toolLoopState struct {
	records map[toolCallHash]*toolCallRecord
}

// record hashes a tool call and bumps its occurrence count. Call once per
// tool invocation, before the result is known.
func (s *toolLoopState) record(toolName string, args map[string]interface{}) toolCallHash {
	if s.records == nil {
		s.records = make(map[toolCallHash]*toolCallRecord)
	}
	hash := hashToolCall(toolName, args)
	rec, ok := s.records[hash]
	if !ok {
		rec = &toolCallRecord{}
		s.records[hash] = rec
	}
	rec.count++
	return hash
}

// recordResult stores the result of a call for later no-progress comparison.
func (s *toolLoopState) recordResult(hash toolCallHash, result string) {
	if s.records == nil {
		return
	}
	if rec, ok := s.records[hash]; ok {
		if rec.count > 1 && rec.lastResult != result {
			rec.count = 1 // a different result is progress: restart the repeat count
		}
		rec.lastResult = result
	}
}

// detect returns a non-empty level ("warning" or "critical") once a tool
// call has repeated past the relevant threshold with an unchanged result.
// An empty level means no loop detected.
func (s *toolLoopState) detect(toolName string, hash toolCallHash) (level string, msg string) {
	if s.records == nil {
		return "", ""
	}
	rec, ok := s.records[hash]
	if !ok {
		return "", ""
	}
	switch {
	case rec.count >= loopCriticalThreshold:
		return "critical", fmt.Sprintf("You've called %s with identical arguments %d times and gotten the same result each time. Stop calling it this way.", toolName, rec.count)
	case rec.count >= loopWarnThreshold:
		return "warning", fmt.Sprintf("Note: you've called %s with identical arguments %d times in a row. If this isn't making progress, try a different approach.", toolName, rec.count)
	default:
		return "", ""
	}
}

func hashToolCall(toolName string, args map[string]interface{}) toolCallHash {
	argsJSON, _ := json.Marshal(args)
	sum := sha256.Sum256(append([]byte(toolName+"\x00"), argsJSON...))
	return toolCallHash(hex.EncodeToString(sum[:]))
}

package net

import (
	"encoding/json"
	"errors"
	"fmt"
)

var errNotArray = errors.New("message is not an array")

// Decode parses one inbound frame. Every client message is a JSON array
// whose numbers decode as float64.
func Decode(data []byte) ([]any, error) {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("decode frame: %w", err)
	}
	msg, ok := v.([]any)
	if !ok {
		return nil, errNotArray
	}
	return msg, nil
}

// EncodeBatch marshals the messages queued during one tick as a single
// array of arrays.
func EncodeBatch(msgs [][]any) ([]byte, error) {
	data, err := json.Marshal(msgs)
	if err != nil {
		return nil, fmt.Errorf("encode batch (%d messages): %w", len(msgs), err)
	}
	return data, nil
}

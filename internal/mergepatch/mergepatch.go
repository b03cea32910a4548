// Package mergepatch applies RFC 7396 JSON merge patches to entity values.
//
// The target is serialized to JSON, patched (objects merge recursively, null
// removes a member, anything else replaces it) and decoded back into a fresh
// value of the same type. Members the target type does not declare are
// rejected so a patch cannot silently carry fields that would be dropped.
package mergepatch

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	jsonpatch "github.com/evanphx/json-patch/v5"
)

// ErrPatch is returned when a patch cannot be applied to the target shape.
var ErrPatch = errors.New("invalid patch object for update")

// Apply returns a new T holding target with patch merged in. target is not modified.
func Apply[T any](patch []byte, target *T) (*T, error) {
	if target == nil {
		return nil, fmt.Errorf("%w: target entity cannot be nil", ErrPatch)
	}
	patch = bytes.TrimSpace(patch)
	if len(patch) == 0 {
		return nil, fmt.Errorf("%w: patch document is empty", ErrPatch)
	}
	if !json.Valid(patch) {
		return nil, fmt.Errorf("%w: patch document is not valid JSON", ErrPatch)
	}

	document, err := json.Marshal(target)
	if err != nil {
		return nil, fmt.Errorf("%w: target cannot be serialized: %w", ErrPatch, err)
	}

	merged, err := jsonpatch.MergePatch(document, patch)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPatch, err)
	}

	decoder := json.NewDecoder(bytes.NewReader(merged))
	decoder.DisallowUnknownFields()

	var out T
	if err := decoder.Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPatch, err)
	}
	return &out, nil
}

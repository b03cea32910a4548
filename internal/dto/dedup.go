package dto

import (
	"fmt"
	"strings"
)

// DedupPolicy selects what makes two DTOs in a batch duplicates.
type DedupPolicy int

const (
	// DedupByNaturalKey treats DTOs with the same name (habits) or email
	// (users) as duplicates.
	DedupByNaturalKey DedupPolicy = iota
	// DedupByValue only treats field-for-field identical DTOs as duplicates.
	DedupByValue
)

func (p DedupPolicy) String() string {
	switch p {
	case DedupByNaturalKey:
		return "key"
	case DedupByValue:
		return "value"
	default:
		return fmt.Sprintf("DedupPolicy(%d)", int(p))
	}
}

// ParseDedupPolicy maps "key" / "value" to a policy. An empty string yields fallback.
func ParseDedupPolicy(raw string, fallback DedupPolicy) (DedupPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "":
		return fallback, nil
	case "key", "natural", "natural-key":
		return DedupByNaturalKey, nil
	case "value", "full":
		return DedupByValue, nil
	default:
		return fallback, fmt.Errorf("unknown dedup policy %q", raw)
	}
}

// Keyed is implemented by DTOs that can be deduplicated in a batch.
type Keyed interface {
	comparable
	NaturalKey() string
}

// Dedup drops later duplicates under policy, keeping first occurrences in input order.
func Dedup[T Keyed](items []T, policy DedupPolicy) []T {
	out := make([]T, 0, len(items))
	seenKeys := make(map[string]struct{}, len(items))
	seenValues := make(map[T]struct{}, len(items))

	for _, item := range items {
		if policy == DedupByValue {
			if _, ok := seenValues[item]; ok {
				continue
			}
			seenValues[item] = struct{}{}
		} else {
			key := item.NaturalKey()
			if _, ok := seenKeys[key]; ok {
				continue
			}
			seenKeys[key] = struct{}{}
		}
		out = append(out, item)
	}
	return out
}

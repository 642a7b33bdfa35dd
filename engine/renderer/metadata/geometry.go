package metadata

import (
	"fmt"
	"strings"
)

// ErrorPolicy decides what the geometry system does with an object that
// fails to serialize.
type ErrorPolicy string

const (
	// ErrorPolicyAbort fails the whole pack on the first faulty object.
	ErrorPolicyAbort ErrorPolicy = "abort"
	// ErrorPolicySkip drops faulty objects and packs the rest.
	ErrorPolicySkip ErrorPolicy = "skip"
)

func ParseErrorPolicy(s string) (ErrorPolicy, error) {
	switch ErrorPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", ErrorPolicyAbort:
		return ErrorPolicyAbort, nil
	case ErrorPolicySkip:
		return ErrorPolicySkip, nil
	}
	return "", fmt.Errorf("unknown error policy %q", s)
}

/**
 * @brief Represents the configuration for the geometry system.
 */
type GeometrySystemConfig struct {
	/** @brief The number of serialization workers. */
	Workers int
	/** @brief The size of the job queue feeding the workers. */
	QueueSize int
	/** @brief What to do with objects that fail to serialize. */
	OnError ErrorPolicy
}

package cache

import "errors"

// ErrNotFound is returned by Get when the key has no visible entry.
// For LRU-K, a key whose access count is still below K is not visible even
// though Put has been called on it.
var ErrNotFound = errors.New("cache: key not found")

// ErrInvalidCapacity is returned by constructors when capacity is not positive.
// Constructors wrap it with the offending value; check with errors.Is.
var ErrInvalidCapacity = errors.New("cache: capacity must be positive")

// ErrInvalidK is returned by NewLRUK when K is negative.
var ErrInvalidK = errors.New("cache: k must be positive")

// ErrNilLoader is returned by NewLoading when no loader function is supplied.
var ErrNilLoader = errors.New("cache: nil loader")

package common

import "errors"

var (
	ErrorInvalidValue     = errors.New("invalid value")
	ErrorInvalidParameter = errors.New("invalid parameter")

	// input shape
	ErrorSeriesTooShort    = errors.New("series too short")
	ErrorTimeNotIncreasing = errors.New("time not strictly increasing")
	ErrorNonNumeric        = errors.New("non-numeric value")
	ErrorMissingColumn     = errors.New("missing column")
	ErrorEmptyTable        = errors.New("empty table")

	// ErrorOnsetNotFound is a normal outcome of the onset scan, not a defect.
	// Callers should report it apart from input errors.
	ErrorOnsetNotFound = errors.New("no leak onset found")

	ErrorInternalInvariant = errors.New("internal invariant violated")
)

package value

// ConversionError reports that an input record could not be turned into a
// Value. The underlying error message is surfaced verbatim.
type ConversionError struct {
	Err error
}

func (e *ConversionError) Error() string {
	if e == nil || e.Err == nil {
		return "value: conversion failed"
	}
	return e.Err.Error()
}

func (e *ConversionError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

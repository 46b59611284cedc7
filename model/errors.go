package model

import (
	"errors"
	"strings"
)

var (
	ErrValidation    = errors.New("registration is missing required fields")
	ErrPersistence   = errors.New("registration store failed")
	ErrDelivery      = errors.New("email delivery failed")
	ErrInference     = errors.New("model inference failed")
	ErrDispatch      = errors.New("intent dispatch failed")
	ErrUnknownIntent = errors.New("no handler for intent")
)

// MissingFieldsError lists the required registration fields that were empty.
type MissingFieldsError struct {
	Fields []string
}

func (e *MissingFieldsError) Error() string {
	return ErrValidation.Error() + ": " + strings.Join(e.Fields, ", ")
}

func (e *MissingFieldsError) Is(target error) bool {
	return target == ErrValidation
}

package service

import "errors"

func errorsIsValidation(err error) bool { return errors.Is(err, ErrValidation) }
func errorsIsConflict(err error) bool   { return errors.Is(err, ErrConflict) }
func errorsIsNotFound(err error) bool   { return errors.Is(err, ErrNotFound) }

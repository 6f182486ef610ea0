package model

import (
	"errors"
	"strings"
)

var ErrorNotFound = errors.New("not found")
var ErrorUnauthenticated = errors.New("not logged in")
var ErrorUnauthorized = errors.New("not the owner")
var ErrorInvalidCredentials = errors.New("invalid username or password")
var ErrorDuplicateIdentity = errors.New("duplicate identity")
var ErrorMissingField = errors.New("missing required field")
var ErrorPasswordTooLong = errors.New("password too long")

// DuplicateIdentityError reports which unique account fields collided.
// It matches ErrorDuplicateIdentity with errors.Is.
type DuplicateIdentityError struct {
	Username bool
	Email    bool
}

func (e *DuplicateIdentityError) Error() string {
	var fields []string
	if e.Username {
		fields = append(fields, "username")
	}
	if e.Email {
		fields = append(fields, "email")
	}
	if len(fields) == 0 {
		return ErrorDuplicateIdentity.Error()
	}
	return ErrorDuplicateIdentity.Error() + ": " + strings.Join(fields, ", ")
}

func (e *DuplicateIdentityError) Is(target error) bool {
	return target == ErrorDuplicateIdentity
}

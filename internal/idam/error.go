package idam

import "fmt"

// AuthError represents a failed or malformed identity provider interaction
type AuthError struct {
	Op  string
	Err error
}

func (err *AuthError) Error() string {
	return fmt.Sprintf("idam: could not %s: %s", err.Op, err.Err)
}

func (err *AuthError) Unwrap() error {
	return err.Err
}

package handle

import (
	"errors"
	"fmt"
)

// errAtNotSupported mirrors limex.h's exact message for the scalar handle
// configuration: "LIMEX: at() not relevant for handle of type double".
var errAtNotSupported = errors.New("LIMEX: at() not relevant for handle of type double")

func arityError(name string, want, got int) error {
	if want < 0 {
		return &ArityError{Name: name, Want: -1, Got: got}
	}
	return &ArityError{Name: name, Want: want, Got: got}
}

// ArityError reports that a built-in callable was invoked with the wrong
// number of arguments. Want is -1 when the callable accepts a variable
// argument count but still rejects the count actually given (e.g. n_ary_if
// requires an odd count of at least 3).
type ArityError struct {
	Name string
	Want int
	Got  int
}

func (e *ArityError) Error() string {
	if e.Want < 0 {
		return fmt.Sprintf("limex: %s: unsupported argument count %d", e.Name, e.Got)
	}
	return fmt.Sprintf("limex: %s: want %d arguments, got %d", e.Name, e.Want, e.Got)
}

// Package errors defines the sentinel error tree shared across springcfg.
package errors

import "fmt"

var (
	// Base error; every error in springcfg inherits from this
	Err = fmt.Errorf("springcfg error")

	// Format and system errors
	ErrDecode        = fmt.Errorf("decoding error (%w)", Err)
	ErrEncode        = fmt.Errorf("encoding error (%w)", Err)
	ErrOutputFile    = fmt.Errorf("error opening output file (%w)", Err)
	ErrInvalidType   = fmt.Errorf("invalid type (%w)", Err)
	ErrMissingFile   = fmt.Errorf("missing file (%w)", Err)
	ErrUnknownFormat = fmt.Errorf("unknown format (%w)", Err)
	ErrMaxDepth      = fmt.Errorf("nesting depth limit exceeded (%w)", Err)

	// Profile resolution errors
	ErrProfileExpression    = fmt.Errorf("invalid profile expression (%w)", Err)
	ErrCircularProfileGroup = fmt.Errorf("circular profile group reference (%w)", Err)
)

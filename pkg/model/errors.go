package model

import (
	"errors"
	"fmt"
)

// error kinds surfaced by the engine. Callers check them with errors.Is.
var (
	// load time
	ErrDataUnavailable = errors.New("data unavailable")
	// selection
	ErrInvalidYear      = errors.New("invalid year")
	ErrInvalidRace      = errors.New("invalid race")
	ErrDriverNotInEvent = errors.New("driver not in event")
	// a surname matching several drivers of the event, matches ErrDriverNotInEvent too
	ErrAmbiguousDriver = fmt.Errorf("%w: ambiguous surname", ErrDriverNotInEvent)
	// derived computations
	ErrInsufficientClassifiedResults = errors.New("insufficient classified results")
	ErrIdenticalDriverSelection      = errors.New("identical driver selection")
)

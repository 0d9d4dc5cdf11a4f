package actuator

import "errors"

// ErrNoDisplay is returned when the host pointer cannot be driven.
var ErrNoDisplay = errors.New("pointer control is not available on this host")

package server

import "errors"

// ErrConfiguration is the sentinel for a configuration error: missing or
// invalid configuration discovered at boot. Fatal; aborts boot.
var ErrConfiguration = errors.New("mongoose: configuration error")

// ErrServiceRegistration is the sentinel for a service registration
// error: dependency injection failure (ambiguous or missing service for
// an injection point). Fatal during boot.
var ErrServiceRegistration = errors.New("mongoose: service registration error")

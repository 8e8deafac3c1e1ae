package config

import "errors"

// ErrMissingEnv indicates a required build descriptor was not provided.
var ErrMissingEnv = errors.New("config: required environment descriptor not set")

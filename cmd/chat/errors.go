package main

import "errors"

// errReported is returned once the failure has already been shown to the
// user, so main only sets the exit status.
var errReported = errors.New("failed")

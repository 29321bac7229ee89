package main

// Exit codes
const (
	ExitSuccess     = 0 // Success
	ExitError       = 1 // General error (invalid arguments, runtime failure)
	ExitConfigError = 2 // Configuration error (bad config file, cache unavailable)
	ExitDataError   = 3 // Data error (malformed input, validation failure)
	ExitNotFound    = 4 // Remote service has no record for the DOI
	ExitFetchError  = 5 // Remote service unreachable or answered with an error
)

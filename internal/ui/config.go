package ui

// Config holds window parameters.
type Config struct {
	Title string
	Scale int
}

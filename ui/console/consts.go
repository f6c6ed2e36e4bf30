package console

const (
	// Default terminal width in characters.
	defaultTermWidth = 80
	// Shortest width step titles are cut to.
	minTitleWidth = 20
)

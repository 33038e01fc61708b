package tui

type state int

const (
	resolvingState state = iota
	transferState
	doneState
	errorState
)

package tui

type state int

const (
	searchState state = iota
	loadingState
	showsState
	episodesState
	watchedState
	resolveState
	playState
	errorState
)

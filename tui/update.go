package tui

import (
	"fmt"

	"github.com/atsume-cli/atsume/icon"
	"github.com/atsume-cli/atsume/internal/ui"
	"github.com/atsume-cli/atsume/log"
	"github.com/atsume-cli/atsume/query"
	"github.com/atsume-cli/atsume/resolve"
	"github.com/atsume-cli/atsume/source"
	bubblesKey "github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/samber/mo"
)

func (b *statefulBubble) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if cmd, handled := b.notifier.Update(msg); handled {
		return b, cmd
	}

	switch msg := msg.(type) {
	case error:
		b.stopLoading()
		b.raiseError(msg)
		return b, nil
	case tea.WindowSizeMsg:
		b.resize(msg.Width, msg.Height)
	case spinner.TickMsg:
		if !b.loading {
			return b, nil
		}
		var cmd tea.Cmd
		b.spinnerC, cmd = b.spinnerC.Update(msg)
		return b, cmd
	case snapshotMsg:
		return b, tea.Batch(b.applySnapshot(resolve.Snapshot(msg)), b.waitForSnapshot())
	case scrollMsg:
		b.surface.center(string(msg))
		return b, b.surface.waitForScroll()
	case playbackStartedMsg:
		b.stopLoading()
		b.player = msg.player
		b.playing = msg.episode
		b.playingLoaded = false
		b.newState(playState)
		return b, tea.Batch(waitForLoaded(msg.player), waitForExit(msg.player))
	case playbackLoadedMsg:
		if msg.player != b.player {
			return b, nil
		}
		b.playingLoaded = true
		return b, b.recordPlayback()
	case playbackExitedMsg:
		if msg.player != b.player {
			return b, nil
		}
		b.stopPlayback()
		return b, nil
	case tea.KeyMsg:
		if bubblesKey.Matches(msg, b.keymap.forceQuit) {
			return b, tea.Quit
		}
	}

	switch b.state {
	case searchState:
		return b.updateSearch(msg)
	case loadingState:
		return b.updateLoading(msg)
	case showsState:
		return b.updateShows(msg)
	case episodesState:
		return b.updateEpisodes(msg)
	case watchedState:
		return b.updateWatched(msg)
	case resolveState:
		return b.updateResolve(msg)
	case playState:
		return b.updatePlay(msg)
	case errorState:
		return b.updateError(msg)
	}

	return b, nil
}

func (b *statefulBubble) updateSearch(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case bubblesKey.Matches(msg, b.keymap.confirm) && b.inputC.Value() != "":
			title := b.inputC.Value()
			b.progressStatus = fmt.Sprintf("Searching for %s...", title)
			b.newState(loadingState)
			go func() {
				if err := query.Remember(title, query.Searched); err != nil {
					log.Warn(err)
				}
			}()
			return b, tea.Batch(b.search(title), b.startLoading())
		case bubblesKey.Matches(msg, b.keymap.acceptSearchSuggestion) && b.searchSuggestion.IsPresent():
			b.inputC.SetValue(b.searchSuggestion.MustGet())
			b.searchSuggestion = mo.None[string]()
			b.inputC.CursorEnd()
			return b, nil
		case bubblesKey.Matches(msg, b.keymap.back):
			if b.inputC.Value() == "" && b.shows != nil {
				b.previousState()
				return b, nil
			}
			b.inputC.SetValue("")
		}
	}

	b.inputC, cmd = b.inputC.Update(msg)

	if b.inputC.Value() != "" {
		if suggestion, ok := query.Suggest(b.inputC.Value()).Get(); ok && suggestion != b.inputC.Value() {
			b.searchSuggestion = mo.Some(suggestion)
		} else {
			b.searchSuggestion = mo.None[string]()
		}
	} else {
		b.searchSuggestion = mo.None[string]()
	}

	return b, cmd
}

func (b *statefulBubble) updateLoading(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case searchResultMsg:
		b.stopLoading()
		b.showSearchResults(msg)
		b.setState(showsState)
		b.statesHistory.Clear()
		b.statesHistory.Push(searchState)
		b.inputC.SetValue("")
		if len(msg.shows) == 0 {
			return b, ui.Notify(fmt.Sprintf("%s nothing found for %q", icon.Get(icon.Question), msg.query))
		}
	case tea.KeyMsg:
		if bubblesKey.Matches(msg, b.keymap.back) {
			b.stopLoading()
			b.previousState()
		}
	}

	return b, nil
}

func (b *statefulBubble) updateShows(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return b, nil
	}

	switch {
	case bubblesKey.Matches(key, b.keymap.up):
		b.showsC.move(-1)
	case bubblesKey.Matches(key, b.keymap.down):
		b.showsC.move(1)
	case bubblesKey.Matches(key, b.keymap.confirm):
		if r, ok := b.showsC.selected(); ok {
			show := r.item.(*source.Show)
			b.selectShow(show)
			b.setState(episodesState)
			go func() {
				if err := query.Remember(show.Title, query.Picked); err != nil {
					log.Warn(err)
				}
			}()
		}
	case bubblesKey.Matches(key, b.keymap.switchPane):
		if b.selectedShow != nil {
			b.setState(episodesState)
		}
	case bubblesKey.Matches(key, b.keymap.lastWatched):
		cmd := b.loadWatched()
		b.newState(watchedState)
		return b, cmd
	case bubblesKey.Matches(key, b.keymap.back):
		b.previousState()
		b.inputC.Focus()
	case bubblesKey.Matches(key, b.keymap.quit):
		return b, tea.Quit
	}

	return b, nil
}

func (b *statefulBubble) updateEpisodes(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return b, nil
	}

	switch {
	case bubblesKey.Matches(key, b.keymap.up):
		b.episodesC.move(-1)
	case bubblesKey.Matches(key, b.keymap.down):
		b.episodesC.move(1)
	case bubblesKey.Matches(key, b.keymap.top):
		b.episodesC.selectIndex(0)
	case bubblesKey.Matches(key, b.keymap.bottom):
		b.episodesC.selectIndex(len(b.episodesC.rows) - 1)
	case bubblesKey.Matches(key, b.keymap.confirm):
		if r, ok := b.episodesC.selected(); ok {
			return b, b.resolveEpisode(r.item.(*source.Episode))
		}
	case bubblesKey.Matches(key, b.keymap.switchPane), bubblesKey.Matches(key, b.keymap.back):
		b.setState(showsState)
	case bubblesKey.Matches(key, b.keymap.lastWatched):
		cmd := b.loadWatched()
		b.newState(watchedState)
		return b, cmd
	case bubblesKey.Matches(key, b.keymap.quit):
		return b, tea.Quit
	}

	return b, nil
}

func (b *statefulBubble) updateWatched(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case bubblesKey.Matches(msg, b.keymap.confirm):
			item, ok := b.watchedC.SelectedItem().(*listItem)
			if !ok {
				break
			}
			b.previousState()
			b.setState(episodesState)
			return b, b.jumpToWatched(item.internal.(*watchedEntry))
		case bubblesKey.Matches(msg, b.keymap.back):
			b.previousState()
			return b, nil
		}
	}

	b.watchedC, cmd = b.watchedC.Update(msg)
	return b, cmd
}

func (b *statefulBubble) updateResolve(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	key, ok := msg.(tea.KeyMsg)
	if ok && bubblesKey.Matches(key, b.keymap.back) {
		b.machine.Close()
		b.stopLoading()
		b.previousState()
		return b, nil
	}

	switch b.snapshot.State {
	case resolve.Challenging:
		if ok {
			switch {
			case bubblesKey.Matches(key, b.keymap.selectOption):
				if item, ok := b.challengeC.SelectedItem().(*listItem); ok {
					if err := b.machine.Select(item.internal.(*optionItem).option.ID); err != nil {
						return b, ui.Notify(err.Error())
					}
					return b, b.applySnapshot(b.machine.Snapshot())
				}
				return b, nil
			case bubblesKey.Matches(key, b.keymap.clearAnswers):
				if err := b.machine.ClearAnswers(); err != nil {
					return b, ui.Notify(err.Error())
				}
				return b, b.applySnapshot(b.machine.Snapshot())
			case bubblesKey.Matches(key, b.keymap.openImage):
				if item, ok := b.challengeC.SelectedItem().(*listItem); ok {
					return b, b.openImage(item.internal.(*optionItem).option)
				}
				return b, nil
			}
		}

		b.challengeC, cmd = b.challengeC.Update(msg)
		return b, cmd
	case resolve.Ready:
		if ok {
			switch {
			case bubblesKey.Matches(key, b.keymap.confirm):
				if item, ok := b.videosC.SelectedItem().(*listItem); ok {
					b.progressStatus = "Starting player..."
					b.newState(loadingState)
					return b, tea.Batch(b.startPlayback(b.selectedEpisode, item.internal.(*videoItem)), b.startLoading())
				}
				return b, nil
			case bubblesKey.Matches(key, b.keymap.openURL):
				if item, ok := b.videosC.SelectedItem().(*listItem); ok {
					b.openURL(item.internal.(*videoItem).playable)
				}
				return b, nil
			}
		}

		b.videosC, cmd = b.videosC.Update(msg)
		return b, cmd
	case resolve.Unsupported:
		if ok && bubblesKey.Matches(key, b.keymap.confirm, b.keymap.openURL) {
			if host, ok := b.snapshot.Outcome.(*resolve.HostUnsupported); ok {
				b.openURL(host.HostURL)
			}
		}
	case resolve.Failed:
		if ok && bubblesKey.Matches(key, b.keymap.retry) {
			if err := b.machine.Retry(); err != nil {
				return b, ui.Notify(err.Error())
			}
			return b, b.applySnapshot(b.machine.Snapshot())
		}
	}

	return b, nil
}

func (b *statefulBubble) updatePlay(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && bubblesKey.Matches(msg, b.keymap.back) {
		b.stopPlayback()
	}

	return b, nil
}

func (b *statefulBubble) updateError(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case bubblesKey.Matches(msg, b.keymap.back):
			b.previousState()
		case bubblesKey.Matches(msg, b.keymap.quit):
			return b, tea.Quit
		}
	}

	return b, nil
}

// stopPlayback closes the player and returns to the episode list.
func (b *statefulBubble) stopPlayback() {
	if b.player != nil {
		_ = b.player.Close()
	}

	b.player = nil
	b.playing = nil
	b.playingLoaded = false
	b.machine.Close()
	b.snapshot = b.machine.Snapshot()

	for b.state != episodesState && b.statesHistory.Len() > 0 {
		b.previousState()
	}
	b.setState(episodesState)
}

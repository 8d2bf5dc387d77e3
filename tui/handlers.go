package tui

import (
	"errors"
	"fmt"

	"github.com/atsume-cli/atsume/anilist"
	"github.com/atsume-cli/atsume/icon"
	"github.com/atsume-cli/atsume/internal/ui"
	"github.com/atsume-cli/atsume/key"
	"github.com/atsume-cli/atsume/log"
	"github.com/atsume-cli/atsume/open"
	"github.com/atsume-cli/atsume/player"
	"github.com/atsume-cli/atsume/resolve"
	"github.com/atsume-cli/atsume/source"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"
)

type (
	searchResultMsg struct {
		query    string
		shows    []*source.Show
		overview mo.Option[*anilist.Anime]
	}

	snapshotMsg resolve.Snapshot

	playbackStartedMsg struct {
		player  player.Player
		episode *source.Episode
	}
	playbackLoadedMsg struct{ player player.Player }
	playbackExitedMsg struct{ player player.Player }
)

// search fetches the episode lists and the metadata of the searched title side by side.
// A metadata failure only leaves the overview empty.
func (b *statefulBubble) search(title string) tea.Cmd {
	return func() tea.Msg {
		log.Info("searching for " + title)

		var (
			shows    []*source.Show
			overview = mo.None[*anilist.Anime]()
		)

		g, ctx := errgroup.WithContext(b.ctx)
		g.Go(func() (err error) {
			shows, err = b.options.Searcher.Search(ctx, title)
			return err
		})

		if finder, ok := b.options.Metadata.Get(); ok && viper.GetBool(key.MetadataFetchAnilist) {
			g.Go(func() error {
				anime, err := finder.FindClosest(ctx, title)
				if err != nil {
					log.Warnf("no metadata for %s: %s", title, err)
					return nil
				}
				overview = mo.Some(anime)
				return nil
			})
		}

		if err := g.Wait(); err != nil {
			return err
		}

		return searchResultMsg{query: title, shows: shows, overview: overview}
	}
}

func (b *statefulBubble) showSearchResults(msg searchResultMsg) {
	b.query = msg.query
	b.shows = msg.shows
	b.overview = msg.overview
	b.selectedShow = nil

	b.showsC.setRows(lo.Map(msg.shows, func(s *source.Show, _ int) row {
		r := row{id: s.ElementID(), label: s.Title, item: s}
		if b.options.Recorder != nil && b.options.Recorder.LastWatched(s.Title).IsPresent() {
			r.mark = icon.Get(icon.Watched)
		}
		return r
	}))
	b.episodesC.setRows(nil)
}

// selectShow lists the episodes of show in the episodes pane.
func (b *statefulBubble) selectShow(show *source.Show) {
	b.selectedShow = show
	if i, ok := b.showsC.index(show.ElementID()); ok {
		b.showsC.selectIndex(i)
	}

	b.episodesC.title = fmt.Sprintf("Episodes - %s", show.Title)
	b.refreshEpisodes()
}

func (b *statefulBubble) refreshEpisodes() {
	if b.selectedShow == nil {
		return
	}

	cursor := b.episodesC.cursor
	b.episodesC.setRows(lo.Map(b.selectedShow.Episodes, func(e *source.Episode, _ int) row {
		return row{id: e.ElementID(), label: e.Title, mark: b.episodeMark(b.selectedShow, e), item: e}
	}))
	b.episodesC.selectIndex(cursor)
}

// loadWatched lists the shows of the current results that have recorded progress.
func (b *statefulBubble) loadWatched() tea.Cmd {
	var items []list.Item
	for _, show := range b.shows {
		if b.options.Recorder == nil {
			break
		}

		if episode, ok := b.options.Recorder.LastWatched(show.Title).Get(); ok {
			items = append(items, &listItem{internal: &watchedEntry{show: show, episode: episode}})
		}
	}

	return b.watchedC.SetItems(items)
}

// jumpToWatched reveals a show and its last watched episode at once: the show
// with an immediate jump, the episode with the debounced smooth scroll.
func (b *statefulBubble) jumpToWatched(entry *watchedEntry) tea.Cmd {
	b.selectShow(entry.show)
	b.scroller.JumpTo(entry.show.ElementID())

	episode, ok := entry.show.Episode(entry.episode)
	if !ok {
		return ui.Notify(fmt.Sprintf("%s is no longer listed", entry.episode))
	}

	b.scroller.SmoothScrollTo(episode.ElementID())
	return nil
}

// resolveEpisode opens the resolution of episode.
func (b *statefulBubble) resolveEpisode(episode *source.Episode) tea.Cmd {
	b.selectedEpisode = episode
	if err := b.machine.RequestResolution(episode.Reference()); err != nil {
		b.raiseError(err)
		return nil
	}

	b.applySnapshot(b.machine.Snapshot())
	b.newState(resolveState)
	return b.startLoading()
}

// applySnapshot renders the machine state. Older snapshots are ignored.
func (b *statefulBubble) applySnapshot(snapshot resolve.Snapshot) tea.Cmd {
	if snapshot.Version < b.snapshot.Version {
		return nil
	}

	b.snapshot = snapshot
	b.keymap.resolution = snapshot.State

	var cmd tea.Cmd
	switch snapshot.State {
	case resolve.Challenging:
		if snapshot.Challenge == nil {
			break
		}
		cursor := b.challengeC.Index()
		items := lo.Map(snapshot.Challenge.Options, func(o resolve.Option, _ int) list.Item {
			return &listItem{internal: &optionItem{option: o, order: lo.IndexOf(snapshot.Selected, o.ID) + 1}}
		})
		cmd = b.challengeC.SetItems(items)
		b.challengeC.Select(cursor)
		if prompt, ok := snapshot.Prompt(); ok {
			b.challengeC.Title = fmt.Sprintf("(%d/%d) %s", len(snapshot.Selected)+1, len(snapshot.Challenge.Prompts), prompt)
		}
	case resolve.Ready:
		ready, ok := snapshot.Outcome.(*resolve.VideoReady)
		if !ok {
			break
		}
		items := lo.Map(ready.Options, func(v resolve.VideoOption, i int) list.Item {
			return &listItem{internal: &videoItem{video: v, playable: b.options.Resolver.PlayableURL(v)}, marked: i == 0}
		})
		cmd = b.videosC.SetItems(items)
		b.videosC.Select(0)
	}

	if snapshot.State == resolve.Loading {
		return tea.Batch(cmd, b.startLoading())
	}

	b.stopLoading()
	return cmd
}

// openImage downloads the image of a challenge option and shows it with the system viewer.
func (b *statefulBubble) openImage(option resolve.Option) tea.Cmd {
	return func() tea.Msg {
		if _, err := b.options.Resolver.FetchImage(b.ctx, option.ImageID); err != nil {
			return ui.Notification{Text: fmt.Sprintf("%s image unavailable: %s", icon.Get(icon.Fail), err)}
		}

		if b.options.Images == nil {
			return ui.Notification{Text: "image cache is disabled"}
		}

		if err := open.Start(b.options.Images.Path(option.ImageID)); err != nil {
			return ui.Notification{Text: err.Error()}
		}

		return nil
	}
}

func (b *statefulBubble) startPlayback(episode *source.Episode, video *videoItem) tea.Cmd {
	return func() tea.Msg {
		if b.options.NewPlayer == nil {
			return errors.New("no player configured")
		}

		p, err := b.options.NewPlayer()
		if err != nil {
			return err
		}

		title := fmt.Sprintf("%s - %s", episode.Show.Title, episode.Title)
		if err := p.Play(b.ctx, video.playable, title); err != nil {
			_ = p.Close()
			return err
		}

		return playbackStartedMsg{player: p, episode: episode}
	}
}

func waitForLoaded(p player.Player) tea.Cmd {
	return func() tea.Msg {
		select {
		case <-p.Loaded():
			return playbackLoadedMsg{player: p}
		case <-p.Wait():
			return nil
		}
	}
}

func waitForExit(p player.Player) tea.Cmd {
	return func() tea.Msg {
		<-p.Wait()
		return playbackExitedMsg{player: p}
	}
}

// recordPlayback stores the episode once the player confirmed it began loading.
func (b *statefulBubble) recordPlayback() tea.Cmd {
	episode := b.playing
	if episode == nil || b.options.Recorder == nil || !viper.GetBool(key.ProgressSaveOnLoad) {
		return nil
	}

	if err := b.options.Recorder.RecordWatch(episode.Show.Title, episode.Title); err != nil {
		log.Error(err)
		return ui.Notify(fmt.Sprintf("%s progress not saved: %s", icon.Get(icon.Fail), err))
	}

	b.refreshEpisodes()
	if i, ok := b.showsC.index(episode.Show.ElementID()); ok {
		b.showsC.rows[i].mark = icon.Get(icon.Watched)
		b.showsC.render()
	}

	return ui.Notify(fmt.Sprintf("%s progress saved", icon.Get(icon.Success)))
}

func (b *statefulBubble) openURL(url string) {
	if err := open.Start(url); err != nil {
		b.raiseError(err)
	}
}

// Package progress remembers, per show, the last episode whose video actually began loading.
package progress

import (
	"encoding/json"
	"errors"
	"sync"

	"github.com/atsume-cli/atsume/constant"
	"github.com/atsume-cli/atsume/log"
	"github.com/atsume-cli/atsume/where"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/sirupsen/logrus"
	"golang.org/x/exp/slices"
)

// Key is the namespaced store key the show to episode mapping is kept under.
var Key = constant.Atsume + "." + constant.ProgressKey

var ErrEmptyShow = errors.New("show title is empty")

// Recorder owns the show to last watched episode mapping.
// Every write goes straight through to the store; the last write for a show wins.
type Recorder struct {
	mu    sync.RWMutex
	store Store
	shows map[string]string
}

// Open returns a recorder backed by the progress file in the config directory.
func Open() *Recorder {
	return NewRecorder(NewGacheStore(where.Progress()))
}

// NewRecorder loads the mapping from store. Missing or unreadable data starts an empty mapping.
func NewRecorder(store Store) *Recorder {
	r := &Recorder{store: store, shows: make(map[string]string)}

	data, ok, err := store.Get(Key)
	switch {
	case err != nil:
		log.WithFields(logrus.Fields{"key": Key}).Warnf("progress unreadable, starting empty: %s", err)
	case !ok || len(data) == 0:
	default:
		var shows map[string]string
		if err := json.Unmarshal(data, &shows); err != nil {
			log.WithFields(logrus.Fields{"key": Key}).Warnf("progress corrupted, starting empty: %s", err)
			break
		}

		if shows != nil {
			r.shows = shows
		}
	}

	return r
}

// RecordWatch remembers episode as the last watched episode of show.
// It must only be called once the video has begun loading.
func (r *Recorder) RecordWatch(show, episode string) error {
	if show == "" {
		return ErrEmptyShow
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	previous, existed := r.shows[show]
	r.shows[show] = episode
	if err := r.persist(); err != nil {
		r.restore(show, previous, existed)
		return err
	}

	return nil
}

// LastWatched returns the last watched episode of show, if any.
func (r *Recorder) LastWatched(show string) mo.Option[string] {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if episode, ok := r.shows[show]; ok {
		return mo.Some(episode)
	}

	return mo.None[string]()
}

// Forget drops the progress of show.
func (r *Recorder) Forget(show string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.shows[show]; !ok {
		return nil
	}

	previous := r.shows[show]
	delete(r.shows, show)
	if err := r.persist(); err != nil {
		r.restore(show, previous, true)
		return err
	}

	return nil
}

// restore undoes an in-memory change whose write failed.
func (r *Recorder) restore(show, episode string, existed bool) {
	if existed {
		r.shows[show] = episode
	} else {
		delete(r.shows, show)
	}
}

// All returns a copy of the whole mapping.
func (r *Recorder) All() map[string]string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return lo.Assign(r.shows)
}

// Shows returns the titles of every show with progress, sorted.
func (r *Recorder) Shows() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	shows := lo.Keys(r.shows)
	slices.Sort(shows)
	return shows
}

func (r *Recorder) persist() error {
	data, err := json.Marshal(r.shows)
	if err != nil {
		return err
	}

	return r.store.Set(Key, data)
}

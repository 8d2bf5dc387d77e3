package cmd

import (
	"io"
	"os"

	"github.com/atsume-cli/atsume/anilist"
	"github.com/atsume-cli/atsume/filesystem"
	"github.com/atsume-cli/atsume/internal/cache"
	"github.com/atsume-cli/atsume/key"
	"github.com/atsume-cli/atsume/resolve"
	"github.com/atsume-cli/atsume/source"
	"github.com/atsume-cli/atsume/where"
	"github.com/samber/mo"
	"github.com/spf13/viper"
)

// imageCache is the on-disk cache of challenge images shared by every command.
func imageCache() *cache.Dir {
	return cache.New(where.Images())
}

func newSearcher() *source.Client {
	searcher, err := source.Configured()
	handleErr(err)
	return searcher
}

func newResolver() *resolve.Coordinator {
	return resolve.NewCoordinator(nil, resolve.ConfiguredEndpoints()).WithImageCache(imageCache())
}

func metadataFinder() mo.Option[source.MetadataFinder] {
	if !viper.GetBool(key.MetadataFetchAnilist) {
		return mo.None[source.MetadataFinder]()
	}

	return mo.Some[source.MetadataFinder](anilist.Default())
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

// outputFile opens path for writing, stdout when path is empty.
func outputFile(path string) io.WriteCloser {
	if path == "" {
		return nopCloser{os.Stdout}
	}

	file, err := filesystem.API().Create(path)
	handleErr(err)
	return file
}

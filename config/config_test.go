package config

import (
	"testing"

	"github.com/atsume-cli/atsume/filesystem"
	"github.com/atsume-cli/atsume/key"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestSetup(t *testing.T) {
	Convey("Config Setup", t, func() {
		Convey("Should initialize without error", func() {
			err := Setup()
			So(err, ShouldBeNil)
		})

		Convey("Should have default values populated", func() {
			_ = Setup()
			for name := range Default {
				So(viper.Get(name), ShouldNotBeNil)
			}
			So(viper.GetString(key.RemoteResolvePath), ShouldEqual, "/getVideosForEpisode")
			So(viper.GetInt(key.ScrollDebounceMs), ShouldEqual, 500)
		})

		Convey("Every key should be registered exactly once", func() {
			So(len(Default), ShouldEqual, key.DefinedFieldsCount)
			So(len(EnvExposed), ShouldEqual, key.DefinedFieldsCount)
		})

		Convey("EnvKeyReplacer should convert dots to underscores", func() {
			result := EnvKeyReplacer.Replace("metadata.fetch.anilist")
			So(result, ShouldEqual, "metadata_fetch_anilist")
		})
	})
}

func TestFieldEnv(t *testing.T) {
	Convey("Given the remote url field", t, func() {
		field := Default[key.RemoteURL]

		Convey("Its environment variable should carry the application prefix", func() {
			So(field.Env(), ShouldEqual, "ATSUME_REMOTE_URL")
		})
	})
}

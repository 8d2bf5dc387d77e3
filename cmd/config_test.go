package cmd

import (
	"testing"

	"github.com/atsume-cli/atsume/config"
	"github.com/atsume-cli/atsume/key"
	"github.com/atsume-cli/atsume/where"
	"github.com/samber/lo"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
)

func TestParseConfigValue(t *testing.T) {
	Convey("Given values typed on the command line", t, func() {
		Convey("Then they take the type of the default", func() {
			So(lo.Must(parseConfigValue(key.ScrollDebounceMs, "300")), ShouldEqual, 300)
			So(lo.Must(parseConfigValue(key.ProgressSaveOnLoad, "false")), ShouldEqual, false)
			So(lo.Must(parseConfigValue(key.RemoteURL, "https://resolver.example")), ShouldEqual, "https://resolver.example")
		})

		Convey("Then badly typed values are refused", func() {
			_, err := parseConfigValue(key.ScrollDebounceMs, "soon")
			So(err, ShouldNotBeNil)
			_, err = parseConfigValue(key.LogsJson, "maybe")
			So(err, ShouldNotBeNil)
		})

		Convey("Then unknown keys suggest the closest one", func() {
			_, err := parseConfigValue("scroll.debounce", "300")
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, key.ScrollDebounceMs)
		})

		Convey("Then values that make no sense for the key are refused", func() {
			for name, raw := range map[string]string{
				key.ScrollDebounceMs:  "0",
				key.RemoteRetries:     "-1",
				key.TUIItemSpacing:    "-2",
				key.RemoteURL:         "resolver.example",
				key.RemoteResolvePath: "getVideosForEpisode",
				key.LogsLevel:         "loud",
				key.IconsVariant:      "glyphs",
				key.Player:            " ",
			} {
				_, err := parseConfigValue(name, raw)
				So(err, ShouldNotBeNil)
			}
		})

		Convey("Then every default passes validation", func() {
			for name, field := range config.Default {
				So(validateConfigValue(name, field.Value), ShouldBeNil)
			}
		})
	})
}

func TestResetConfigValues(t *testing.T) {
	Convey("Given changed settings", t, func() {
		viper.Set(key.ScrollDebounceMs, 42)
		viper.Set(key.Player, "vlc")
		Reset(func() {
			viper.Set(key.ScrollDebounceMs, config.Default[key.ScrollDebounceMs].Value)
			viper.Set(key.Player, config.Default[key.Player].Value)
		})

		Convey("When one key is reset", func() {
			names, err := resetConfigValues([]string{key.Player})
			So(err, ShouldBeNil)

			Convey("Then only that key goes back to its default", func() {
				So(names, ShouldResemble, []string{key.Player})
				So(viper.GetString(key.Player), ShouldEqual, "mpv")
				So(viper.GetInt(key.ScrollDebounceMs), ShouldEqual, 42)
			})
		})

		Convey("When no keys are given", func() {
			names, err := resetConfigValues(nil)
			So(err, ShouldBeNil)

			Convey("Then every key is reset", func() {
				So(names, ShouldHaveLength, key.DefinedFieldsCount)
				So(viper.GetInt(key.ScrollDebounceMs), ShouldEqual, 500)
			})
		})

		Convey("When an unknown key is among them", func() {
			_, err := resetConfigValues([]string{key.Player, "player.defualt"})

			Convey("Then nothing is reset", func() {
				So(err, ShouldNotBeNil)
				So(viper.GetString(key.Player), ShouldEqual, "vlc")
			})
		})
	})
}

func TestEnvVariables(t *testing.T) {
	t.Setenv("ATSUME_SCROLL_DEBOUNCE_MS", "250")

	Convey("Given one variable set in the environment", t, func() {
		variables := envVariables()

		Convey("Then every key and the config path are listed", func() {
			So(variables, ShouldHaveLength, key.DefinedFieldsCount+1)
			So(lo.ContainsBy(variables, func(v envVariable) bool { return v.Name == where.EnvConfigPath }), ShouldBeTrue)
		})

		Convey("Then the set variable carries its value", func() {
			v, ok := lo.Find(variables, func(v envVariable) bool { return v.Key == key.ScrollDebounceMs })
			So(ok, ShouldBeTrue)
			So(v.Name, ShouldEqual, "ATSUME_SCROLL_DEBOUNCE_MS")
			So(v.Set, ShouldBeTrue)
			So(v.Value, ShouldEqual, "250")
		})

		Convey("Then the list is sorted by name", func() {
			names := lo.Map(variables, func(v envVariable, _ int) string { return v.Name })
			for i := 1; i < len(names); i++ {
				So(names[i-1] < names[i], ShouldBeTrue)
			}
		})
	})
}

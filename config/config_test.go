package config

import (
	"encoding/json"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
	"github.com/videocatcher/videocatcher/filesystem"
	"github.com/videocatcher/videocatcher/key"
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
			So(viper.GetInt(key.CredentialsValidityMinutes), ShouldEqual, 15)
			So(viper.GetInt(key.RelayChunkSize), ShouldEqual, 8192)
			So(viper.GetInt(key.RelayIdleTimeout), ShouldEqual, 30)
			So(viper.GetInt(key.HistoryMaxEntries), ShouldEqual, 200)
		})

		Convey("Environment variables override defaults", func() {
			t.Setenv("VIDEOCATCHER_SERVER_ADDR", ":8080")
			_ = Setup()
			So(viper.GetString(key.ServerAddr), ShouldEqual, ":8080")
		})

		Convey("EnvKeyReplacer should convert dots to underscores", func() {
			result := EnvKeyReplacer.Replace("extract.forbidden_backoff_ms")
			So(result, ShouldEqual, "extract_forbidden_backoff_ms")
		})

		Convey("Field.Env prefixes the application name", func() {
			f := Default[key.AdminPassword]
			So(f.Env(), ShouldEqual, "VIDEOCATCHER_ADMIN_PASSWORD")
		})
	})
}

func TestField(t *testing.T) {
	Convey("Given a registered field", t, func() {
		_ = Setup()
		f := Default[key.RelayChunkSize]

		Convey("Type reports the default's type", func() {
			So(f.Type(), ShouldEqual, "int")
			list := Default[key.CredentialsRequiredPlatform]
			So(list.Type(), ShouldEqual, "[]string")
		})

		Convey("Pretty lists the key and env", func() {
			out := f.Pretty()
			So(out, ShouldContainSubstring, key.RelayChunkSize)
			So(out, ShouldContainSubstring, "VIDEOCATCHER_RELAY_CHUNK_SIZE")
		})

		Convey("JSON carries the current value and the default", func() {
			viper.Set(key.RelayChunkSize, 4096)
			defer viper.Set(key.RelayChunkSize, 8192)

			raw, err := json.Marshal(&f)
			So(err, ShouldBeNil)

			var decoded map[string]any
			So(json.Unmarshal(raw, &decoded), ShouldBeNil)
			So(decoded["value"], ShouldEqual, float64(4096))
			So(decoded["default"], ShouldEqual, float64(8192))
			So(decoded["type"], ShouldEqual, "int")
		})
	})
}

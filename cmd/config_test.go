package cmd

import (
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/videocatcher/videocatcher/config"
	"github.com/videocatcher/videocatcher/failure"
	"github.com/videocatcher/videocatcher/key"
	"github.com/videocatcher/videocatcher/where"
)

func TestParseValue(t *testing.T) {
	Convey("Given registered fields", t, func() {
		Convey("Values are converted to the default's type", func() {
			v, err := parseValue(config.Default[key.RelayChunkSize], []string{"4096"})
			So(err, ShouldBeNil)
			So(v, ShouldEqual, 4096)

			v, err = parseValue(config.Default[key.RelayFingerprint], []string{"true"})
			So(err, ShouldBeNil)
			So(v, ShouldEqual, true)

			v, err = parseValue(config.Default[key.CredentialsRequiredPlatform], []string{"youtube", "tiktok"})
			So(err, ShouldBeNil)
			So(v, ShouldResemble, []string{"youtube", "tiktok"})
		})

		Convey("Bad input is rejected", func() {
			_, err := parseValue(config.Default[key.RelayChunkSize], []string{"lots"})
			So(err, ShouldNotBeNil)

			_, err = parseValue(config.Default[key.ServerAddr], nil)
			So(err, ShouldNotBeNil)
		})
	})
}

func TestErrUnknownKey(t *testing.T) {
	Convey("A typo suggests the closest key", t, func() {
		err := errUnknownKey("relay.chunk_sise")
		So(err.Error(), ShouldContainSubstring, key.RelayChunkSize)
	})
}

func TestDescribe(t *testing.T) {
	Convey("Classified failures carry their kind", t, func() {
		err := failure.New(failure.UnsupportedPlatform, errors.New("nope"))
		So(describe(err), ShouldContainSubstring, "unsupported_platform")
		So(describe(errors.New("plain")), ShouldEqual, "plain")
	})
}

func TestEnvVars(t *testing.T) {
	Convey("Every setting and the config path are listed", t, func() {
		vars := envVars()
		So(vars, ShouldContain, "VIDEOCATCHER_SERVER_ADDR")
		So(vars, ShouldContain, where.EnvConfigPath)
		So(len(vars), ShouldEqual, len(config.Default)+1)
	})
}

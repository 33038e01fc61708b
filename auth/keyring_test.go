package auth

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/zalando/go-keyring"
)

func TestKeyring(t *testing.T) {
	Convey("Given a mocked keyring", t, func() {
		keyring.MockInit()

		Convey("A missing secret reads as empty", func() {
			value, err := Get(UploadToken)
			So(err, ShouldBeNil)
			So(value, ShouldBeEmpty)
		})

		Convey("A stored secret round-trips", func() {
			So(Set(AdminPassword, "hunter2"), ShouldBeNil)
			value, err := Get(AdminPassword)
			So(err, ShouldBeNil)
			So(value, ShouldEqual, "hunter2")

			So(Delete(AdminPassword), ShouldBeNil)
			value, _ = Get(AdminPassword)
			So(value, ShouldBeEmpty)
		})

		Convey("Deleting a missing secret succeeds", func() {
			So(Delete(UploadToken), ShouldBeNil)
		})

		Convey("Configured values take precedence over the keyring", func() {
			So(Set(UploadToken, "from-keyring"), ShouldBeNil)
			So(Resolve(UploadToken, "from-config"), ShouldEqual, "from-config")
			So(Resolve(UploadToken, ""), ShouldEqual, "from-keyring")
		})
	})
}

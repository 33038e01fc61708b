package failure

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestError(t *testing.T) {
	Convey("Given a classified error", t, func() {
		cause := errors.New("HTTP Error 403: Forbidden")
		err := &Error{Kind: BlockedOrForbidden, Err: cause, Attempts: 3}

		Convey("It unwraps to the underlying error", func() {
			So(errors.Is(err, cause), ShouldBeTrue)
		})

		Convey("It matches a bare error of the same kind", func() {
			So(errors.Is(err, &Error{Kind: BlockedOrForbidden}), ShouldBeTrue)
			So(errors.Is(err, &Error{Kind: PrivateOrUnavailable}), ShouldBeFalse)
		})

		Convey("It survives wrapping", func() {
			wrapped := fmt.Errorf("resolve: %w", err)
			So(KindOf(wrapped), ShouldEqual, BlockedOrForbidden)
			var target *Error
			So(errors.As(wrapped, &target), ShouldBeTrue)
			So(target.Attempts, ShouldEqual, 3)
		})

		Convey("Its message mentions the attempts", func() {
			So(err.Error(), ShouldContainSubstring, "3 attempt(s)")
			So(err.Error(), ShouldContainSubstring, "blocked_or_forbidden")
		})
	})
}

func TestMessage(t *testing.T) {
	Convey("Message", t, func() {
		Convey("Unclassified errors surface verbatim", func() {
			So(Message(errors.New("boom")), ShouldEqual, "boom")
		})

		Convey("Generic extraction failures surface the last underlying message", func() {
			So(Message(New(ExtractionFailed, errors.New("network unreachable"))), ShouldEqual, "network unreachable")
		})

		Convey("Classified kinds get a readable explanation", func() {
			So(Message(New(PrivateOrUnavailable, nil)), ShouldContainSubstring, "private")
			So(Message(New(UnsupportedPlatform, nil)), ShouldContainSubstring, "Unsupported")
		})

		Convey("Nil is empty", func() {
			So(Message(nil), ShouldBeEmpty)
		})
	})
}

func TestStatus(t *testing.T) {
	Convey("Kinds map to HTTP statuses", t, func() {
		So(UnsupportedPlatform.Status(), ShouldEqual, http.StatusBadRequest)
		So(BlockedOrForbidden.Status(), ShouldEqual, http.StatusForbidden)
		So(PrivateOrUnavailable.Status(), ShouldEqual, http.StatusNotFound)
		So(NoPlayableFormat.Status(), ShouldEqual, http.StatusUnprocessableEntity)
		So(CredentialExpired.Status(), ShouldEqual, http.StatusUnauthorized)
		So(OriginStreamFailure.Status(), ShouldEqual, http.StatusBadGateway)
		So(ExtractionFailed.Status(), ShouldEqual, http.StatusBadGateway)
	})
}

package auth_test

import (
	"crypto/sha512"
	"encoding/hex"
	"strings"
	"testing"
	"time"

	"github.com/okian/scoring/internal/domain/auth"
	"github.com/okian/scoring/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func sha(s string) string {
	sum := sha512.Sum512([]byte(s))
	return hex.EncodeToString(sum[:])
}

func TestChecker(t *testing.T) {
	fixed := time.Date(2024, time.March, 15, 9, 30, 0, 0, time.UTC)
	checker := auth.NewChecker(auth.WithClock(func() time.Time { return fixed }))

	Convey("Given a checker with default salts", t, func() {
		Convey("User tokens are derived from account, login and salt", func() {
			env := model.Envelope{Account: "horns&hoofs", Login: "h&f", Token: sha("horns&hoofs" + "h&f" + "Otus")}
			So(checker.Authenticate(env), ShouldBeTrue)
			So(auth.UserToken("horns&hoofs", "h&f", auth.DefaultSalt), ShouldEqual, env.Token)
		})

		Convey("A missing account is treated as empty", func() {
			env := model.Envelope{Login: "h&f", Token: sha("h&fOtus")}
			So(checker.Authenticate(env), ShouldBeTrue)
		})

		Convey("Wrong and empty tokens fail", func() {
			So(checker.Authenticate(model.Envelope{Login: "h&f", Token: "bad"}), ShouldBeFalse)
			So(checker.Authenticate(model.Envelope{Login: "h&f"}), ShouldBeFalse)
		})

		Convey("Comparison is case sensitive", func() {
			env := model.Envelope{Login: "h&f", Token: strings.ToUpper(sha("h&fOtus"))}
			So(checker.Authenticate(env), ShouldBeFalse)
		})

		Convey("Admin tokens are bound to the current hour", func() {
			token := sha("2024031509" + "42")
			So(auth.AdminToken(fixed, auth.DefaultAdminSalt), ShouldEqual, token)
			So(checker.Authenticate(model.Envelope{Login: "admin", Token: token}), ShouldBeTrue)

			later := auth.NewChecker(auth.WithClock(func() time.Time { return fixed.Add(time.Hour) }))
			So(later.Authenticate(model.Envelope{Login: "admin", Token: token}), ShouldBeFalse)

			sameHour := auth.NewChecker(auth.WithClock(func() time.Time { return fixed.Add(29 * time.Minute) }))
			So(sameHour.Authenticate(model.Envelope{Login: "admin", Token: token}), ShouldBeTrue)
		})

		Convey("The admin user token does not authenticate the admin", func() {
			env := model.Envelope{Login: "admin", Token: sha("adminOtus")}
			So(checker.Authenticate(env), ShouldBeFalse)
		})
	})

	Convey("Given a checker with custom material", t, func() {
		c := auth.NewChecker(
			auth.WithSalt("pepper"),
			auth.WithAdminSalt("7"),
			auth.WithAdminLogin("root"),
			auth.WithClock(func() time.Time { return fixed }),
		)
		So(c.IsAdmin("root"), ShouldBeTrue)
		So(c.IsAdmin("admin"), ShouldBeFalse)
		So(c.Authenticate(model.Envelope{Login: "u", Token: sha("upepper")}), ShouldBeTrue)
		So(c.Authenticate(model.Envelope{Login: "root", Token: sha("20240315097")}), ShouldBeTrue)
	})
}

package accounts

import (
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestAccountLifecycle(t *testing.T) {
	Convey("Given a registered account for U", t, func() {
		repo := NewAccountRepository()
		svc := NewService(repo, NewBcryptHasher(), NewJWTIssuer([]byte("bdd-key"), time.Hour), &eventsSpy{})

		id, err := svc.CreateAccount(accountRequest{
			Username:  "u",
			Password:  "password1",
			FirstName: "First",
			LastName:  "Last",
			Role:      "User",
		})

		So(err, ShouldBeNil)
		So(isValidID(string(id)), ShouldBeTrue)

		Convey("When U authenticates with the right password", func() {
			session, err := svc.Authenticate(authenticateRequest{Username: "u", Password: "password1", IP: "192.0.2.7"})

			So(err, ShouldBeNil)
			So(session.Token, ShouldNotBeEmpty)
			So(session.ID, ShouldEqual, id)

			Convey("Then the stored account carries the login IP and time", func() {
				acc, err := repo.FindByID(id)

				So(err, ShouldBeNil)
				So(acc.IPAddress, ShouldEqual, "192.0.2.7")
				So(acc.LoginTime, ShouldNotBeNil)
			})

			Convey("And when U logs out", func() {
				acc, err := svc.Logout("u")

				So(err, ShouldBeNil)
				So(acc.LogoutTime, ShouldNotBeNil)
				So(acc.LogoutTime.After(acc.CreatedAt), ShouldBeTrue)
			})
		})

		Convey("When U authenticates with the wrong password", func() {
			session, err := svc.Authenticate(authenticateRequest{Username: "u", Password: "nope", IP: "192.0.2.7"})

			So(session, ShouldBeNil)
			So(err, ShouldEqual, ErrInvalidCredentials)
		})
	})
}

func TestAuditListing(t *testing.T) {
	Convey("Given an auditor A and a regular account U", t, func() {
		repo := NewAccountRepository()
		svc := NewService(repo, NewBcryptHasher(), NewJWTIssuer([]byte("bdd-key"), time.Hour), &eventsSpy{})

		userID, err := svc.CreateAccount(accountRequest{Username: "u", Password: "password1", FirstName: "First", LastName: "Last", Role: "User"})
		So(err, ShouldBeNil)

		auditorID, err := svc.CreateAccount(accountRequest{Username: "a", Password: "password1", FirstName: "Audrey", LastName: "Tor", Role: RoleAuditor})
		So(err, ShouldBeNil)

		Convey("When U requests the audit listing", func() {
			entries, err := svc.Audit(userID)

			So(entries, ShouldBeNil)
			So(err, ShouldEqual, ErrForbidden)
		})

		Convey("When A requests the audit listing", func() {
			entries, err := svc.Audit(auditorID)

			So(err, ShouldBeNil)
			So(len(entries), ShouldEqual, 2)

			Convey("Then every entry names an account and its role", func() {
				roles := map[string]string{}
				for _, e := range entries {
					roles[e.Username] = e.Role
				}

				So(roles["u"], ShouldEqual, "User")
				So(roles["a"], ShouldEqual, RoleAuditor)
			})
		})
	})
}

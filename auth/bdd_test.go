package auth

import (
	"context"
	"testing"

	"github.com/smartystreets/goconvey/convey"
)

func TestRegisterNewAccount(t *testing.T) {
	convey.Convey("Given a new user with full name, email and password", t, func() {
		ctx := context.Background()
		req := registerAccountRequest{"User", "user@user.com", "password", ""}
		accounts := NewAccountRepository()
		spy := &notifierSpy{}
		svc, _ := newTestService(t, accounts, spy)

		convey.Convey("When the user registers", func() {
			profile, err := svc.RegisterAccount(ctx, req)

			convey.So(err, convey.ShouldBeNil)

			convey.Convey("Then the account exists and is inactive", func() {
				acc, err := accounts.FindByEmail(ctx, req.Email)

				convey.So(err, convey.ShouldBeNil)
				convey.So(profile.ID, convey.ShouldEqual, acc.ID)
				convey.So(acc.IsActive, convey.ShouldBeFalse)

				convey.Convey("And an activation link was emailed", func() {
					convey.So(spy.to, convey.ShouldEqual, req.Email)
					convey.So(spy.body, convey.ShouldContainSubstring, "/activate?token="+acc.ActivationToken)
				})
			})
		})
	})
}

func TestActivateAndLogin(t *testing.T) {
	convey.Convey("Given a registered user U", t, func() {
		ctx := context.Background()
		accounts := NewAccountRepository()
		svc, tokens := newTestService(t, accounts, &notifierSpy{})
		_, err := svc.RegisterAccount(ctx, registerAccountRequest{"U", "u@user.com", "password", ""})
		convey.So(err, convey.ShouldBeNil)

		acc, err := accounts.FindByEmail(ctx, "u@user.com")
		convey.So(err, convey.ShouldBeNil)

		convey.Convey("When U follows the activation link", func() {
			err := svc.Activate(ctx, acc.ActivationToken)
			convey.So(err, convey.ShouldBeNil)

			convey.Convey("Then U is active", func() {
				acc, _ := accounts.FindByEmail(ctx, "u@user.com")
				convey.So(acc.IsActive, convey.ShouldBeTrue)

				convey.Convey("And following the link again still succeeds", func() {
					convey.So(svc.Activate(ctx, acc.ActivationToken), convey.ShouldBeNil)
				})
			})
		})

		convey.Convey("When U provides correct credentials", func() {
			res, err := svc.Login(ctx, loginRequest{"u@user.com", "password"})
			convey.So(err, convey.ShouldBeNil)

			convey.Convey("Then U receives a token for U's email", func() {
				convey.So(tokens.Validate(res.Token, "u@user.com"), convey.ShouldBeTrue)
				convey.So(res.User.ID, convey.ShouldEqual, acc.ID)
			})
		})

		convey.Convey("When U provides a wrong password", func() {
			_, err := svc.Login(ctx, loginRequest{"u@user.com", "nope-nope"})

			convey.Convey("Then login fails with invalid credentials", func() {
				convey.So(err, convey.ShouldEqual, ErrInvalidCredentials)
			})
		})
	})
}

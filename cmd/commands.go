package main

import (
	"github.com/n10ty/authform"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
)

func (r *runner) login(c *cli.Context) error {
	email, err := ask(r.env.prompter, c.String("email"), "Email", false, validEmail)
	if err != nil {
		return err
	}
	password, err := ask(r.env.prompter, c.String("password"), "Password", true, nil)
	if err != nil {
		return err
	}
	return r.finish(r.client.Login(c.Context, email, password, c.Bool("remember")))
}

func (r *runner) guest(c *cli.Context) error {
	return r.finish(r.client.GuestLogin(c.Context))
}

func (r *runner) forgotPassword(c *cli.Context) error {
	email, err := ask(r.env.prompter, c.String("email"), "Email", false, validEmail)
	if err != nil {
		return err
	}
	return r.finish(r.client.ForgotPassword(c.Context, email))
}

func (r *runner) resetPassword(c *cli.Context) error {
	password, confirm, err := r.newPassword(c)
	if err != nil {
		return err
	}
	return r.finish(r.client.ResetPassword(c.Context, c.String("link"), password, confirm))
}

func (r *runner) changePassword(c *cli.Context) error {
	password, confirm, err := r.newPassword(c)
	if err != nil {
		return err
	}
	return r.finish(r.client.ChangePassword(c.Context, password, confirm))
}

func (r *runner) logout(c *cli.Context) error {
	if err := r.client.Logout(c.Context); err != nil {
		return err
	}
	return r.client.ForgetSession(r.store)
}

func (r *runner) newPassword(c *cli.Context) (string, string, error) {
	password, err := ask(r.env.prompter, c.String("password"), "New password", true, validPassword)
	if err != nil {
		return "", "", err
	}
	confirm, err := ask(r.env.prompter, c.String("confirm"), "Confirm new password", true, nil)
	if err != nil {
		return "", "", err
	}
	return password, confirm, nil
}

// finish maps a flow result onto the command outcome and keeps the
// session of a successful flow.
func (r *runner) finish(res authform.Result, err error) error {
	if err != nil {
		return err
	}
	switch res := res.(type) {
	case *authform.Success:
		if res.FollowUpErr != nil {
			return errFailed
		}
		return errors.Wrap(r.client.PersistSession(r.store), "keeping session")
	case *authform.Failure:
		return errFailed
	default:
		return errors.Errorf("unexpected result %T", res)
	}
}

package cli

import (
	"context"

	"github.com/dmitrijs2005/arsip/internal/common"
)

// Login accepts "login [username]" and prompts for what is missing.
func (a *App) Login(ctx context.Context, args []string) error {
	var username string
	if len(args) > 0 {
		username = args[0]
	} else {
		var err error
		if username, err = a.ask("Username"); err != nil {
			return err
		}
	}

	password, err := GetPassword(a.reader, "Password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	u, err := a.svc.Auth.Login(ctx, username, string(password))
	if err != nil {
		return err
	}
	a.println("Login successful. Welcome,", u.FullName)
	return nil
}

func (a *App) Logout(ctx context.Context, _ []string) error {
	if err := a.svc.Auth.Logout(ctx); err != nil {
		return err
	}
	a.println("Logged out")
	return nil
}

package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/arsip/internal/common"
	"github.com/dmitrijs2005/arsip/internal/models"
	"github.com/dmitrijs2005/arsip/internal/services"
)

func (a *App) Users(_ context.Context, _ []string) error {
	users, err := a.svc.Users.List(a.actor())
	if err != nil {
		return err
	}

	tw := a.table()
	fmt.Fprintln(tw, "ID\tUSERNAME\tFULL NAME\tROLE")
	for _, u := range users {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", u.ID, u.Username, u.FullName, u.Role)
	}
	return tw.Flush()
}

func (a *App) AddUser(ctx context.Context, _ []string) error {
	username, err := a.ask("Username")
	if err != nil {
		return err
	}
	fullName, err := a.ask("Full name")
	if err != nil {
		return err
	}
	password, err := GetPassword(a.reader, "Password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)
	role, err := a.askDefault("Role (ADMIN/USER)", string(models.RoleUser))
	if err != nil {
		return err
	}

	u, err := a.svc.Users.Add(ctx, a.actor(), services.NewUser{
		Username: username,
		Password: string(password),
		FullName: fullName,
		Role:     models.UserRole(strings.ToUpper(role)),
	})
	if err != nil {
		return err
	}
	a.println("Added user", u.Username, "with id", u.ID)
	return nil
}

func (a *App) DeleteUser(ctx context.Context, args []string) error {
	id, err := oneArg(args)
	if err != nil {
		return err
	}
	if !a.confirm("Delete user " + id + "?") {
		a.println("Cancelled")
		return nil
	}
	if err := a.svc.Users.Delete(ctx, a.actor(), id); err != nil {
		return err
	}
	a.println("User deleted")
	return nil
}

func (a *App) Passwd(ctx context.Context, args []string) error {
	id, err := oneArg(args)
	if err != nil {
		return err
	}
	password, err := GetPassword(a.reader, "New password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.svc.Users.ResetPassword(ctx, a.actor(), id, string(password)); err != nil {
		return err
	}
	a.println("Password changed")
	return nil
}

func (a *App) Profile(ctx context.Context, _ []string) error {
	me := a.actor()

	fullName, err := a.askDefault("Full name", me.FullName)
	if err != nil {
		return err
	}
	username, err := a.askDefault("Username", me.Username)
	if err != nil {
		return err
	}

	u, err := a.svc.Users.UpdateProfile(ctx, me, fullName, username)
	if err != nil {
		return err
	}
	a.println("Profile updated:", u.FullName, "("+u.Username+")")
	return nil
}

// Title prints the application title, or sets it when words follow.
func (a *App) Title(ctx context.Context, args []string) error {
	if len(args) == 0 {
		a.println(a.svc.Users.AppTitle())
		return nil
	}
	if err := a.svc.Users.SetAppTitle(ctx, a.actor(), strings.Join(args, " ")); err != nil {
		return err
	}
	a.println("Title set to", a.svc.Users.AppTitle())
	return nil
}

package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/chtime/chtime/internal/common"
	"github.com/chtime/chtime/internal/policy"
)

func registrationPatch(enabled bool) policy.Patch {
	return policy.Patch{RegistrationEnabled: &enabled}
}

// Command handlers print their own outcomes and return the error only so
// callers (and tests) can observe it; the REPL ignores it by design.

func (a *App) Register(ctx context.Context) error {
	username, err := GetSimpleText(a.reader, "Enter username", os.Stdout)
	if err != nil {
		fmt.Println(err.Error())
		return err
	}
	email, err := GetSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		fmt.Println(err.Error())
		return err
	}
	password, err := GetPassword(os.Stdout)
	if err != nil {
		fmt.Println(err.Error())
		return err
	}
	defer common.WipeByteArray(password)

	ident, err := a.manager.Register(ctx, username, email, string(password))
	if err != nil {
		fmt.Println(err.Error())
		return err
	}

	fmt.Printf("Registered %s (%s)\n", ident.Username, ident.Role)
	return nil
}

func (a *App) Login(ctx context.Context) error {
	login, err := GetSimpleText(a.reader, "Enter username or email", os.Stdout)
	if err != nil {
		fmt.Println(err.Error())
		return err
	}
	password, err := GetPassword(os.Stdout)
	if err != nil {
		fmt.Println(err.Error())
		return err
	}
	defer common.WipeByteArray(password)

	ident, err := a.manager.Login(ctx, login, string(password))
	if err != nil {
		fmt.Println(err.Error())
		return err
	}

	fmt.Printf("Welcome, %s!\n", ident.Username)
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	if err := a.manager.Logout(ctx); err != nil {
		fmt.Println(err.Error())
		return err
	}
	fmt.Println("Logged out")
	return nil
}

func (a *App) WhoAmI(ctx context.Context) error {
	ident := a.manager.CurrentIdentity(ctx)
	if ident == nil {
		fmt.Println("Not logged in")
		return nil
	}
	fmt.Printf("%s <%s> role=%s\n", ident.Username, ident.Email, ident.Role)
	if ident.LastLoginAt != nil {
		fmt.Printf("Last login: %s\n", ident.LastLoginAt.Time)
	}
	return nil
}

func (a *App) ShowPolicy(ctx context.Context) error {
	p, err := a.manager.GetSystemPolicy(ctx)
	if err != nil {
		fmt.Println(err.Error())
		return err
	}
	fmt.Printf("Registration enabled: %t\n", p.RegistrationEnabled)
	return nil
}

func (a *App) SetRegistration(ctx context.Context, enabled bool) error {
	if !a.manager.UpdateSystemPolicy(ctx, registrationPatch(enabled)) {
		fmt.Println("Not permitted: admin required")
		return common.ErrNotAuthorized
	}
	fmt.Printf("Registration enabled: %t\n", enabled)
	return nil
}

func (a *App) Bootstrap(ctx context.Context) error {
	msg, err := a.manager.BootstrapFirstAdmin(ctx)
	if err != nil {
		fmt.Println(err.Error())
		return err
	}
	fmt.Println(msg)
	return nil
}

func (a *App) Promote(ctx context.Context) error {
	username, err := GetSimpleText(a.reader, "Enter username to promote", os.Stdout)
	if err != nil {
		fmt.Println(err.Error())
		return err
	}

	msg, err := a.manager.PromoteToAdmin(ctx, username)
	if err != nil {
		fmt.Println(err.Error())
		return err
	}
	fmt.Println(msg)
	return nil
}

func (a *App) Reset(ctx context.Context) error {
	confirm, err := GetSimpleText(a.reader, "Type 'yes' to wipe all auth data", os.Stdout)
	if err != nil {
		fmt.Println(err.Error())
		return err
	}
	if confirm != "yes" {
		fmt.Println("Aborted")
		return nil
	}

	if err := a.manager.Reset(ctx); err != nil {
		fmt.Println(err.Error())
		return err
	}
	fmt.Println("All auth data removed")
	return nil
}

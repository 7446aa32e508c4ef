package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/resumeforge/resumeforge/internal/client/api"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// promptCredentials asks for an email and a password.
func (a *App) promptCredentials() (string, string, error) {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return "", "", err
	}
	password, err := getPassword(os.Stdout)
	if err != nil {
		return "", "", err
	}
	return email, string(password), nil
}

// Login prompts for credentials and authenticates. On success the session
// lands on the account's identity; on failure the session state is unchanged
// and the server's message is shown.
func (a *App) Login(ctx context.Context) error {
	email, password, err := a.promptCredentials()
	if err != nil {
		return err
	}

	if err := a.session.Login(ctx, email, password); err != nil {
		if se, ok := api.AsStatusError(err); ok {
			fmt.Println("Login failed:", se.Detail)
			return nil
		}
		return err
	}

	fmt.Println("Logged in as", a.session.Current().Identity.Email)
	return nil
}

// Register prompts for credentials and creates a new account. Registration
// never authenticates: the address has to be verified first.
func (a *App) Register(ctx context.Context) error {
	email, password, err := a.promptCredentials()
	if err != nil {
		return err
	}

	if err := a.session.Register(ctx, email, password); err != nil {
		if se, ok := api.AsStatusError(err); ok {
			fmt.Println("Registration failed:", se.Detail)
			return nil
		}
		return err
	}

	fmt.Println("Account created. Verify the address in your inbox, then log in.")
	return nil
}

// Guest starts a server-side guest session that can be upgraded later.
func (a *App) Guest(ctx context.Context) error {
	if err := a.session.LoginAsGuest(ctx); err != nil {
		return err
	}
	fmt.Println("Guest session started.")
	return nil
}

// Upgrade converts the current guest session into a permanent account.
func (a *App) Upgrade(ctx context.Context) error {
	email, password, err := a.promptCredentials()
	if err != nil {
		return err
	}

	if err := a.session.UpgradeAccount(ctx, email, password); err != nil {
		if se, ok := api.AsStatusError(err); ok {
			fmt.Println("Upgrade failed:", se.Detail)
			return nil
		}
		return err
	}

	fmt.Println("Account upgraded. Verify the address in your inbox.")
	return nil
}

// ChangeEmail updates the address of an account that has not verified yet.
func (a *App) ChangeEmail(ctx context.Context) error {
	email, password, err := a.promptCredentials()
	if err != nil {
		return err
	}

	if err := a.session.ChangeEmail(ctx, email, password); err != nil {
		if se, ok := api.AsStatusError(err); ok {
			fmt.Println("Email change failed:", se.Detail)
			return nil
		}
		return err
	}

	fmt.Println("Email updated. Verify the new address in your inbox.")
	return nil
}

// WhoAmI prints the current session identity.
func (a *App) WhoAmI(ctx context.Context) error {
	st := a.session.Current()
	if st.Loading {
		fmt.Println("Session is still resolving.")
		return nil
	}
	if !st.Authenticated() {
		fmt.Println("Not logged in.")
		return nil
	}
	fmt.Printf("%s (%s)\n", st.Identity.Email, st.Identity.Kind)
	return nil
}

// Logout ends the session and wipes the local drafts. The editor is emptied
// through the session subscription, so a forced logout behaves identically.
func (a *App) Logout(ctx context.Context) error {
	a.session.Logout(ctx)
	if err := a.drafts.Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear local drafts: %w", err)
	}
	fmt.Println("Logged out.")
	return nil
}

var errNotLoggedIn = errors.New("not logged in")

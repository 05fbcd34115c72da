package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/kracker/internal/client/client"
	"github.com/dmitrijs2005/kracker/internal/common"
)

const authServiceName = "kracker.auth"

var errNotLoggedIn = errors.New("not logged in")

func (a *App) Register(ctx context.Context) error {
	userName, err := PromptText(a.reader, a.out, "User name")
	if err != nil {
		return a.fail(err)
	}
	email, err := PromptText(a.reader, a.out, "Email (optional)")
	if err != nil {
		return a.fail(err)
	}
	password, err := PromptPassword(a.reader, a.out, "Password (6+ characters)")
	if err != nil {
		return a.fail(err)
	}
	defer common.WipeByteArray(password)

	ctx, cancel := a.requestContext(ctx)
	defer cancel()

	res, err := a.api.Register(ctx, userName, email, string(password))
	if err != nil {
		return a.fail(err)
	}

	a.token, a.userName = res.AccessToken, res.UserName
	fmt.Fprintf(a.out, "Registered %s (id %s)\n", res.UserName, res.ID)
	return nil
}

func (a *App) Login(ctx context.Context) error {
	login, err := PromptText(a.reader, a.out, "User name or email")
	if err != nil {
		return a.fail(err)
	}
	password, err := PromptPassword(a.reader, a.out, "Password")
	if err != nil {
		return a.fail(err)
	}
	defer common.WipeByteArray(password)

	ctx, cancel := a.requestContext(ctx)
	defer cancel()

	res, err := a.api.Login(ctx, login, string(password))
	if err != nil {
		return a.fail(err)
	}

	a.token, a.userName = res.AccessToken, res.UserName
	fmt.Fprintln(a.out, "Login successful")
	return nil
}

func (a *App) Me(ctx context.Context) error {
	if !a.isLoggedIn() {
		return a.fail(errNotLoggedIn)
	}

	ctx, cancel := a.requestContext(ctx)
	defer cancel()

	id, err := a.api.Me(ctx, a.token)
	if err != nil {
		if errors.Is(err, client.ErrUnauthorized) {
			a.token, a.userName = "", ""
			fmt.Fprintln(a.out, "Session expired, please log in again")
		}
		return a.fail(err)
	}

	fmt.Fprintf(a.out, "id: %s\nusername: %s\n", id.ID, id.UserName)
	return nil
}

func (a *App) Health(ctx context.Context) error {
	ctx, cancel := a.requestContext(ctx)
	defer cancel()

	h, err := a.api.Health(ctx)
	if err != nil {
		return a.fail(err)
	}
	line := fmt.Sprintf("http: ok=%t db=%s", h.OK, h.DB)
	if h.DBError != "" {
		line += " (" + h.DBError + ")"
	}
	fmt.Fprintln(a.out, line)

	st, err := a.probe.Check(ctx, authServiceName)
	if err != nil {
		fmt.Fprintf(a.out, "grpc: %v\n", err)
		return nil
	}
	fmt.Fprintf(a.out, "grpc: %s\n", st)
	return nil
}

func (a *App) Logout(context.Context) error {
	a.token, a.userName = "", ""
	fmt.Fprintln(a.out, "Logged out")
	return nil
}

func (a *App) fail(err error) error {
	fmt.Fprintf(a.out, "error: %v\n", err)
	return err
}

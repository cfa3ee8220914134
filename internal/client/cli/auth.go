package cli

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/radarnarcisista/cartaselo/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register prompts the user for a username and password and creates a new
// account. The password byte slice is wiped before returning.
func (a *App) Register(ctx context.Context) error {
	userName, err := getSimpleText(a.reader, "Nome de usuário", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.apiClient.Register(ctx, userName, string(password)); err != nil {
		log.Printf("registro falhou: %s", err.Error())
		return err
	}

	fmt.Println("Conta criada. Use 'login' para entrar.")
	return nil
}

// Login prompts for credentials and authenticates against the server. On
// success the client holds a token pair and a.userName is set.
func (a *App) Login(ctx context.Context) error {
	userName, err := getSimpleText(a.reader, "Nome de usuário", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.apiClient.Login(ctx, userName, string(password)); err != nil {
		log.Printf("login falhou: %s", err.Error())
		return err
	}

	a.userName = userName
	fmt.Println("Login efetuado.")
	return nil
}

package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
)

func (a *App) getStatus() string {
	s := ""
	if a.userName != "" {
		s = a.userName
	}
	if a.current != nil {
		short := a.current.ID
		if len(short) > 8 {
			short = short[:8]
		}
		s = s + " " + short
		if a.current.Sealed() {
			s = s + "*"
		}
	}
	s = strings.TrimSpace(s)
	if s != "" {
		s = fmt.Sprintf("(%s)", s)
	}
	return s
}

func (a *App) Root(ctx context.Context) {

	fmt.Println("Carta-Selo: escreva, sele, guarde. ('help' para comandos)")
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Printf("carta %s> ", a.getStatus())
		if !scanner.Scan() {
			break
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				fmt.Println("Comandos: new, (l)ist, open <id>, show, write <seção>, seal, export [arquivo], link, exit")
			} else {
				fmt.Println("Comandos: register, login, exit")
			}

		case "register":
			_ = a.Register(ctx)
		case "login":
			_ = a.Login(ctx)
		case "new":
			_ = a.New(ctx)
		case "l", "list":
			_ = a.List(ctx)
		case "open":
			if len(args) == 0 {
				fmt.Println("Uso: open <id>")
				continue
			}
			_ = a.Open(ctx, args[0])
		case "show":
			_ = a.Show(ctx)
		case "write":
			if len(args) == 0 {
				fmt.Println("Uso: write <seção>")
				continue
			}
			_ = a.Write(ctx, args[0])
		case "seal":
			_ = a.Seal(ctx)
		case "export":
			fileName := ""
			if len(args) > 0 {
				fileName = args[0]
			}
			_ = a.Export(ctx, fileName)
		case "link":
			_ = a.Link(ctx)
		case "exit", "quit":
			fmt.Println("Até logo!")
			return
		default:
			fmt.Println("Comando desconhecido:", cmd)
		}
	}

}

package cli

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/radarnarcisista/cartaselo/internal/client/api"
)

// Seal closes the current draft for good: the server computes the content
// hash and timestamp, and no further edits are accepted. The user must type
// "selar" to confirm, since there is no way back.
func (a *App) Seal(ctx context.Context) error {
	if a.current == nil {
		fmt.Println("Nenhuma carta aberta. Use 'open <id>' ou 'new'.")
		return nil
	}
	if a.current.Sealed() {
		fmt.Println("Esta carta já foi selada.")
		return nil
	}

	fmt.Println("Selar é definitivo: a carta não poderá mais ser editada.")
	answer, err := getSimpleText(a.reader, "Digite 'selar' para confirmar", os.Stdout)
	if err != nil {
		return err
	}
	if answer != "selar" {
		fmt.Println("Cancelado.")
		return nil
	}

	seal, err := a.apiClient.Seal(ctx, a.current.ID)
	if err != nil {
		var ase *api.AlreadySealedError
		if errors.As(err, &ase) {
			// someone else sealed first; show the seal that already exists
			a.current.Status = "sealed"
			a.current.Seal = ase.Seal
			fmt.Println("Esta carta já foi selada em outra sessão.")
			fmt.Printf("Hash de integridade: %s\n", ase.Seal.ContentHash)
			fmt.Printf("Selada em: %s\n", ase.Seal.SealedAt.Local().Format("02/01/2006 15:04:05"))
			fmt.Printf("Sessão: %s\n", ase.Seal.SessionID)
			return nil
		}
		if errors.Is(err, api.ErrConflict) {
			fmt.Println("Esta carta já foi selada em outra sessão.")
			return nil
		}
		log.Printf("erro: %v", err)
		return err
	}

	a.current.Status = "sealed"
	a.current.Seal = seal

	fmt.Println("Carta selada.")
	fmt.Printf("Hash de integridade: %s\n", seal.ContentHash)
	fmt.Printf("Selada em: %s\n", seal.SealedAt.Local().Format("02/01/2006 15:04:05"))
	fmt.Printf("Sessão: %s\n", seal.SessionID)
	return nil
}

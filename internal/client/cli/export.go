package cli

import (
	"context"
	"fmt"
	"log"
	"os"
)

// Export fetches the plain-text rendering of the current draft. With a file
// name it writes to disk, otherwise it prints to stdout.
func (a *App) Export(ctx context.Context, fileName string) error {
	if a.current == nil {
		fmt.Println("Nenhuma carta aberta. Use 'open <id>' ou 'new'.")
		return nil
	}

	text, err := a.apiClient.Export(ctx, a.current.ID)
	if err != nil {
		log.Printf("erro: %v", err)
		return err
	}

	if fileName == "" {
		fmt.Println(text)
		return nil
	}

	if err := os.WriteFile(fileName, []byte(text), 0o600); err != nil {
		log.Printf("erro ao gravar %s: %v", fileName, err)
		return err
	}
	fmt.Printf("Carta gravada em %s\n", fileName)
	return nil
}

// Link asks the server for an expiring download URL for the current draft.
func (a *App) Link(ctx context.Context) error {
	if a.current == nil {
		fmt.Println("Nenhuma carta aberta. Use 'open <id>' ou 'new'.")
		return nil
	}

	url, err := a.apiClient.ExportLink(ctx, a.current.ID)
	if err != nil {
		log.Printf("erro: %v", err)
		return err
	}

	fmt.Println("Link de download (expira automaticamente):")
	fmt.Println(url)
	return nil
}

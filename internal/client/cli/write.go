package cli

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/radarnarcisista/cartaselo/internal/client/api"
)

// getMultiline is an indirection over GetMultiline for tests.
var getMultiline = GetMultiline

// Write replaces the content of one section of the current draft. The
// existing content is shown first so the user edits with context.
func (a *App) Write(ctx context.Context, sectionID string) error {
	if a.current == nil {
		fmt.Println("Nenhuma carta aberta. Use 'open <id>' ou 'new'.")
		return nil
	}
	if a.current.Sealed() {
		fmt.Println("Esta carta já foi selada e não pode mais ser editada.")
		return nil
	}

	var section *api.Section
	for i := range a.current.Sections {
		if a.current.Sections[i].ID == sectionID {
			section = &a.current.Sections[i]
			break
		}
	}
	if section == nil {
		fmt.Printf("Seção desconhecida: %s\n", sectionID)
		printSectionIndex(a.current)
		return nil
	}

	if section.Content != "" {
		fmt.Printf("Conteúdo atual de [%s] %s:\n%s\n\n", section.ID, section.Title, section.Content)
	}

	content, err := getMultiline(a.reader, fmt.Sprintf("Escreva a seção %q", section.Title), os.Stdout)
	if err != nil {
		return err
	}

	draft, err := a.apiClient.UpdateSection(ctx, a.current.ID, sectionID, content)
	if err != nil {
		if errors.Is(err, api.ErrConflict) {
			fmt.Println("Esta carta foi selada em outra sessão e não aceita mais edições.")
			return nil
		}
		log.Printf("erro: %v", err)
		return err
	}

	a.current = draft
	fmt.Println("Seção salva.")
	return nil
}

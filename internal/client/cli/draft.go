package cli

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/radarnarcisista/cartaselo/internal/client/api"
)

// New creates a fresh draft from the section template and makes it current.
func (a *App) New(ctx context.Context) error {
	draft, err := a.apiClient.CreateDraft(ctx)
	if err != nil {
		log.Printf("erro: %v", err)
		return err
	}

	a.current = draft
	fmt.Printf("Nova carta criada: %s\n", draft.ID)
	printSectionIndex(draft)
	return nil
}

// List prints the user's drafts and sealed letters, newest first.
func (a *App) List(ctx context.Context) error {
	drafts, err := a.apiClient.ListDrafts(ctx)
	if err != nil {
		log.Printf("erro: %v", err)
		return err
	}

	if len(drafts) == 0 {
		fmt.Println("Nenhuma carta ainda. Use 'new' para começar.")
		return nil
	}

	for _, d := range drafts {
		status := "rascunho"
		if d.Sealed() {
			status = "selada em " + d.Seal.SealedAt.Local().Format("02/01/2006 15:04")
		}
		fmt.Printf("%s  [%s]  atualizada %s\n", d.ID, status, d.UpdatedAt.Local().Format("02/01/2006 15:04"))
	}
	return nil
}

// Open loads a draft by id and makes it current.
func (a *App) Open(ctx context.Context, id string) error {
	draft, err := a.apiClient.GetDraft(ctx, id)
	if err != nil {
		log.Printf("erro: %v", err)
		return err
	}

	a.current = draft
	fmt.Printf("Carta %s aberta.\n", draft.ID)
	printSectionIndex(draft)
	return nil
}

// Show prints the current draft in full, seal metadata included.
func (a *App) Show(ctx context.Context) error {
	if a.current == nil {
		fmt.Println("Nenhuma carta aberta. Use 'open <id>' ou 'new'.")
		return nil
	}

	draft, err := a.apiClient.GetDraft(ctx, a.current.ID)
	if err != nil {
		log.Printf("erro: %v", err)
		return err
	}
	a.current = draft

	fmt.Printf("Carta %s\n", draft.ID)
	if draft.Sealed() && draft.Seal != nil {
		fmt.Printf("Selada em: %s\n", draft.Seal.SealedAt.Local().Format("02/01/2006 15:04:05"))
		fmt.Printf("Hash: %s\n", draft.Seal.ContentHash)
		fmt.Printf("Sessão: %s\n", draft.Seal.SessionID)
	} else {
		fmt.Println("Status: rascunho (ainda editável)")
	}

	for _, s := range draft.Sections {
		fmt.Printf("\n[%s] %s\n", s.ID, s.Title)
		if s.Content == "" {
			fmt.Println("(vazio)")
		} else {
			fmt.Println(s.Content)
		}
	}
	fmt.Fprintln(os.Stdout)
	return nil
}

func printSectionIndex(draft *api.Draft) {
	var ids []string
	for _, s := range draft.Sections {
		ids = append(ids, s.ID)
	}
	fmt.Printf("Seções: %s\n", strings.Join(ids, ", "))
	fmt.Println("Use 'write <seção>' para escrever, 'seal' quando terminar.")
}

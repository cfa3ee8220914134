package sealing

import (
	"fmt"
	"strings"
	"time"

	"github.com/radarnarcisista/cartaselo/internal/server/models"
)

// DraftMarker is printed on exports of unsealed drafts so a reader cannot
// mistake them for a verified document.
const DraftMarker = "NÃO SELADA — RASCUNHO (UNSEALED / DRAFT)"

const verificationNote = `Para conferir a integridade desta carta: para cada seção, na ordem acima,
concatene o byte 0x1E, o identificador da seção (entre colchetes), o byte
0x1F e o texto da seção, sem modificações. O texto de cada seção começa
após a linha em branco que segue o cabeçalho [id] e termina na linha
"---- fim da seção ----" (a linha delimitadora e a quebra de linha que a
precede não fazem parte do texto). Aplique SHA-256 ao resultado e compare
o valor hexadecimal com o hash do selo.`

// sectionDelimiter closes each section body, so content lines that look
// like a section header stay inside their section.
const sectionDelimiter = "---- fim da seção ----"

const clockCaveat = `ATENÇÃO: o horário do selo foi informado pelo dispositivo do autor e não
foi atestado pelo servidor. Ele não tem valor probatório independente.`

// Render produces the portable plain-text form of a draft. When letter is
// non-nil the output embeds the seal metadata (hash, timestamp, session id)
// verbatim, followed by the sections in order; otherwise the output is a
// draft dump carrying DraftMarker. Neither input is mutated.
func Render(draft *models.Draft, letter *models.SealedLetter) string {
	var b strings.Builder

	if letter != nil {
		b.WriteString("CARTA COM SELO DE INTEGRIDADE\n")
		b.WriteString("=============================\n\n")
		fmt.Fprintf(&b, "Hash do conteúdo (SHA-256): %s\n", letter.ContentHash)
		fmt.Fprintf(&b, "Selada em: %s\n", letter.SealedAt.UTC().Format(time.RFC3339))
		fmt.Fprintf(&b, "Sessão: %s\n", letter.SessionID)
		fmt.Fprintf(&b, "Carta de origem: %s\n", letter.SourceDraftID)
		if letter.ClockSource != models.ClockSourceServer {
			b.WriteString("\n")
			b.WriteString(clockCaveat)
			b.WriteString("\n")
		}
	} else {
		fmt.Fprintf(&b, "%s\n", DraftMarker)
		fmt.Fprintf(&b, "Carta: %s\n", draft.ID)
		fmt.Fprintf(&b, "Última edição: %s\n", draft.UpdatedAt.UTC().Format(time.RFC3339))
	}

	b.WriteString("\nConteúdo\n--------\n")
	for _, s := range draft.Sections {
		fmt.Fprintf(&b, "\n[%s] %s\n\n", s.ID, s.Title)
		b.WriteString(s.Content)
		b.WriteString("\n")
		b.WriteString(sectionDelimiter)
		b.WriteString("\n")
	}

	if letter != nil {
		b.WriteString("\nVerificação\n-----------\n")
		b.WriteString(verificationNote)
		b.WriteString("\n")
	}

	return b.String()
}

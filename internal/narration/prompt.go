package narration

import (
	"fmt"
	"strings"

	"github.com/cory-johannsen/mazmorra/internal/game/session"
)

const systemPrompt = `ERES EL MASTER DE UNA MAZMORRA SATÍRICA Y LETAL.

REGLAS DE ORO:
1. Eres un narrador crudo, oscuro y con humor negro. No ayudes a los jugadores.
2. Narra SOLO las consecuencias de los HECHOS indicados. Nunca los contradigas ni inventes otros resultados.
3. No cambies puntos de vida, objetos, salidas ni el estado de la partida: el motor ya lo ha decidido.
4. Si un hecho marca una acción como ridícula, búrlate de quien la intentó.
5. Entre 2 y 5 frases, en presente, en español.`

// BuildSystemPrompt returns the fixed narrator instructions.
func BuildSystemPrompt() string {
	return systemPrompt
}

// BuildUserPrompt renders the turn grounding: group, room, flags, recent
// history and the fact lines to narrate.
func BuildUserPrompt(req Request) string {
	var b strings.Builder

	b.WriteString("CONTEXTO DEL GRUPO:\n")
	if len(req.Players) == 0 {
		b.WriteString("- (nadie)\n")
	}
	for _, p := range req.Players {
		fmt.Fprintf(&b, "- %s (%s): HP %d/%d\n", p.Name, p.Race, p.HP, p.MaxHP)
	}

	if req.Room != nil {
		fmt.Fprintf(&b, "\nENTORNO ACTUAL: %s\n%s\n", req.Room.Name, strings.TrimSpace(req.Room.Description))
	}

	if len(req.Flags) > 0 {
		fmt.Fprintf(&b, "\nESTADO DEL MUNDO (ya es cierto): %s\n", strings.Join(req.Flags, ", "))
	}

	if len(req.History) > 0 {
		b.WriteString("\nHISTORIAL RECIENTE:\n")
		for _, m := range req.History {
			b.WriteString(historyLine(m))
		}
	}

	b.WriteString("\nHECHOS DE ESTE TURNO:\n")
	for _, f := range req.FactLines {
		fmt.Fprintf(&b, "- %s\n", strings.TrimSpace(f))
	}
	b.WriteString("\nNarra estos hechos. No inventes hechos adicionales.")
	return b.String()
}

func historyLine(m session.Message) string {
	switch m.Role {
	case session.RoleUser:
		return fmt.Sprintf("[%s] %s\n", m.PlayerName, m.Content)
	case session.RoleAssistant:
		return fmt.Sprintf("[Master] %s\n", m.Content)
	default:
		return fmt.Sprintf("[Sistema] %s\n", m.Content)
	}
}

package character

import (
	"fmt"
	"sort"
	"strings"
)

// RaceType names a playable race.
type RaceType string

// Playable races.
const (
	Humano RaceType = "Humano"
	Elfo   RaceType = "Elfo"
	Enano  RaceType = "Enano"
	Orco   RaceType = "Orco"
)

// Race holds the fixed base attributes and flavor data of a race.
type Race struct {
	Name           RaceType          `json:"name"`
	Description    string            `json:"description"`
	Traits         []string          `json:"traits"`
	BaseAttributes Attributes        `json:"baseAttributes"`
	Prejudices     map[string]string `json:"prejudices"`
}

var races = map[RaceType]*Race{
	Humano: {
		Name:           Humano,
		Description:    "Equilibrados y ambiciosos. Poseen una aptitud natural para la magia pero son vulnerables a la manipulación mental.",
		Traits:         []string{"Aptitud Mágica", "Vulnerable Mentalmente"},
		BaseAttributes: Attributes{Fuerza: 5, Agilidad: 5, Intelecto: 5, Presencia: 5},
		Prejudices: map[string]string{
			"Elfo":   "Fascinación por su nobleza",
			"Enano":  "Tolerancia",
			"Orco":   "Odio profundo",
			"Goblin": "Odio profundo",
		},
	},
	Elfo: {
		Name:           Elfo,
		Description:    "Seres gráciles y casi inmortales. Valoran la sabiduría por encima de todo; la estupidez es su mayor tabú.",
		Traits:         []string{"Resistencia Mágica", "Gracia Natural", "Prestigio Frágil"},
		BaseAttributes: Attributes{Fuerza: 3, Agilidad: 7, Intelecto: 7, Presencia: 3},
		Prejudices: map[string]string{
			"Humano":  "Tolerancia condescendiente",
			"Enano":   "Insoportables",
			"Orco":    "Aversión total",
			"Demonio": "Aborrecimiento",
		},
	},
	Enano: {
		Name:           Enano,
		Description:    "Fuertes, astutos y amantes de la buena cerveza. Incapaces de usar magia, pero extremadamente resistentes a ella.",
		Traits:         []string{"Inmune al Control Mental", "Resistencia Mágica Superior", "Almas Libres"},
		BaseAttributes: Attributes{Fuerza: 8, Agilidad: 3, Intelecto: 2, Presencia: 7},
		Prejudices: map[string]string{
			"Humano": "Tolerancia comercial",
			"Elfo":   "Prepotentes de orejas largas",
			"Orco":   "Enemigos ancestrales",
		},
	},
	Orco: {
		Name:           Orco,
		Description:    "Parias impulsivos buscadores de reconocimiento. Poseen gran potencial pero caen fácilmente ante sus instintos.",
		Traits:         []string{"Impulsividad Salvaje", "Gran Potencial Mágico", "Debilidad Mental"},
		BaseAttributes: Attributes{Fuerza: 9, Agilidad: 4, Intelecto: 1, Presencia: 6},
		Prejudices: map[string]string{
			"Humano": "Envidia",
			"Elfo":   "Detestables",
			"Enano":  "Tolerancia",
			"Orco":   "Desprecio por los intelectuales",
		},
	},
}

// LookupRace returns the race with the given name, matched case-insensitively.
//
// Postcondition: Returns ErrUnknownRace (wrapped) when no race matches.
func LookupRace(name string) (*Race, error) {
	for id, r := range races {
		if strings.EqualFold(string(id), strings.TrimSpace(name)) {
			return r, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownRace, name)
}

// AllRaces returns every playable race sorted by name.
func AllRaces() []*Race {
	out := make([]*Race, 0, len(races))
	for _, r := range races {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

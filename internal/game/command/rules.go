package command

import "strings"

// Intent is the mechanical category of a player action.
type Intent int

// Intents in classification priority order.
const (
	IntentAbsurd Intent = iota
	IntentCombat
	IntentSocial
	IntentMovement
	IntentPickup
	IntentObserve
)

// String returns the intent label used in logs and metrics.
func (i Intent) String() string {
	switch i {
	case IntentAbsurd:
		return "absurd"
	case IntentCombat:
		return "combat"
	case IntentSocial:
		return "social"
	case IntentMovement:
		return "movement"
	case IntentPickup:
		return "pickup"
	case IntentObserve:
		return "observe"
	default:
		return "unknown"
	}
}

// Rule maps keywords to an intent. A rule matches when any phrase occurs as
// a substring of the normalized text or any word occurs as a whole token.
type Rule struct {
	Intent  Intent
	Phrases []string
	Words   []string
}

// Matches reports whether the rule applies to normalized text.
func (r Rule) Matches(text string) bool {
	for _, p := range r.Phrases {
		if strings.Contains(text, p) {
			return true
		}
	}
	for _, w := range r.Words {
		if ContainsWord(text, w) {
			return true
		}
	}
	return false
}

// exitWords request "any way out" without naming a direction.
var exitWords = []string{"salir", "exit", "leave"}

// Rules is the classification table. Earlier rules shadow later ones; an
// action that matches none is IntentObserve. Keywords are normalized
// (lowercase, no accents). Phrases are Spanish stems and multi-word
// expressions; short verbs that hide inside other words ("kill" in "skill",
// "entrar" in "concentrar") are whole words.
var Rules = []Rule{
	{
		Intent: IntentAbsurd,
		Phrases: []string{
			"volar", "teletransport", "destruir el mundo", "saltar 10 pisos", "matar a todos",
			"superpoder", "invencible", "crear",
			"destroy the world", "kill everyone",
		},
		Words: []string{"fly", "wish", "teleport", "superpower", "invincible"},
	},
	{
		Intent:  IntentCombat,
		Phrases: []string{"atacar", "ataco", "golpear", "golpeo", "matar", "pelear"},
		Words:   []string{"attack", "strike", "kill", "fight", "hit"},
	},
	{
		Intent:  IntentSocial,
		Phrases: []string{"hablar", "convencer", "enganar", "intimidar", "decir", "persuadir"},
		Words:   []string{"talk", "convince", "deceive", "intimidate", "speak", "persuade"},
	},
	{
		Intent: IntentMovement,
		Words: []string{
			"ir", "voy", "moverse", "muevo", "entrar", "entro", "salir", "salgo",
			"caminar", "camino", "avanzar", "avanzo",
			"norte", "sur", "oeste", "exterior", "arriba", "abajo",
			"go", "move", "enter", "exit", "leave", "north", "south", "east", "west",
		},
	},
	{
		Intent:  IntentPickup,
		Phrases: []string{"coger", "tomar", "agarrar", "recoger", "pick up"},
		Words:   []string{"take", "grab"},
	},
}

// Classify returns the intent of raw by the first matching rule.
//
// Postcondition: an action matching an absurd pattern is always IntentAbsurd.
func Classify(raw string) Intent {
	return ClassifyNormalized(Normalize(raw))
}

// ClassifyNormalized is Classify for text already passed through Normalize.
func ClassifyNormalized(text string) Intent {
	for _, r := range Rules {
		if r.Matches(text) {
			return r.Intent
		}
	}
	return IntentObserve
}

// WantsAnyExit reports whether text asks to leave without naming a direction.
func WantsAnyExit(text string) bool {
	for _, w := range exitWords {
		if ContainsWord(text, w) {
			return true
		}
	}
	return false
}

// Approach is the flavor of a social action.
type Approach int

// Social approaches.
const (
	ApproachTalk Approach = iota
	ApproachIntimidate
	ApproachConvince
)

// String returns the approach label.
func (a Approach) String() string {
	switch a {
	case ApproachIntimidate:
		return "intimidate"
	case ApproachConvince:
		return "convince"
	default:
		return "talk"
	}
}

// SocialApproach picks the approach of a social action. Intimidation wins
// over convincing when both appear.
func SocialApproach(text string) Approach {
	switch {
	case strings.Contains(text, "intimid"):
		return ApproachIntimidate
	case strings.Contains(text, "conven"), strings.Contains(text, "convinc"),
		strings.Contains(text, "persua"):
		return ApproachConvince
	default:
		return ApproachTalk
	}
}

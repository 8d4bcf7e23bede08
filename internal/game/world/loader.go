package world

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/mazmorra/internal/game/dice"
)

// Defaults applied to enemies whose content omits combat stats.
const (
	DefaultEnemyHP     = 30
	DefaultEnemyDamage = 6
)

// yamlZoneFile is the top-level YAML structure for zone files.
type yamlZoneFile struct {
	Zone yamlZone `yaml:"zone"`
}

type yamlZone struct {
	ID          string     `yaml:"id"`
	Name        string     `yaml:"name"`
	Description string     `yaml:"description"`
	StartRoom   string     `yaml:"start_room"`
	VictoryRoom string     `yaml:"victory_room"`
	Rooms       []yamlRoom `yaml:"rooms"`
}

type yamlRoom struct {
	ID          string       `yaml:"id"`
	Name        string       `yaml:"name"`
	Description string       `yaml:"description"`
	Entities    []yamlEntity `yaml:"entities"`
	Items       []yamlItem   `yaml:"items"`
	Exits       []yamlExit   `yaml:"exits"`
}

type yamlEntity struct {
	ID           string      `yaml:"id"`
	Name         string      `yaml:"name"`
	Description  string      `yaml:"description"`
	Race         string      `yaml:"race"`
	Enemy        bool        `yaml:"enemy"`
	HP           int         `yaml:"hp"`
	MaxHP        int         `yaml:"max_hp"`
	Damage       damageSpec  `yaml:"damage"`
	DropsFlag    string      `yaml:"drops_flag"`
	RequiredFlag string      `yaml:"required_flag"`
	MissingFlag  string      `yaml:"missing_flag"`
	Social       *yamlSocial `yaml:"social"`
}

type yamlSocial struct {
	IntimidateFlag string `yaml:"intimidate_flag"`
	PersuadeFlag   string `yaml:"persuade_flag"`
}

type yamlItem struct {
	ID           string `yaml:"id"`
	Name         string `yaml:"name"`
	Description  string `yaml:"description"`
	Takeable     bool   `yaml:"takeable"`
	RequiredFlag string `yaml:"required_flag"`
	MissingFlag  string `yaml:"missing_flag"`
}

type yamlExit struct {
	Direction     string `yaml:"direction"`
	Target        string `yaml:"target"`
	Condition     string `yaml:"condition"`
	LockedMessage string `yaml:"locked_message"`
}

// LoadZoneFromBytes parses and validates a zone from YAML bytes.
//
// Missing ids are rejected; missing names default to the id and missing
// descriptions default to the name.
// Postcondition: Returns a validated Zone or a non-nil error; never panics.
func LoadZoneFromBytes(data []byte) (*Zone, error) {
	var file yamlZoneFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing zone YAML: %w", err)
	}
	zone, err := convertYAMLZone(file.Zone)
	if err != nil {
		return nil, err
	}
	if err := zone.Validate(); err != nil {
		return nil, fmt.Errorf("validating zone: %w", err)
	}
	return zone, nil
}

// LoadZonesFromFS loads every *.yaml / *.yml file in dir of fsys as a zone.
//
// Postcondition: Returns all validated zones or the first error encountered.
func LoadZonesFromFS(fsys fs.FS, dir string) ([]*Zone, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("reading zone directory %s: %w", dir, err)
	}

	var zones []*Zone
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasSuffix(name, ".yaml") && !strings.HasSuffix(name, ".yml") {
			continue
		}
		data, err := fs.ReadFile(fsys, path.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("reading zone file %s: %w", name, err)
		}
		zone, err := LoadZoneFromBytes(data)
		if err != nil {
			return nil, fmt.Errorf("loading zone from %s: %w", name, err)
		}
		zones = append(zones, zone)
	}

	if len(zones) == 0 {
		return nil, fmt.Errorf("no zone files found in %s", dir)
	}
	return zones, nil
}

// LoadZonesFromDir loads all YAML files in a directory on disk as zones.
func LoadZonesFromDir(dir string) ([]*Zone, error) {
	return LoadZonesFromFS(os.DirFS(dir), ".")
}

func convertYAMLZone(yz yamlZone) (*Zone, error) {
	if yz.ID == "" {
		return nil, fmt.Errorf("zone ID must not be empty")
	}
	zone := &Zone{
		ID:          yz.ID,
		Name:        orDefault(yz.Name, yz.ID),
		Description: strings.TrimSpace(yz.Description),
		StartRoom:   yz.StartRoom,
		VictoryRoom: yz.VictoryRoom,
		Rooms:       make(map[string]*Room, len(yz.Rooms)),
	}

	seen := make(map[string]string)
	for i, yr := range yz.Rooms {
		if yr.ID == "" {
			return nil, fmt.Errorf("zone %q: room #%d: id must not be empty", yz.ID, i)
		}
		if _, dup := zone.Rooms[yr.ID]; dup {
			return nil, fmt.Errorf("zone %q: duplicate room id %q", yz.ID, yr.ID)
		}
		name := orDefault(yr.Name, yr.ID)
		room := &Room{
			ID:          yr.ID,
			ZoneID:      yz.ID,
			Name:        name,
			Description: orDefault(strings.TrimSpace(yr.Description), name),
		}
		for j, ye := range yr.Entities {
			ent, err := convertEntity(ye)
			if err != nil {
				return nil, fmt.Errorf("zone %q: room %q: entity #%d: %w", yz.ID, yr.ID, j, err)
			}
			if other, dup := seen[ent.ID]; dup {
				return nil, fmt.Errorf("zone %q: entity id %q used in rooms %q and %q", yz.ID, ent.ID, other, yr.ID)
			}
			seen[ent.ID] = yr.ID
			room.Entities = append(room.Entities, ent)
		}
		for j, yi := range yr.Items {
			if yi.ID == "" {
				return nil, fmt.Errorf("zone %q: room %q: item #%d: id must not be empty", yz.ID, yr.ID, j)
			}
			itemName := orDefault(yi.Name, yi.ID)
			room.Items = append(room.Items, &Item{
				ID:          yi.ID,
				Name:        itemName,
				Description: orDefault(strings.TrimSpace(yi.Description), itemName),
				Takeable:    yi.Takeable,
				Visibility:  Visibility{RequiredFlag: yi.RequiredFlag, MissingFlag: yi.MissingFlag},
			})
		}
		for _, yx := range yr.Exits {
			room.Exits = append(room.Exits, Exit{
				Direction:     yx.Direction,
				TargetRoom:    yx.Target,
				Condition:     yx.Condition,
				LockedMessage: orDefault(strings.TrimSpace(yx.LockedMessage), "El paso está bloqueado."),
			})
		}
		zone.Rooms[room.ID] = room
	}
	return zone, nil
}

func convertEntity(ye yamlEntity) (*Entity, error) {
	if ye.ID == "" {
		return nil, fmt.Errorf("id must not be empty")
	}
	name := orDefault(ye.Name, ye.ID)
	ent := &Entity{
		ID:          ye.ID,
		Name:        name,
		Description: orDefault(strings.TrimSpace(ye.Description), name),
		Race:        ye.Race,
		IsEnemy:     ye.Enemy,
		DropsFlag:   ye.DropsFlag,
		Visibility:  Visibility{RequiredFlag: ye.RequiredFlag, MissingFlag: ye.MissingFlag},
	}
	if ye.Enemy || ye.HP > 0 {
		dmg, err := parseDamage(string(ye.Damage))
		if err != nil {
			return nil, fmt.Errorf("entity %q: %w", ye.ID, err)
		}
		stats := &CombatStats{HP: ye.HP, MaxHP: ye.MaxHP, Damage: dmg}
		if stats.HP <= 0 {
			stats.HP = DefaultEnemyHP
		}
		if stats.MaxHP < stats.HP {
			stats.MaxHP = stats.HP
		}
		if stats.Damage <= 0 {
			stats.Damage = DefaultEnemyDamage
		}
		ent.Stats = stats
	}
	if ye.Social != nil {
		ent.Social = &Social{
			IntimidateFlag: ye.Social.IntimidateFlag,
			PersuadeFlag:   ye.Social.PersuadeFlag,
		}
	}
	return ent, nil
}

// damageSpec is a die size ("6") or a single-die expression ("1d6"). It
// accepts any scalar so plain integers need no quoting.
type damageSpec string

func (d *damageSpec) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: damage must be a scalar", n.Line)
	}
	*d = damageSpec(n.Value)
	return nil
}

// parseDamage returns the die size of an enemy's damage roll. Empty means
// the default.
func parseDamage(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	expr, err := dice.Parse(s)
	if err != nil {
		return 0, fmt.Errorf("damage: %w", err)
	}
	if expr.Count != 1 || expr.Modifier != 0 {
		return 0, fmt.Errorf("damage %q: enemies roll a single die without modifier", s)
	}
	return expr.Sides, nil
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

// Package content holds the gameplay tunables and content catalogs: archetype
// base stats, passive flavor lines, encounter flavor, roll ranges, and the
// combat and reward constants. Everything loads from YAML over compiled-in
// defaults so the numbers are not scattered through the engine.
package content

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cursedmounds/kurgan-api/internal/entities"
	"github.com/cursedmounds/kurgan-api/internal/errors"
)

// Archetype is an immutable catalog entry. The catalog order matters: the
// generator picks by index, so reordering entries reshuffles every seed.
type Archetype struct {
	ID   string             `yaml:"id"`
	Name string             `yaml:"name"`
	Base entities.StatBlock `yaml:"base"`
}

// Tunables collects every externally configurable constant.
type Tunables struct {
	// Run progression
	CompletionThreshold int               `yaml:"completion_threshold"`
	FinishRewards       []entities.Reward `yaml:"finish_rewards"`

	// World boss
	BossRewards []entities.Reward `yaml:"boss_rewards"`

	// Character generation
	StatRollMin int         `yaml:"stat_roll_min"`
	StatRollMax int         `yaml:"stat_roll_max"`
	Archetypes  []Archetype `yaml:"archetypes"`
	Passives    []string    `yaml:"passives"`

	// Combat
	CritChanceCap  int     `yaml:"crit_chance_cap"`
	LuckDivisor    int     `yaml:"luck_divisor"`
	CritMultiplier float64 `yaml:"crit_multiplier"`

	// Encounter flavor
	FightFlavor []string `yaml:"fight_flavor"`
	EventFlavor []string `yaml:"event_flavor"`
}

// Default returns the reference tunables.
func Default() *Tunables {
	return &Tunables{
		CompletionThreshold: 5,
		FinishRewards: []entities.Reward{
			{Currency: "gold", Amount: 40},
			{Currency: "dust", Amount: 12},
		},
		BossRewards: []entities.Reward{
			{Currency: "gold", Amount: 100},
		},
		StatRollMin: -3,
		StatRollMax: 5,
		Archetypes: []Archetype{
			{ID: "kozak", Name: "KOZAK", Base: entities.StatBlock{HP: 30, Atk: 8, Def: 6, Spd: 5, Crit: 10, Luck: 5}},
			{ID: "molfar", Name: "MOLFAR", Base: entities.StatBlock{HP: 22, Atk: 11, Def: 3, Spd: 6, Crit: 15, Luck: 8}},
			{ID: "berehynia", Name: "BEREHYNIA", Base: entities.StatBlock{HP: 34, Atk: 6, Def: 8, Spd: 4, Crit: 5, Luck: 10}},
			{ID: "plastun", Name: "PLASTUN", Base: entities.StatBlock{HP: 26, Atk: 9, Def: 4, Spd: 8, Crit: 20, Luck: 6}},
		},
		Passives: []string{
			"Steppe Wind: moves unheard across open ground",
			"Red Thread: an obereg knot wards off the first misfortune",
			"Mound Whisper: the kurhany speak to the hero at dusk",
			"Old Fire: hearth embers in the pack never die out",
		},
		CritChanceCap:  30,
		LuckDivisor:    3,
		CritMultiplier: 0.75,
		FightFlavor: []string{
			"A bandit leaps from behind a weathered stone.",
			"A restless wisp blocks the path between the mounds.",
			"Something heavy drags itself out of the burial pit.",
			"Two dogs with ember eyes circle the hero.",
		},
		EventFlavor: []string{
			"A cold wind howls between the kurgans.",
			"An old campfire still smolders; someone left in a hurry.",
			"Under a cracked slab, a cache of old goods.",
			"A crossroads; every direction smells of rain and iron.",
		},
	}
}

// Load reads tunables from a YAML file layered over the defaults. Fields the
// file omits keep their default values.
func Load(path string) (*Tunables, error) {
	t := Default()

	raw, err := os.ReadFile(path) // #nosec G304 // operator-supplied config path
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NotFoundf("tunables file not found: %s", path)
		}
		return nil, errors.Wrapf(err, "failed to read tunables file %s", path)
	}

	if err := yaml.Unmarshal(raw, t); err != nil {
		return nil, errors.WrapWithCodef(err, errors.CodeFailedPrecondition, "failed to parse tunables file %s", path)
	}

	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// Validate rejects configurations the engine cannot run on. Empty selection
// tables in particular must fail here rather than at pick time.
func (t *Tunables) Validate() error {
	vb := errors.NewValidationBuilder()

	if t.CompletionThreshold <= 0 {
		vb.Field("completion_threshold", "must be positive")
	}
	if t.StatRollMin > t.StatRollMax {
		vb.Fieldf("stat_roll_min", "min %d exceeds max %d", t.StatRollMin, t.StatRollMax)
	}
	if len(t.Archetypes) == 0 {
		vb.Field("archetypes", "catalog cannot be empty")
	}
	for i, a := range t.Archetypes {
		if a.ID == "" || a.Name == "" {
			vb.Fieldf("archetypes", "entry %d missing id or name", i)
		}
	}
	if len(t.Passives) == 0 {
		vb.Field("passives", "catalog cannot be empty")
	}
	if t.CritChanceCap < 0 || t.CritChanceCap > 100 {
		vb.Fieldf("crit_chance_cap", "must be within [0,100], got %d", t.CritChanceCap)
	}
	if t.LuckDivisor <= 0 {
		vb.Field("luck_divisor", "must be positive")
	}
	if t.CritMultiplier < 0 {
		vb.Field("crit_multiplier", "cannot be negative")
	}
	if len(t.FightFlavor) == 0 {
		vb.Field("fight_flavor", "catalog cannot be empty")
	}
	if len(t.EventFlavor) == 0 {
		vb.Field("event_flavor", "catalog cannot be empty")
	}

	return vb.Build()
}

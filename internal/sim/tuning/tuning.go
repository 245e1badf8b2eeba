package tuning

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Tuning struct {
	TickRateHz     int `yaml:"tick_rate_hz"`
	DayTicks       int `yaml:"day_ticks"`
	SyncEveryTicks int `yaml:"sync_every_ticks"`

	StartingMoney int64 `yaml:"starting_money"`

	Movement Movement `yaml:"movement"`
}

type Movement struct {
	DistancePerReward float64 `yaml:"distance_per_reward"`
	MinStep           float64 `yaml:"min_step"`
	CooldownSeconds   int     `yaml:"cooldown_seconds"`
	WalkXp            int     `yaml:"walk_xp"`
	WalkMoney         int64   `yaml:"walk_money"`
	SprintXp          int     `yaml:"sprint_xp"`
	SprintMoney       int64   `yaml:"sprint_money"`
}

func Defaults() Tuning {
	return Tuning{
		TickRateHz:     20,
		DayTicks:       24000,
		SyncEveryTicks: 20,
		StartingMoney:  100,
		Movement: Movement{
			DistancePerReward: 100,
			MinStep:           0.5,
			CooldownSeconds:   30,
			WalkXp:            2,
			WalkMoney:         1,
			SprintXp:          5,
			SprintMoney:       3,
		},
	}
}

func Load(path string) (Tuning, error) {
	t := Defaults()
	raw, err := os.ReadFile(path)
	if err != nil {
		return t, err
	}
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return t, fmt.Errorf("tuning.yaml: %w", err)
	}
	return t, nil
}

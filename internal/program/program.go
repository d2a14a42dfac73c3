// Package program loads prescribed workout plans. Plans are immutable after
// load; the adapter derives per-day copies from them.
package program

import (
	"fmt"
	"os"
	"sort"

	"github.com/claude/neonfit/internal/models"
	"gopkg.in/yaml.v3"
)

// WeekPlan holds one week of prescribed workouts keyed by day.
type WeekPlan struct {
	Week int                       `json:"week" yaml:"week"`
	Days map[string]models.Workout `json:"days" yaml:"days"`
}

// Plan is a full training program.
type Plan struct {
	Name  string     `json:"name,omitempty" yaml:"name"`
	Weeks []WeekPlan `json:"weeks" yaml:"weeks"`
}

// Load reads and validates a plan from a YAML file.
func Load(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading plan file: %w", err)
	}

	var plan Plan
	if err := yaml.Unmarshal(data, &plan); err != nil {
		return nil, fmt.Errorf("parsing plan file: %w", err)
	}

	if err := plan.validate(); err != nil {
		return nil, fmt.Errorf("plan validation: %w", err)
	}
	return &plan, nil
}

func (p *Plan) validate() error {
	if len(p.Weeks) == 0 {
		return fmt.Errorf("plan has no weeks")
	}
	for _, wp := range p.Weeks {
		if wp.Week <= 0 {
			return fmt.Errorf("week number must be positive, got %d", wp.Week)
		}
		for day, w := range wp.Days {
			if len(w.Exercises) == 0 {
				return fmt.Errorf("week %d day %q has no exercises", wp.Week, day)
			}
			for _, ex := range w.Exercises {
				if ex.Name == "" {
					return fmt.Errorf("week %d day %q has an unnamed exercise", wp.Week, day)
				}
				if ex.Sets <= 0 {
					return fmt.Errorf("week %d day %q exercise %q has no sets", wp.Week, day, ex.Name)
				}
			}
		}
	}
	return nil
}

// Workout looks up the prescribed workout for a week and day. The returned
// workout is a copy with its own exercise slice, so callers can hand it to
// the adapter without aliasing plan data.
func (p *Plan) Workout(week int, day string) (models.Workout, bool) {
	for _, wp := range p.Weeks {
		if wp.Week != week {
			continue
		}
		w, ok := wp.Days[day]
		if !ok {
			return models.Workout{}, false
		}
		out := w
		out.Day = day
		out.Exercises = make([]models.Exercise, len(w.Exercises))
		copy(out.Exercises, w.Exercises)
		return out, true
	}
	return models.Workout{}, false
}

// Days lists the day keys defined for a week, sorted.
func (p *Plan) Days(week int) []string {
	for _, wp := range p.Weeks {
		if wp.Week != week {
			continue
		}
		days := make([]string, 0, len(wp.Days))
		for day := range wp.Days {
			days = append(days, day)
		}
		sort.Strings(days)
		return days
	}
	return nil
}

// WeekCount returns the number of weeks in the plan.
func (p *Plan) WeekCount() int {
	return len(p.Weeks)
}

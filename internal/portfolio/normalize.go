package portfolio

import (
	"strings"

	"github.com/google/uuid"
)

func trim(fields ...*string) {
	for _, f := range fields {
		*f = strings.TrimSpace(*f)
	}
}

func trimOpt(fields ...*string) {
	for _, f := range fields {
		if f != nil {
			*f = strings.TrimSpace(*f)
		}
	}
}

// tags trims every entry and drops the blank ones, keeping order.
func tags(in []string) []string {
	out := make([]string, 0, len(in))
	for _, t := range in {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func normalizeMedia(m *Media) {
	if m == nil {
		return
	}
	m.Type = strings.ToLower(strings.TrimSpace(m.Type))
	m.Src = strings.TrimSpace(m.Src)
}

// normalizeSkills trims names and gives new categories and skills an id so the
// dashboard can key its list items.
func normalizeSkills(in []SkillCategory) []SkillCategory {
	out := make([]SkillCategory, 0, len(in))
	for _, c := range in {
		trim(&c.ID, &c.Title)
		if c.ID == "" {
			c.ID = uuid.NewString()
		}
		skills := make([]Skill, 0, len(c.Skills))
		for _, s := range c.Skills {
			trim(&s.ID, &s.Name)
			if s.ID == "" {
				s.ID = uuid.NewString()
			}
			skills = append(skills, s)
		}
		c.Skills = skills
		out = append(out, c)
	}
	return out
}

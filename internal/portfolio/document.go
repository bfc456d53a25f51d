// Package portfolio holds the portfolio document and the service that
// reads and replaces it.
package portfolio

import (
	"encoding/json"

	"github.com/samber/lo"
)

const (
	DefaultTheme         = "modern-professional"
	DefaultPhotoPosition = "top-right"
	DefaultLLMProvider   = "openai"
)

// Document is the single portfolio document.
// Optional values are pointers so that a missing value (null) and an empty
// value ("") stay distinguishable after a round trip.
type Document struct {
	PersonalInfo *PersonalInfo `json:"personalInfo" binding:"required"`
	Skills       []Skill       `json:"skills"`
	Experience   []Experience  `json:"experience"`
	Projects     []Project     `json:"projects"`
	Education    []Education   `json:"education"`
	Contact      Contact       `json:"contact"`
	Settings     *Settings     `json:"settings"`
}

// PersonalInfo is the header of the portfolio.
type PersonalInfo struct {
	Name  string  `json:"name"`
	Title string  `json:"title"`
	Photo *string `json:"photo"`
}

type Skill struct {
	Name  string  `json:"name"`
	Level *string `json:"level,omitempty"`
}

// UnmarshalJSON also accepts the older form where a skill was stored as a
// bare name.
func (s *Skill) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		*s = Skill{Name: name}
		return nil
	}
	type plain Skill
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*s = Skill(p)
	return nil
}

type Experience struct {
	Title            string   `json:"title"`
	Company          string   `json:"company"`
	Duration         string   `json:"duration"`
	Description      *string  `json:"description,omitempty"`
	Responsibilities []string `json:"responsibilities"`
}

type Project struct {
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Technologies []string `json:"technologies"`
	Link         *string  `json:"link,omitempty"`
}

type Education struct {
	Degree      string  `json:"degree"`
	Institution string  `json:"institution"`
	Year        string  `json:"year"`
	GPA         *string `json:"gpa,omitempty"`
}

type Contact struct {
	Email    *string `json:"email,omitempty"`
	Phone    *string `json:"phone,omitempty"`
	LinkedIn *string `json:"linkedin,omitempty"`
	GitHub   *string `json:"github,omitempty"`
	Website  *string `json:"website,omitempty"`
}

// Settings controls how the portfolio is displayed and which LLM provider
// the resume import would use.
type Settings struct {
	Theme         string  `json:"theme"`
	PhotoPosition string  `json:"photoPosition"`
	LLMProvider   string  `json:"llmProvider"`
	LLMAPIKey     *string `json:"llmApiKey"`
}

// DefaultSettings returns the settings used when none are stored.
func DefaultSettings() Settings {
	return Settings{
		Theme:         DefaultTheme,
		PhotoPosition: DefaultPhotoPosition,
		LLMProvider:   DefaultLLMProvider,
	}
}

// Default returns the document served before anything was saved.
func Default() Document {
	settings := DefaultSettings()
	return Document{
		PersonalInfo: &PersonalInfo{},
		Skills:       []Skill{},
		Experience:   []Experience{},
		Projects:     []Project{},
		Education:    []Education{},
		Contact:      Contact{},
		Settings:     &settings,
	}
}

// normalize fills the gaps a client may leave so the stored document always
// has every section. Lists become empty rather than null, nested ones too.
// Nested slices are rebuilt so the caller's document is never modified.
func (d *Document) normalize() {
	if d.PersonalInfo == nil {
		d.PersonalInfo = &PersonalInfo{}
	}
	if d.Skills == nil {
		d.Skills = []Skill{}
	}
	d.Experience = lo.Map(d.Experience, func(e Experience, _ int) Experience {
		if e.Responsibilities == nil {
			e.Responsibilities = []string{}
		}
		return e
	})
	d.Projects = lo.Map(d.Projects, func(p Project, _ int) Project {
		if p.Technologies == nil {
			p.Technologies = []string{}
		}
		return p
	})
	if d.Education == nil {
		d.Education = []Education{}
	}

	defaults := DefaultSettings()
	if d.Settings == nil {
		d.Settings = &defaults
		return
	}
	settings := *d.Settings
	if settings.Theme == "" {
		settings.Theme = defaults.Theme
	}
	if settings.PhotoPosition == "" {
		settings.PhotoPosition = defaults.PhotoPosition
	}
	if settings.LLMProvider == "" {
		settings.LLMProvider = defaults.LLMProvider
	}
	d.Settings = &settings
}

// Redacted returns a copy of d without secrets.
func (d Document) Redacted() Document {
	if d.Settings != nil {
		settings := *d.Settings
		settings.LLMAPIKey = nil
		d.Settings = &settings
	}
	return d
}

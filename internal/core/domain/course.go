package domain

// Level is the difficulty tier of a course.
type Level string

const (
	LevelBeginner     Level = "Beginner"
	LevelIntermediate Level = "Intermediate"
	LevelAdvanced     Level = "Advanced"
)

// Valid reports whether l is one of the known levels.
func (l Level) Valid() bool {
	switch l {
	case LevelBeginner, LevelIntermediate, LevelAdvanced:
		return true
	}
	return false
}

// Currency is the only currency prices are quoted in.
const Currency = "GHC"

// Course is an admin-owned catalog entry. Description holds sanitised HTML.
type Course struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Instructor   string   `json:"instructor"`
	Duration     string   `json:"duration"`
	Level        Level    `json:"level"`
	Price        float64  `json:"price"`
	Tags         []string `json:"tags"`
	Image        string   `json:"image"`
	Requirements []string `json:"requirements,omitempty"`
}

// Validate checks the structural rules every stored course must satisfy.
func (c Course) Validate() error {
	if c.ID == "" || c.Title == "" {
		return ErrInvalidCourse
	}
	if !c.Level.Valid() {
		return ErrInvalidCourse
	}
	if c.Price < 0 {
		return ErrInvalidCourse
	}
	return nil
}

// FindCourse returns the first course with the given id. Duplicate ids
// shadow later entries.
func FindCourse(courses []Course, id string) (Course, bool) {
	for _, c := range courses {
		if c.ID == id {
			return c, true
		}
	}
	return Course{}, false
}

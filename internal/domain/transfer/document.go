package transfer

import (
	"encoding/json"
	"fmt"
	"regexp"

	"brickshot/internal/domain/shotlist"

	"github.com/go-playground/validator/v10"
)

// FileExtension is the extension exported project files carry.
const FileExtension = ".brickshot"

// Project is the portable shape of a whole project. Ids are informational
// only; importing always creates fresh records.
type Project struct {
	ID     string  `json:"_id,omitempty"`
	Name   *string `json:"name,omitempty"`
	Scenes []Scene `json:"scenes" validate:"required,dive"`
}

type Scene struct {
	ID           string `json:"_id,omitempty"`
	LockedNumber *int   `json:"lockedNumber"`
	Description  string `json:"description"`
	Shots        []Shot `json:"shots" validate:"required,dive"`
}

type Shot struct {
	ID           string          `json:"_id,omitempty"`
	Status       shotlist.Status `json:"status" validate:"required,shotstatus"`
	LockedNumber *int            `json:"lockedNumber"`
	Description  string          `json:"description"`
	Location     *string         `json:"location"`
	Notes        string          `json:"notes"`
	// Animated is written by old exports that predate the status field.
	Animated *bool `json:"animated,omitempty"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("shotstatus", func(fl validator.FieldLevel) bool {
		return shotlist.Status(fl.Field().String()).Valid()
	})
	return v
}

// Parse decodes and validates an exported project file.
func Parse(data []byte) (*Project, error) {
	var p Project
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("decode project file: %w", err)
	}
	if err := Validate(&p); err != nil {
		return nil, err
	}
	return &p, nil
}

func Validate(p *Project) error {
	if err := validate.Struct(p); err != nil {
		return fmt.Errorf("invalid project file: %w", err)
	}
	return nil
}

// EffectiveStatus folds the legacy animated flag into the status.
func (s Shot) EffectiveStatus() shotlist.Status {
	if s.Animated != nil && *s.Animated && s.Status == shotlist.StatusDefault {
		return shotlist.StatusAnimated
	}
	return s.Status
}

var nonFileChars = regexp.MustCompile(`[^a-zA-Z0-9]`)

// FileName builds the download name for an exported project.
// Example: "My Film: Act 1" -> "My_Film__Act_1.brickshot"
func FileName(projectName string) string {
	return nonFileChars.ReplaceAllString(projectName, "_") + FileExtension
}

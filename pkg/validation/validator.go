package validation

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/go-playground/validator/v10"
)

var (
	// validate is a singleton validator instance
	validate *validator.Validate

	nodeIDPattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)
)

func init() {
	validate = validator.New()
	validate.RegisterValidation("nodeid", func(fl validator.FieldLevel) bool {
		return nodeIDPattern.MatchString(fl.Field().String())
	})
}

// NodeSpec is one node as written in a graph description file.
type NodeSpec struct {
	ID      string   `yaml:"id" validate:"required,max=32,nodeid"`
	Rate    int      `yaml:"rate" validate:"gte=0"`
	Tunnels []string `yaml:"tunnels" validate:"dive,required,max=32,nodeid"`
}

// GraphSpec is a whole graph description.
type GraphSpec struct {
	Nodes []NodeSpec `yaml:"nodes" validate:"required,min=1,dive"`
}

// ValidateNodeSpec checks a single node's fields.
func ValidateNodeSpec(spec *NodeSpec) error {
	if spec == nil {
		return errors.New("node spec cannot be nil")
	}
	if err := validate.Struct(spec); err != nil {
		return formatValidationError(err)
	}
	return nil
}

// ValidateGraphSpec checks every node's fields and that ids are unique.
// Tunnel targets are resolved later, by the graph builder.
func ValidateGraphSpec(spec *GraphSpec) error {
	if spec == nil {
		return errors.New("graph spec cannot be nil")
	}
	if err := validate.Struct(spec); err != nil {
		return formatValidationError(err)
	}

	seen := make(map[string]int, len(spec.Nodes))
	for i, n := range spec.Nodes {
		if j, dup := seen[n.ID]; dup {
			return fmt.Errorf("Nodes[%d].ID: %q already defined by Nodes[%d]", i, n.ID, j)
		}
		seen[n.ID] = i
	}
	return nil
}

// formatValidationError converts validator errors to a more user-friendly format
func formatValidationError(err error) error {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	// Return the first validation error in a user-friendly format
	for _, e := range validationErrs {
		field := e.Namespace()
		param := e.Param()

		switch e.Tag() {
		case "required":
			return fmt.Errorf("%s: field is required", field)
		case "min":
			return fmt.Errorf("%s: must have at least %s entries", field, param)
		case "max":
			return fmt.Errorf("%s: must not exceed %s characters", field, param)
		case "gte":
			return fmt.Errorf("%s: must be at least %s, got %v", field, param, e.Value())
		case "nodeid":
			return fmt.Errorf("%s: %q is not a valid node id (letters, digits and underscore only)", field, e.Value())
		default:
			return fmt.Errorf("%s: validation failed (%s)", field, e.Tag())
		}
	}

	return err
}

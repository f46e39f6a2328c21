package cmd

// CommandArgs contains parsed command arguments
type CommandArgs struct {
	// Positional arguments (command-specific)
	Args []string

	// Parsed flags
	Flags map[string]any

	// Raw unparsed arguments (for custom parsing)
	Raw []string
}

// String returns the flag value or def if it is unset or not a string.
func (a *CommandArgs) String(name, def string) string {
	if value, ok := a.Flags[name].(string); ok {
		return value
	}
	return def
}

// Bool reports whether the flag is set to true.
func (a *CommandArgs) Bool(name string) bool {
	value, _ := a.Flags[name].(bool)
	return value
}

// Int returns the flag value or def.
func (a *CommandArgs) Int(name string, def int64) int64 {
	if value, ok := a.Flags[name].(int64); ok {
		return value
	}
	return def
}

// CommandFlagSet defines the expected flags for a command
type CommandFlagSet struct {
	Flags map[string]*CommandFlag
}

// CommandFlag represents a single command-line flag
type CommandFlag struct {
	Name        string `json:"name"`              // e.g., "recursive"
	Short       string `json:"short"`             // Single-char shorthand (e.g., "r")
	Type        string `json:"type"`              // "string", "bool", "int"
	Default     any    `json:"default,omitempty"` // Default value
	Required    bool   `json:"required"`          // Must be provided
	Description string `json:"description"`       // Help text
}

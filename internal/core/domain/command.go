package domain

// Command is an external program invocation made by a transform step.
type Command struct {
	// Args holds the program followed by its arguments.
	Args []string
	// Dir is the working directory; empty means the current one.
	Dir string
	// Env adds or overrides variables on top of the inherited environment.
	Env map[string]string
}

// Program returns the executable name, or an empty string for an empty command.
func (c *Command) Program() string {
	if len(c.Args) == 0 {
		return ""
	}
	return c.Args[0]
}

package exec

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
)

// CommandWrapper is a named command that can be looked up in a registry
// and run with an executor supplied at call time.
type CommandWrapper interface {
	// Name returns the command name for registry lookup
	Name() string
	// Description returns a brief description of what the command does
	Description() string
	// Execute runs the command with the given context and executor
	Execute(ctx context.Context, exec *Executor) error
}

// CommandRegistry manages registered command wrappers
type CommandRegistry struct {
	mu       sync.RWMutex
	commands map[string]CommandWrapper
}

// NewCommandRegistry creates a new command registry instance
func NewCommandRegistry() *CommandRegistry {
	return &CommandRegistry{
		commands: make(map[string]CommandWrapper),
	}
}

// Register adds a command wrapper to the registry
func (r *CommandRegistry) Register(cmd CommandWrapper) error {
	if cmd == nil {
		return errors.New("cannot register nil command")
	}

	name := cmd.Name()
	if name == "" {
		return errors.New("cannot register command with empty name")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.commands[name]; exists {
		return fmt.Errorf("command '%s' is already registered", name)
	}

	r.commands[name] = cmd
	return nil
}

// Get retrieves a command wrapper by name
func (r *CommandRegistry) Get(name string) (CommandWrapper, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cmd, ok := r.commands[name]
	return cmd, ok
}

// Has checks if a command is registered
func (r *CommandRegistry) Has(name string) bool {
	_, ok := r.Get(name)
	return ok
}

// List returns all registered command names in sorted order
func (r *CommandRegistry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.commands))
	for name := range r.commands {
		names = append(names, name)
	}

	sort.Strings(names)
	return names
}

// ListWithDescriptions returns all registered commands with their descriptions
func (r *CommandRegistry) ListWithDescriptions() map[string]string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make(map[string]string, len(r.commands))
	for name, cmd := range r.commands {
		result[name] = cmd.Description()
	}
	return result
}

// Execute runs a command by name if it exists
func (r *CommandRegistry) Execute(ctx context.Context, name string, exec *Executor) error {
	cmd, ok := r.Get(name)
	if !ok {
		return fmt.Errorf("command '%s' not found in registry (available: %v)", name, r.List())
	}
	return cmd.Execute(ctx, exec)
}

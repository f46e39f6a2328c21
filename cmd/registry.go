package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"
	"sync"

	"github.com/mwantia/hostfs"
	"github.com/mwantia/hostfs/data"
)

// Registry holds the commands available to a shell, keyed by name.
type Registry struct {
	mu       sync.RWMutex
	commands map[string]Command
}

func NewRegistry() *Registry {
	return &Registry{
		commands: make(map[string]Command),
	}
}

func (r *Registry) Register(command Command) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := command.Name()
	if _, exists := r.commands[name]; exists {
		return fmt.Errorf("%w: command '%s' already registered", data.ErrExist, name)
	}

	r.commands[name] = command
	return nil
}

func (r *Registry) Get(name string) (Command, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	command, ok := r.commands[name]
	return command, ok
}

// Commands returns all registered commands sorted by name.
func (r *Registry) Commands() []Command {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := slices.Sorted(maps.Keys(r.commands))
	result := make([]Command, 0, len(names))
	for _, name := range names {
		result = append(result, r.commands[name])
	}
	return result
}

// Execute parses args[1:] for the command named args[0] and runs it against folder.
func (r *Registry) Execute(ctx context.Context, folder *hostfs.Folder, writer io.Writer, args ...string) (int, error) {
	if len(args) == 0 {
		return ExitUsage, fmt.Errorf("%w: no command given", data.ErrInvalid)
	}

	command, ok := r.Get(args[0])
	if !ok {
		return ExitUsage, fmt.Errorf("%w: unknown command '%s'", data.ErrInvalid, args[0])
	}

	parsed, err := NewParser(command.GetFlags()).Parse(args[1:])
	if err != nil {
		return ExitUsage, fmt.Errorf("%s: %w (usage: %s)", command.Name(), err, command.Usage())
	}

	code, err := command.Execute(ctx, folder, parsed, writer)
	if err != nil && code == ExitOK {
		code = ExitError
		if errors.Is(err, data.ErrInvalid) {
			code = ExitUsage
		}
	}
	return code, err
}

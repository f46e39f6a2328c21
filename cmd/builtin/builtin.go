// Package builtin contains the commands every hostfs shell provides.
package builtin

import (
	"fmt"

	"github.com/mwantia/hostfs/cmd"
	"github.com/mwantia/hostfs/data"
)

// Register adds all builtin commands to registry.
func Register(registry *cmd.Registry) error {
	commands := []cmd.Command{
		&LsCommand{},
		&MkdirCommand{},
		&TouchCommand{},
		&RmCommand{},
		&CatCommand{},
		&TreeCommand{},
		&StatCommand{},
	}

	for _, command := range commands {
		if err := registry.Register(command); err != nil {
			return err
		}
	}
	return nil
}

func collisionFlag(def string) *cmd.CommandFlag {
	return &cmd.CommandFlag{
		Name:        "collision",
		Short:       "c",
		Type:        "string",
		Default:     def,
		Description: "What to do if the name is taken: unique, replace, fail or open",
	}
}

func collisionOption(args *cmd.CommandArgs, def string) (data.CollisionOption, error) {
	return data.ParseCollisionOption(args.String("collision", def))
}

func requireArgs(args *cmd.CommandArgs, min int, usage string) error {
	if len(args.Args) < min {
		return fmt.Errorf("%w: usage: %s", data.ErrInvalid, usage)
	}
	return nil
}

// Package menu runs the interactive choice loop.
package menu

import (
	"errors"
	"io"

	"github.com/rs/zerolog/log"

	"github.com/saltyorg/fruitstock/internal/console"
)

const menuText = `
1. Add item
2. List items
3. Update item
4. Delete item
5. Count items
6. Quit`

const (
	choicePrompt     = "Choose an option: "
	msgNotANumber    = "invalid input, enter a number"
	msgInvalidChoice = "invalid choice, try again"
	msgGoodbye       = "goodbye!"

	choiceQuit = 6
)

// State is the loop's position in its state machine.
type State int

const (
	AwaitingChoice State = iota
	Dispatching
	Terminated
)

func (s State) String() string {
	switch s {
	case AwaitingChoice:
		return "awaiting_choice"
	case Dispatching:
		return "dispatching"
	case Terminated:
		return "terminated"
	default:
		return "unknown"
	}
}

// Operations are the actions behind choices 1-5. *inventory.Manager satisfies it.
// An operation returns an error only when console input fails.
type Operations interface {
	Add() error
	List() error
	Update() error
	Delete() error
	Count() error
}

// Loop reads menu choices and dispatches them until the user quits.
type Loop struct {
	console *console.Prompter
	state   State
	actions map[int64]func() error
}

// New creates a Loop in the AwaitingChoice state.
func New(ops Operations, p *console.Prompter) *Loop {
	return &Loop{
		console: p,
		state:   AwaitingChoice,
		actions: map[int64]func() error{
			1: ops.Add,
			2: ops.List,
			3: ops.Update,
			4: ops.Delete,
			5: ops.Count,
		},
	}
}

// State returns the current state.
func (l *Loop) State() State {
	return l.state
}

// Run loops until the quit choice or end of input, both of which return nil.
// Any other console failure terminates the loop and is returned.
func (l *Loop) Run() error {
	for l.state != Terminated {
		if err := l.step(); err != nil {
			l.state = Terminated
			if errors.Is(err, io.EOF) {
				log.Info().Msg("Input closed, leaving menu")
				l.console.Println()
				l.console.Println(msgGoodbye)
				return nil
			}
			return err
		}
	}
	return nil
}

func (l *Loop) step() error {
	l.console.Println(menuText)

	choice, err := l.console.ReadInt(choicePrompt)
	if errors.Is(err, console.ErrInvalidNumber) {
		l.console.Println(msgNotANumber)
		return nil
	}
	if err != nil {
		return err
	}

	l.state = Dispatching
	log.Debug().Int64("choice", choice).Msg("Menu choice")

	if choice == choiceQuit {
		l.console.Println(msgGoodbye)
		l.state = Terminated
		return nil
	}

	action, ok := l.actions[choice]
	if !ok {
		l.console.Println(msgInvalidChoice)
		l.state = AwaitingChoice
		return nil
	}

	err = action()
	l.state = AwaitingChoice
	return err
}

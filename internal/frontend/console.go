// Package frontend provides the interactive debug console for the
// headless CLI: when stdin is a TTY it goes raw and single keypresses
// pause, step, dump, or quit the scheduler loop. This is operator control
// of the emulator, not emulated gamepad input.
package frontend

import (
	"os"

	"github.com/eiannone/keyboard"
	"golang.org/x/term"

	"github.com/n64core/n64/internal/n64log"
)

// Action is what the operator asked for since the last poll.
type Action int

const (
	ActionNone Action = iota
	ActionQuit
	ActionTogglePause
	ActionStepFrame
	ActionDumpRDRAM
	ActionReset
)

// Console owns the raw-mode terminal and the key event stream.
type Console struct {
	oldState *term.State
	keys     <-chan keyboard.KeyEvent
	open     bool
}

// Open puts the terminal in raw mode and starts the key listener. On a
// non-TTY stdin (piped, CI) it degrades to a no-op console whose Poll always
// returns ActionNone.
func Open() (*Console, error) {
	c := &Console{}
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		n64log.Debugf("stdin is not a terminal, debug console disabled")
		return c, nil
	}

	oldState, err := term.MakeRaw(int(os.Stdin.Fd()))
	if err != nil {
		return nil, err
	}
	c.oldState = oldState

	keys, err := keyboard.GetKeys(16)
	if err != nil {
		_ = term.Restore(int(os.Stdin.Fd()), oldState)
		return nil, err
	}
	c.keys = keys
	c.open = true
	n64log.Infof("debug console: [p]ause  [n]ext frame  [d]ump RDRAM  [r]eset  [q]uit")
	return c, nil
}

// Poll drains at most one pending keypress and maps it to an Action. Called
// once per frame from the scheduler loop; never blocks.
func (c *Console) Poll() Action {
	if !c.open {
		return ActionNone
	}
	select {
	case ev, ok := <-c.keys:
		if !ok {
			return ActionNone
		}
		if ev.Key == keyboard.KeyCtrlC || ev.Key == keyboard.KeyEsc {
			return ActionQuit
		}
		switch ev.Rune {
		case 'q':
			return ActionQuit
		case 'p':
			return ActionTogglePause
		case 'n':
			return ActionStepFrame
		case 'd':
			return ActionDumpRDRAM
		case 'r':
			return ActionReset
		}
	default:
	}
	return ActionNone
}

// WaitKey blocks for the next keypress while paused.
func (c *Console) WaitKey() Action {
	if !c.open {
		return ActionQuit
	}
	for ev := range c.keys {
		if ev.Key == keyboard.KeyCtrlC || ev.Key == keyboard.KeyEsc || ev.Rune == 'q' {
			return ActionQuit
		}
		switch ev.Rune {
		case 'p':
			return ActionTogglePause
		case 'n':
			return ActionStepFrame
		case 'd':
			return ActionDumpRDRAM
		case 'r':
			return ActionReset
		}
	}
	return ActionQuit
}

// Close restores the terminal state.
func (c *Console) Close() {
	if !c.open {
		return
	}
	_ = keyboard.Close()
	_ = term.Restore(int(os.Stdin.Fd()), c.oldState)
	c.open = false
}

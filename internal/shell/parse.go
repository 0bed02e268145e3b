package shell

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMalformed marks input the shell cannot parse. Nothing is executed for it.
var ErrMalformed = errors.New("malformed command")

type Kind int

const (
	KindEmpty Kind = iota
	KindNew
	KindHelp
	KindQuit
	KindAction
)

type Action string

const (
	ActionStage    Action = "stage"
	ActionLog      Action = "log"
	ActionOpen     Action = "open"
	ActionLogOpen  Action = "logopen"
	ActionEdit     Action = "edit"
	ActionDICOM    Action = "dicom"
	ActionSlicer   Action = "slicer"
	ActionBlender  Action = "blender"
	ActionImport   Action = "import"
	ActionImportBG Action = "importbg"
)

var actions = map[Action]struct{}{
	ActionStage: {}, ActionLog: {}, ActionOpen: {}, ActionLogOpen: {}, ActionEdit: {},
	ActionDICOM: {}, ActionSlicer: {}, ActionBlender: {}, ActionImport: {}, ActionImportBG: {},
}

// Command is one parsed shell line.
type Command struct {
	Kind     Kind
	Selector string
	Action   Action

	// Stage is the new stage for ActionStage.
	Stage string
	// Message is the log text for ActionLog, or the optional note for ActionStage.
	Message string
}

// Parse reads one line of the shell grammar:
//
//	new | help | quit | q | exit
//	<selector>, <action>[, <arg>...]
//
// Parts are split on commas and trimmed. Everything after the fixed arguments is joined back
// with ", " so messages may contain commas.
func Parse(line string) (Command, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return Command{Kind: KindEmpty}, nil
	}

	if !strings.Contains(line, ",") {
		switch strings.ToLower(line) {
		case "new":
			return Command{Kind: KindNew}, nil
		case "help", "?":
			return Command{Kind: KindHelp}, nil
		case "quit", "q", "exit":
			return Command{Kind: KindQuit}, nil
		}
		return Command{}, fmt.Errorf("%w: unknown command %q", ErrMalformed, line)
	}

	parts := strings.Split(line, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	cmd := Command{Kind: KindAction, Selector: parts[0], Action: Action(strings.ToLower(parts[1]))}
	if cmd.Selector == "" {
		return Command{}, fmt.Errorf("%w: missing case selector", ErrMalformed)
	}
	if _, ok := actions[cmd.Action]; !ok {
		return Command{}, fmt.Errorf("%w: unknown action %q", ErrMalformed, parts[1])
	}

	rest := parts[2:]
	switch cmd.Action {
	case ActionStage:
		if len(rest) == 0 || rest[0] == "" {
			return Command{}, fmt.Errorf("%w: usage: <case>, stage, <value>[, <message>]", ErrMalformed)
		}
		cmd.Stage = rest[0]
		cmd.Message = strings.TrimSpace(strings.Join(rest[1:], ", "))
	case ActionLog:
		cmd.Message = strings.TrimSpace(strings.Join(rest, ", "))
		if cmd.Message == "" {
			return Command{}, fmt.Errorf("%w: usage: <case>, log, <message>", ErrMalformed)
		}
	}
	return cmd, nil
}

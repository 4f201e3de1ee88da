// Package menu declares the default menu trees seeded into new groups.
package menu

import (
	"fmt"
	"strings"
)

// Command is an opaque code telling a menu renderer what an option does.
type Command int

const (
	CmdLoadMenu        Command = 11
	CmdFormBrowse      Command = 21
	CmdRunCode         Command = 31
	CmdChangePassword  Command = 51
	CmdEditMenu        Command = 91
	CmdEditParameters  Command = 92
	CmdEditGreetings   Command = 93
	CmdEditUsers       Command = 94
	CmdExitApplication Command = 200
)

// Tier selects which default menu a new group receives.
type Tier int

const (
	TierOrdinary Tier = iota
	TierSuper
)

func (t Tier) String() string {
	if t == TierSuper {
		return "super"
	}
	return "ordinary"
}

// ParseTier accepts "super" or "ordinary", case-insensitively.
func ParseTier(s string) (Tier, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "super":
		return TierSuper, nil
	case "ordinary", "":
		return TierOrdinary, nil
	}
	return TierOrdinary, fmt.Errorf("unknown menu tier %q", s)
}

// Option is one entry of a default menu.
type Option struct {
	MenuID       int16
	OptionNumber int16
	OptionText   string
	Command      *Command
	Argument     string
	TopLine      bool
	BottomLine   bool
}

func cmd(c Command) *Command { return &c }

var superTemplate = []Option{
	{MenuID: 0, OptionNumber: 0, OptionText: "New Menu", TopLine: true, BottomLine: true},
	{MenuID: 0, OptionNumber: 11, OptionText: "Edit Menu", Command: cmd(CmdEditMenu)},
	{MenuID: 0, OptionNumber: 12, OptionText: "Edit Parameters", Command: cmd(CmdEditParameters)},
	{MenuID: 0, OptionNumber: 13, OptionText: "Edit Greetings", Command: cmd(CmdEditGreetings)},
	{MenuID: 0, OptionNumber: 14, OptionText: "Manage Users", Command: cmd(CmdEditUsers)},
	{MenuID: 0, OptionNumber: 19, OptionText: "Change Password", Command: cmd(CmdChangePassword)},
	{MenuID: 0, OptionNumber: 20, OptionText: "Go Away!", Command: cmd(CmdExitApplication)},
}

var ordinaryTemplate = []Option{
	{MenuID: 0, OptionNumber: 0, OptionText: "New Menu", TopLine: true, BottomLine: true},
	{MenuID: 0, OptionNumber: 19, OptionText: "Change Password", Command: cmd(CmdChangePassword)},
	{MenuID: 0, OptionNumber: 20, OptionText: "Go Away!", Command: cmd(CmdExitApplication)},
}

// Template returns a copy of the default menu for a tier.
func Template(t Tier) []Option {
	src := ordinaryTemplate
	if t == TierSuper {
		src = superTemplate
	}
	out := make([]Option, len(src))
	for i, o := range src {
		out[i] = o
		if o.Command != nil {
			out[i].Command = cmd(*o.Command)
		}
	}
	return out
}

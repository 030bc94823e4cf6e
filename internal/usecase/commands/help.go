package commands

import (
	"context"
	"strings"
)

type HelpCommand struct {
	msgs    *Messages
	catalog []CommandDescriptor
}

func NewHelpCommand(msgs *Messages, catalog []CommandDescriptor) *HelpCommand {
	return &HelpCommand{msgs: msgs, catalog: catalog}
}

func (c *HelpCommand) Name() string    { return "help" }
func (c *HelpCommand) AdminOnly() bool { return false }

func (c *HelpCommand) Handle(ctx context.Context, cmdCtx *Context) error {
	return cmdCtx.Reply(ctx, c.text(cmdCtx.Prefix))
}

func (c *HelpCommand) text(prefix string) string {
	var general, admin []string
	for _, d := range c.catalog {
		line := "• " + prefix + d.Usage + " - " + d.Description
		if d.AdminOnly {
			admin = append(admin, line)
		} else {
			general = append(general, line)
		}
	}

	var b strings.Builder
	b.WriteString(c.msgs.Render(MsgHelpHeader))
	b.WriteString("\n\nGeneral Commands:\n")
	b.WriteString(strings.Join(general, "\n"))
	b.WriteString("\n\nAdmin Commands:\n")
	b.WriteString(strings.Join(admin, "\n"))
	return b.String()
}

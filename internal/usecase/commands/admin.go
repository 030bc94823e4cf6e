package commands

import "context"

type AdminCommand struct {
	admins AdminRegistry
	msgs   *Messages
}

func NewAdminCommand(admins AdminRegistry, msgs *Messages) *AdminCommand {
	return &AdminCommand{admins: admins, msgs: msgs}
}

func (c *AdminCommand) Name() string    { return "admin" }
func (c *AdminCommand) AdminOnly() bool { return true }

func (c *AdminCommand) Handle(ctx context.Context, cmdCtx *Context) error {
	if len(cmdCtx.Args) == 0 {
		return &UsageError{Text: c.msgs.Render(MsgAdminUsage, "prefix", cmdCtx.Prefix)}
	}
	target := cmdCtx.Args[0]
	// Re-adding an existing admin is confirmed the same way.
	c.admins.AddAdmin(target)
	return cmdCtx.Reply(ctx, c.msgs.Render(MsgAdminAdded, "user", target))
}

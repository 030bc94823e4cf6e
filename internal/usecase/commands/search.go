package commands

import "context"

// SearchCommand acknowledges the query. The radio server has no search
// endpoint, so the second reply points users at add.
type SearchCommand struct {
	msgs *Messages
}

func NewSearchCommand(msgs *Messages) *SearchCommand {
	return &SearchCommand{msgs: msgs}
}

func (c *SearchCommand) Name() string    { return "search" }
func (c *SearchCommand) AdminOnly() bool { return false }

func (c *SearchCommand) Handle(ctx context.Context, cmdCtx *Context) error {
	query := joinArgs(cmdCtx.Args)
	if query == "" {
		return &UsageError{Text: c.msgs.Render(MsgSearchUsage, "prefix", cmdCtx.Prefix)}
	}
	if err := cmdCtx.Reply(ctx, c.msgs.Render(MsgSearching, "query", query)); err != nil {
		return err
	}
	return cmdCtx.Reply(ctx, c.msgs.Render(MsgSearchUnavailable, "prefix", cmdCtx.Prefix))
}

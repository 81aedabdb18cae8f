// Package export renders conversations into portable formats for sharing
// outside the live session.
package export

import (
	"fmt"
	"strings"

	"github.com/hupe1980/roundtable/core"
)

// Markdown renders the full transcript as a markdown document: a metadata
// header followed by one section per message in log order. Model keys are
// resolved to display names through the catalog; unknown keys fall back to the
// raw key.
func Markdown(conv *core.Conversation, catalog core.Catalog) string {
	var b strings.Builder

	names := make([]string, 0, len(conv.ActiveModels))
	for _, key := range conv.ActiveModels {
		if md, ok := catalog.Lookup(key); ok {
			names = append(names, md.Name)
			continue
		}
		names = append(names, key)
	}

	b.WriteString("# Roundtable Session\n\n")
	fmt.Fprintf(&b, "**Date:** %s\n", conv.CreatedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "**Mode:** %s\n", conv.Mode)
	fmt.Fprintf(&b, "**Models:** %s\n", strings.Join(names, ", "))
	fmt.Fprintf(&b, "**Total Tokens:** %d\n", conv.TotalTokens)
	fmt.Fprintf(&b, "**Estimated Cost:** $%.4f\n\n", conv.TotalCost)
	b.WriteString("---\n\n")

	for _, msg := range conv.Messages {
		fmt.Fprintf(&b, "### %s (%s)\n\n", msg.Name, msg.Timestamp.Format("15:04:05"))
		fmt.Fprintf(&b, "%s\n\n", msg.Content)
	}

	return b.String()
}

// Filename suggests a download name for an exported conversation.
func Filename(conversationID string) string {
	return fmt.Sprintf("roundtable-%s.md", conversationID)
}

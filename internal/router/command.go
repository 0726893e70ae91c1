// Package router classifies inbound text into commands and serialises
// message handling per conversation key.
package router

import "strings"

// Kind tags the parsed command variant.
type Kind int

// Command kinds, in fixed match order. Unmatched text is KindFreeText.
const (
	KindStart Kind = iota
	KindHelp
	KindClear
	KindSearch
	KindToken
	KindCreate
	KindDemo
	KindStatus
	KindFreeText
)

// Command is the result of classifying one inbound text message.
// Args holds the argument tail for commands that take one (/search,
// /create); Text holds the full original text for free text.
type Command struct {
	Kind Kind
	Args string
	Text string
}

// prefixes is the ordered command table. First case-insensitive prefix match
// wins; matching order is explicit and independent of handler logic.
var prefixes = []struct {
	prefix string
	kind   Kind
}{
	{"/start", KindStart},
	{"/help", KindHelp},
	{"/clear", KindClear},
	{"/search", KindSearch},
	{"/token", KindToken},
	{"/create", KindCreate},
	{"/demo", KindDemo},
	{"/status", KindStatus},
}

// Parse classifies raw inbound text into a Command. Prefix matching is
// case-insensitive; the argument tail is everything after the prefix with
// surrounding whitespace trimmed.
func Parse(text string) Command {
	trimmed := strings.TrimSpace(text)
	lower := strings.ToLower(trimmed)

	for _, p := range prefixes {
		if strings.HasPrefix(lower, p.prefix) {
			return Command{
				Kind: p.kind,
				Args: strings.TrimSpace(trimmed[len(p.prefix):]),
				Text: trimmed,
			}
		}
	}

	return Command{Kind: KindFreeText, Text: trimmed}
}

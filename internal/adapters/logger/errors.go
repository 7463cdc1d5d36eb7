package logger

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// messager is implemented by zerr errors. Message returns the error text
// without its cause chain.
type messager interface {
	Message() string
}

// metadataer is implemented by errors that carry key/value context.
type metadataer interface {
	Metadata() map[string]any
}

// ErrorEntry is one level of an error chain.
type ErrorEntry struct {
	Message  string
	Metadata map[string]any
}

// collectErrorEntries walks the chain of err. zerr levels contribute their
// own message. Joined errors contribute one entry per member. Any other
// error ends the walk with its full text.
func collectErrorEntries(err error) []ErrorEntry {
	var entries []ErrorEntry

	for current := err; current != nil; {
		if m, ok := current.(messager); ok {
			entry := ErrorEntry{Message: m.Message()}
			if md, ok := current.(metadataer); ok {
				entry.Metadata = md.Metadata()
			}
			entries = append(entries, entry)
			current = errors.Unwrap(current)
			continue
		}

		if members := joinedMembers(current); members != nil {
			for _, member := range members {
				entries = append(entries, collectErrorEntries(member)...)
			}
			break
		}

		entries = append(entries, ErrorEntry{Message: current.Error()})
		break
	}

	return entries
}

// joinedMembers returns the members of an errors.Join value. Other multi
// errors, whose text is not the plain concatenation of their members, are
// kept whole.
func joinedMembers(err error) []error {
	multi, ok := err.(interface{ Unwrap() []error })
	if !ok {
		return nil
	}

	members := multi.Unwrap()
	texts := make([]string, 0, len(members))
	for _, m := range members {
		texts = append(texts, m.Error())
	}
	if strings.Join(texts, "\n") != err.Error() {
		return nil
	}
	return members
}

// formatErrorEntries renders entries as
//
//	Error: <first>
//
//	  Caused by:
//	    → <second>
func formatErrorEntries(entries []ErrorEntry) string {
	if len(entries) == 0 {
		return ""
	}

	var lines []string
	for i, entry := range entries {
		msgLines := strings.Split(entry.Message, "\n")

		prefix, indent := "    → ", "      "
		if i == 0 {
			prefix, indent = "Error: ", "       "
		} else if i == 1 {
			lines = append(lines, "", "  Caused by:")
		}

		lines = append(lines, prefix+msgLines[0])
		for _, line := range msgLines[1:] {
			lines = append(lines, indent+line)
		}

		keys := make([]string, 0, len(entry.Metadata))
		for k := range entry.Metadata {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			lines = append(lines, fmt.Sprintf("%s%s: %v", indent, k, entry.Metadata[k]))
		}
	}

	return strings.Join(lines, "\n")
}

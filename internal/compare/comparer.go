package compare

import (
	"fmt"

	"merkle-snap/internal/hash"
	"merkle-snap/internal/tree"
)

type ChangeType string

const (
	NewFile  ChangeType = "NEW"
	Modified ChangeType = "MODIFIED"
	Removed  ChangeType = "REMOVED"
)

// Change classifies one tracked file. Previous* fields are empty for new
// files and Current* fields are empty for removed ones.
type Change struct {
	Type            ChangeType
	Name            string
	PreviousDigest  string
	CurrentDigest   string
	PreviousContent string
	CurrentContent  string
}

// Report is the result of comparing a rescan against the stored snapshot.
type Report struct {
	Changes     []Change
	StoredRoot  string
	CurrentRoot string
	// Tree is the rendering of the stored snapshot.
	Tree string
}

func (r *Report) HasChanges() bool {
	return len(r.Changes) > 0
}

// Count returns the number of changes of type ct.
func (r *Report) Count(ct ChangeType) int {
	n := 0
	for _, c := range r.Changes {
		if c.Type == ct {
			n++
		}
	}
	return n
}

// Compare classifies each current leaf against the stored root, keeping the
// order of current. Stored leaves missing from current are reported as
// Removed, after the scanned records, only when includeRemoved is set.
// Neither stored.Children nor current needs to be sorted.
func Compare(stored tree.Node, current []tree.Node, includeRemoved bool) []Change {
	changes := make([]Change, 0)

	index := make(map[string]tree.Node, len(stored.Children))
	for _, child := range stored.Children {
		index[child.Name] = child
	}

	for _, leaf := range current {
		previous, exists := index[leaf.Name]
		if !exists {
			changes = append(changes, Change{
				Type:           NewFile,
				Name:           leaf.Name,
				CurrentDigest:  leaf.Digest,
				CurrentContent: leaf.Content,
			})
			continue
		}

		if previous.Digest != leaf.Digest {
			changes = append(changes, Change{
				Type:            Modified,
				Name:            leaf.Name,
				PreviousDigest:  previous.Digest,
				CurrentDigest:   leaf.Digest,
				PreviousContent: previous.Content,
				CurrentContent:  leaf.Content,
			})
		}
	}

	if !includeRemoved {
		return changes
	}

	seen := make(map[string]struct{}, len(current))
	for _, leaf := range current {
		seen[leaf.Name] = struct{}{}
	}
	for _, previous := range stored.Children {
		if _, ok := seen[previous.Name]; !ok {
			changes = append(changes, Change{
				Type:            Removed,
				Name:            previous.Name,
				PreviousDigest:  previous.Digest,
				PreviousContent: previous.Content,
			})
		}
	}

	return changes
}

// Palette decorates report fragments. Each function receives the text to
// print and returns it styled.
type Palette struct {
	New      func(a ...any) string
	Modified func(a ...any) string
	Removed  func(a ...any) string
	Header   func(a ...any) string
}

// Plain leaves all text undecorated.
var Plain = Palette{
	New:      fmt.Sprint,
	Modified: fmt.Sprint,
	Removed:  fmt.Sprint,
	Header:   fmt.Sprint,
}

func (c Change) Label() string {
	switch c.Type {
	case NewFile:
		return "New file: " + c.Name
	case Modified:
		return "Modified: " + c.Name
	case Removed:
		return "Removed: " + c.Name
	default:
		return string(c.Type) + ": " + c.Name
	}
}

func FormatReport(result *Report) string {
	return FormatReportWith(result, Plain)
}

// FormatReportWith renders the report: content of every modified file, the
// change list (or a no-changes line), then the stored tree.
func FormatReportWith(result *Report, p Palette) string {
	report := ""

	for _, change := range result.Changes {
		if change.Type != Modified {
			continue
		}
		report += fmt.Sprintf("\nFile: %s\n", change.Name)
		report += fmt.Sprintf("Previous content: %s\n", change.PreviousContent)
		report += fmt.Sprintf("Current content: %s\n", change.CurrentContent)
	}

	if !result.HasChanges() {
		report += "No changes detected\n"
	} else {
		report += "\n" + p.Header("Changes detected:") + "\n"
		for _, change := range result.Changes {
			label := change.Label()
			switch change.Type {
			case NewFile:
				label = p.New(label)
			case Modified:
				label = p.Modified(label)
			case Removed:
				label = p.Removed(label)
			}
			report += label + "\n"
		}
	}

	if result.StoredRoot != result.CurrentRoot {
		report += fmt.Sprintf("\nRoot: %s -> %s\n",
			hash.Short(result.StoredRoot, tree.ShortDigestLen),
			hash.Short(result.CurrentRoot, tree.ShortDigestLen))
	}

	report += "\n" + p.Header("Current Merkle Tree Structure:") + "\n"
	report += result.Tree

	return report
}

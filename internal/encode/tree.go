package encode

import (
	"sort"
	"strings"

	"srcbundle/internal/models"
	"srcbundle/internal/render"
)

// treeNode is one directory or file in the folder-tree rendering.
type treeNode struct {
	name     string
	size     int64
	isFile   bool
	children map[string]*treeNode
}

// treeSection renders the derived folder-tree prefix for the Text and
// Markdown formats. Like the table of contents it is derived output; the
// decoders treat its lines as informational text.
func treeSection(records []models.FileRecord, root string, format models.OutputFormat) string {
	tree := TreeString(records, root)
	if format == models.FormatMarkdown {
		return "## Project Structure\n```text\n" + tree + "```\n\n"
	}
	return "Project Structure:\n" + tree + "\n" + sectionRule + "\n"
}

// TreeString draws the record set as a directory tree with box-drawing
// connectors and a per-file size suffix. Entries at each level sort
// alphabetically. root labels the top line; empty means ".".
func TreeString(records []models.FileRecord, root string) string {
	if root == "" {
		root = "."
	}
	top := &treeNode{children: make(map[string]*treeNode)}
	for _, r := range records {
		insertTreeNode(top, strings.Split(r.RelPath, "/"), r.Size)
	}

	var sb strings.Builder
	sb.WriteString(root + "/\n")
	drawTree(&sb, top, "")
	return sb.String()
}

func insertTreeNode(node *treeNode, parts []string, size int64) {
	name := parts[0]
	child, ok := node.children[name]
	if !ok {
		child = &treeNode{name: name, children: make(map[string]*treeNode)}
		node.children[name] = child
	}
	if len(parts) == 1 {
		child.isFile = true
		child.size = size
		return
	}
	insertTreeNode(child, parts[1:], size)
}

func drawTree(sb *strings.Builder, node *treeNode, prefix string) {
	names := make([]string, 0, len(node.children))
	for name := range node.children {
		names = append(names, name)
	}
	sort.Strings(names)

	for i, name := range names {
		child := node.children[name]
		connector, childPrefix := "├── ", prefix+"│   "
		if i == len(names)-1 {
			connector, childPrefix = "└── ", prefix+"    "
		}
		sb.WriteString(prefix)
		sb.WriteString(connector)
		sb.WriteString(child.name)
		if child.isFile {
			sb.WriteString(" (")
			sb.WriteString(render.HumanSize(child.size))
			sb.WriteString(")")
		}
		sb.WriteString("\n")
		drawTree(sb, child, childPrefix)
	}
}

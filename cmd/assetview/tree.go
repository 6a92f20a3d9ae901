package main

import (
	"sort"
	"strings"

	"github.com/AllenDang/cimgui-go/imgui"
)

// buildFileTree turns the flat path list into a directory tree,
// applying the search filter.
func (app *App) buildFileTree() *FileNode {
	root := &FileNode{Name: "/", Path: "", IsDir: true}
	if app.files == nil {
		return root
	}

	search := strings.ToLower(strings.TrimSpace(app.searchText))
	count := 0

	for _, path := range app.files {
		if search != "" && !strings.Contains(strings.ToLower(path), search) {
			continue
		}
		count++
		app.insertPath(root, path)
	}

	app.filterCount = count
	sortTree(root)
	return root
}

func (app *App) insertPath(root *FileNode, path string) {
	parts := strings.Split(path, "/")
	current := root

	for i, part := range parts {
		if part == "" {
			continue
		}
		isLast := i == len(parts)-1

		var child *FileNode
		for _, c := range current.Children {
			if c.Name == part && c.IsDir != isLast {
				child = c
				break
			}
		}

		if child == nil {
			child = &FileNode{
				Name:  part,
				Path:  strings.Join(parts[:i+1], "/"),
				IsDir: !isLast,
			}
			current.Children = append(current.Children, child)
		}
		current = child
	}
}

// sortTree orders directories before files, then by name.
func sortTree(node *FileNode) {
	sort.Slice(node.Children, func(i, j int) bool {
		a, b := node.Children[i], node.Children[j]
		if a.IsDir != b.IsDir {
			return a.IsDir
		}
		return a.Name < b.Name
	})
	for _, child := range node.Children {
		if child.IsDir {
			sortTree(child)
		}
	}
}

func (app *App) rebuildTree() {
	if app.files != nil {
		app.fileTree = app.buildFileTree()
	}
}

func (app *App) renderFileTree() {
	if app.fileTree == nil {
		imgui.TextDisabled("Open a pack or directory to browse")
		return
	}

	if imgui.BeginChildStrV("FileTreeChild", imgui.NewVec2(0, 0), imgui.ChildFlagsBorders, imgui.WindowFlagsHorizontalScrollbar) {
		// The search already pruned the tree, so expand everything
		// while a filter is active.
		expand := strings.TrimSpace(app.searchText) != ""
		for _, child := range app.fileTree.Children {
			app.renderTreeNode(child, expand)
		}
	}
	imgui.EndChild()
}

func (app *App) renderTreeNode(node *FileNode, expand bool) {
	if node.IsDir {
		flags := imgui.TreeNodeFlagsOpenOnArrow | imgui.TreeNodeFlagsSpanAvailWidth
		if expand {
			flags |= imgui.TreeNodeFlagsDefaultOpen
		}
		if imgui.TreeNodeExStrV(node.Name, flags) {
			for _, child := range node.Children {
				app.renderTreeNode(child, expand)
			}
			imgui.TreePop()
		}
		return
	}

	flags := imgui.TreeNodeFlagsLeaf | imgui.TreeNodeFlagsNoTreePushOnOpen | imgui.TreeNodeFlagsSpanAvailWidth
	if node.Path == app.selectedPath {
		flags |= imgui.TreeNodeFlagsSelected
	}
	imgui.TreeNodeExStrV(node.Name, flags)
	if imgui.IsItemClicked() {
		app.selectedPath = node.Path
	}
}

// Package celleditor provides the Bubble Tea rich-text editor used for one
// grid cell, backed by the richtext package.
//
// An Editor is a long-lived handle: the grid creates one per visible cell,
// forwards key and mouse input to the focused one and destroys it when the
// cell goes away. It reports content edits and focus through Config callbacks.
package celleditor

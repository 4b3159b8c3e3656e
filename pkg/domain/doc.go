/*
Package domain contains the core domain models for the Espalier engine.

It defines the fundamental entities of a decision graph: Nodes, the Options
that connect them, the immutable Graph they form, and the Session snapshots
produced by walking it. This package is kept pure and free of external
dependencies like I/O or persistence, following Hexagonal Architecture
principles.

# Key Entities

  - Node: a point in the graph, either a question (with options) or a leaf
    (with a recommendation).
  - Option: a labeled directed edge from a question to its target node.
  - Graph: the immutable collection of nodes plus a designated root.
  - Session: the runtime snapshot of one walk (current node, path taken).
  - View: what a renderer needs to display the current position.
*/
package domain

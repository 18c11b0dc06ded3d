/*
Package domain contains the core model types of the diagram engine.

It defines the passive values exchanged between the model source and the
rendering layer, and is kept free of I/O and external dependencies.

# Key Entities

  - Element: an identity-bearing node of the model tree, with a variant Kind
    resolved from its type and a fixed Capabilities set per variant.
  - Point, Dimension, Bounds: geometry primitives.
  - ViewportRoot: a root with scroll, zoom and resizable bounds.
  - Match: one structural change (insert, remove, move) between two trees.
  - Action: a discriminated message of the synchronization protocol.
*/
package domain

/*
Package ports defines the driven ports (interfaces) of the diagram engine.

These interfaces decouple the model source from the collaborators it is wired
with at startup: the transport that delivers actions, the optional layout
engine, the optional popup factory and the producers of model trees.

# Key Interfaces

  - ActionDispatcher: Delivers actions to the handlers registered for their kind.
  - ActionHandler: Reacts to one delivered action.
  - LayoutEngine: Synchronously computes bounds in place (optional).
  - PopupModelFactory: Builds an auxiliary tree for a popup request (optional).
  - ModelLoader / Watchable: External producers of whole model trees.
*/
package ports

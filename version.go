package diagram

// Version is the release of the diagram module.
const Version = "0.1.0"

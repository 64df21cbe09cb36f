// Package menu binds the main menu page: category sections from a page
// model are turned into snapshots, fed through a Store, and shown on a list
// surface by a Projection. Row activations go back to the model.
package menu

// Package sittergen registers a tree-sitter based Java generator under the
// id "java-treesitter" with low priority. It is compiled only with cgo; in
// pure-Go builds the package is empty and registers nothing.
package sittergen

const ID = "java-treesitter"

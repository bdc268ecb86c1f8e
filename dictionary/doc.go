// Package dictionary models a CIF dictionary (DDL1/DDL2): the type
// regexes, item/category definitions, and parent-child link groups that
// the root cif package validates files against.
//
// This package is a leaf: within this module it depends only on
// internal/parse (and, through it, internal/lex), never on the root cif
// package, so that the loader
// (C7, a second Sink implementation alongside the store's) can run
// without importing the store it will eventually validate.
//
// Grounded on the teacher's pkg/types (typed errors, process-lifetime
// registry pattern) generalized from a registry-hive schema to a CIF
// dictionary schema.
package dictionary

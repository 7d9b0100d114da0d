// ABOUTME: Package documentation for blog persistence
// ABOUTME: Describes the UserDirectory and PostStore collaborator interfaces

// Package store provides persistence for blog users and posts.
//
// The rest of the system consumes storage through two narrow interfaces:
// UserDirectory (resolve a user by id or email, persist a new user) and
// PostStore (post CRUD by id and owner). SQLiteStore implements both on a
// single SQLite database. Absent rows surface as ErrNotFound; an email
// uniqueness conflict surfaces as ErrDuplicateEmail.
package store

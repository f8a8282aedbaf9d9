// Package core holds the types shared by every BloodLink module: the HTTP
// error catalogue and the domain enumerations stored in Postgres.
package core

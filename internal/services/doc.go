// Package services holds the shared plumbing for the external tools cdrip
// drives: the command executor all clients run through and the error
// taxonomy used to classify their failures.
package services

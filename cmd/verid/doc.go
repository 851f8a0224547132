// Command verid provides operator tooling for the verification core:
// document extraction from still frames, configuration management, and
// inspection of enrollments, sessions, and the decision audit trail.
package main

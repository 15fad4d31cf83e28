/*
Package domain contains the core types of the canvass feedback engine.

It defines the question catalog entries, the per-respondent session state, the
emitted answer record and the error taxonomy shared by every adapter. The package
is pure: no I/O, no persistence, no presentation.

# Key Entities

  - Question: one prompt of the catalog, bound to a target field of the record.
  - State: the mutable snapshot of a single respondent's pass through the catalog.
  - Record: the flat key/value artifact handed to the submission sink.
  - ActionRequest: a structural description of what a renderer should show next.
*/
package domain

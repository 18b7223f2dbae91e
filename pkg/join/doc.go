// Package join reconciles a new dataset against the marks already on screen.
//
// Every mark is held by a [Binding] that associates a stable key with the
// geometry currently displayed. [Reconcile] compares the live bindings of a
// [Set] with the targets computed for a new dataset and classifies each key:
//
//   - enter: the key is new; the mark starts from a zero baseline
//   - update: the key persists; the mark moves from its current geometry
//   - exit: the key disappeared; the mark animates to the zero baseline and
//     is removed afterwards
//
// Reconcile is pure: it returns a [Plan] and leaves the set untouched until
// [Plan.Apply] is called, so a render that fails after reconciling leaves no
// partial state behind.
//
// Because update marks start from the geometry currently displayed rather
// than from their last target, re-rendering in the middle of a transition
// continues smoothly, and a mark that is exiting when its key returns is
// turned back into an update.
package join

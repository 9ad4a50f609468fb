// Package layout runs the full layout cycle for one topology view.
//
// An [Engine] owns a placement store, a connector accumulator and an arrow
// store, and recomputes them in a fixed order on every relayout:
//
//  1. card placement: column order from the last topology change, card
//     positions from the current card sizes
//  2. connector accumulation for every (sender, receiver) pair, then one
//     vertical re-centering pass
//  3. access point anchors inside each receiver card
//  4. routing: sender arrows detour around the sender and receiver boxes
//  5. arrow store writes
//
// Measurement callbacks enter through [Engine.MeasureCard]. They only
// trigger a relayout when an epsilon-gated setter reports a real change,
// and they are ignored for cards that are not part of the current topology.
//
// All Engine methods are safe for concurrent use. Reads go through
// [Engine.Frame], which returns copies.
package layout

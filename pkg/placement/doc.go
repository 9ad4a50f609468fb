// Package placement stores per-card geometry for one topology view.
//
// A [Store] holds three maps: card dimensions (filled by measurement
// callbacks as cards render), card positions (assigned by the layering step)
// and access point anchor coordinates (filled by the layout engine). The
// setters are epsilon-gated: they report whether the stored value actually
// moved by more than a tolerance, so callers can skip a relayout when a
// re-measurement only differs by sub-pixel noise.
//
// A card is placed only once it has both a position and dimensions;
// [Store.CardXYWH] and [Store.CardsBBoxes] ignore cards lacking either.
//
// Getters return copies. Store is not safe for concurrent use without
// external synchronization.
package placement

// Package score holds the pure scoring functions of the integrity engine.
//
// Grade derives the letter grade (A+ through D) from a total score using a
// fixed descending threshold table. WeightedTotal computes the weighted
// total from the three category sub-scores (contract, personnel, budget)
// and validates that the weights sum to 1; RawWeightedTotal is the lenient
// variant. Grade is the only code path that produces a letter grade — no
// other package derives one independently.
package score

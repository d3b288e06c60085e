// Package bids derives BIDS entities from scan attributes and composes the
// canonical output paths. Classification is an ordered rule table over the
// lower-cased protocol name and technique; the first matching rule wins and
// an unmatched protocol always degrades to the "other" category instead of
// failing. Run indexes are assigned through a batch-scoped ledger so repeated
// acquisitions stay distinguishable.
package bids
